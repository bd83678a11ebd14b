package manifest

// FileName is the manifest file expected at the root of a plugin directory.
const FileName = "plugin.yaml"

// PluginManifest describes a UI plugin.
type PluginManifest struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
	// Host is a semver constraint on the host version, e.g. ">= 1.2, < 2".
	Host  string     `yaml:"host" json:"host"`
	Views []ViewDecl `yaml:"views" json:"views"`
}

// ViewDecl declares a view contributed to the debug panel.
type ViewDecl struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon,omitempty" json:"icon,omitempty"`
	// Title is a localization key resolved by the host.
	Title string `yaml:"title" json:"title"`
}

// View returns the declared view with the given name.
func (m *PluginManifest) View(name string) (ViewDecl, bool) {
	for _, v := range m.Views {
		if v.Name == name {
			return v, true
		}
	}
	return ViewDecl{}, false
}
