package host

import (
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"github.com/authoring-labs/debugtags/internal/manifest"
	"go.uber.org/zap"
)

// Plugin is a UI plugin accepted by the UI module.
type Plugin struct {
	Dir      string
	FS       fs.FS
	Manifest *manifest.PluginManifest
}

// UI installs UI plugins from their manifest directories.
type UI struct {
	hostVersion string
	logger      *zap.Logger

	mu      sync.Mutex
	plugins []Plugin
}

// NewUI returns a UI module that accepts plugins compatible with hostVersion.
func NewUI(hostVersion string, logger *zap.Logger) *UI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UI{hostVersion: hostVersion, logger: logger}
}

// AddUIPlugin loads dir/plugin.yaml from fsys, validates it and records the
// plugin. A plugin name can only be added once.
func (u *UI) AddUIPlugin(fsys fs.FS, dir string) error {
	m, err := manifest.Load(fsys, dir)
	if err != nil {
		return fmt.Errorf("adding UI plugin %s: %w", dir, err)
	}
	if err := m.CheckHost(u.hostVersion); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if slices.ContainsFunc(u.plugins, func(p Plugin) bool { return p.Manifest.Name == m.Name }) {
		return fmt.Errorf("UI plugin %q already added", m.Name)
	}
	u.plugins = append(u.plugins, Plugin{Dir: dir, FS: fsys, Manifest: m})
	u.logger.Info("UI plugin added",
		zap.String("plugin", m.Name),
		zap.String("version", m.Version),
		zap.Int("views", len(m.Views)),
	)
	return nil
}

// Plugins returns the plugins added so far, in order.
func (u *UI) Plugins() []Plugin {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.plugins)
}

// Plugin returns the plugin named name.
func (u *UI) Plugin(name string) (Plugin, bool) {
	for _, p := range u.Plugins() {
		if p.Manifest.Name == name {
			return p, true
		}
	}
	return Plugin{}, false
}
