package extension

import (
	"context"
	"embed"
	"fmt"

	"github.com/authoring-labs/debugtags/internal/host"
	"github.com/authoring-labs/debugtags/internal/l10n"
	"go.uber.org/zap"
	"golang.org/x/text/message"
)

//go:embed ui-plugins
var pluginFS embed.FS

// Plugin identity inside the embedded filesystem.
const (
	PluginName = "debug-tags"
	PluginDir  = "ui-plugins/" + PluginName
)

// ViewName is the view the plugin manifest declares for the tags page.
const ViewName = "tags"

// Module is the extension's entry point.
type Module struct {
	printer *message.Printer
	logger  *zap.Logger
	ui      *host.UI
}

// New returns a Module that localizes its view title for locale.
func New(locale string, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{printer: l10n.Printer(locale), logger: logger}
}

// Init waits for the host's UI module and installs the embedded plugin.
func (m *Module) Init(ctx context.Context, h *host.Host) error {
	ui, err := host.WaitFor[*host.UI](ctx, h, host.ModuleUI)
	if err != nil {
		return err
	}
	if err := ui.AddUIPlugin(pluginFS, PluginDir); err != nil {
		return err
	}
	m.ui = ui
	return nil
}

// Register adds the view declared by the installed plugin to panel once the
// panel is ready. Init must have succeeded first. Errors from AddView are
// returned here when the panel is already ready, otherwise from panel.Ready.
func (m *Module) Register(panel *host.DebugPanel, factory host.ViewFactory) error {
	var plugin host.Plugin
	ok := false
	if m.ui != nil {
		plugin, ok = m.ui.Plugin(PluginName)
	}
	if !ok {
		return fmt.Errorf("registering %s view: plugin %s is not installed", ViewName, PluginName)
	}
	decl, ok := plugin.Manifest.View(ViewName)
	if !ok {
		return fmt.Errorf("registering %s view: plugin %s does not declare it", ViewName, PluginName)
	}

	spec := host.ViewSpec{
		Name:  decl.Name,
		Icon:  decl.Icon,
		Title: m.printer.Sprintf(decl.Title),
		New:   factory,
	}
	return panel.OnReady(func(p *host.DebugPanel) error {
		if err := p.AddView(spec); err != nil {
			return err
		}
		m.logger.Debug("view registered", zap.String("view", spec.Name), zap.String("title", spec.Title))
		return nil
	})
}
