package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/authoring-labs/debugtags/internal/branding"
	"github.com/authoring-labs/debugtags/internal/config"
	"github.com/authoring-labs/debugtags/internal/extension"
	"github.com/authoring-labs/debugtags/internal/host"
	"github.com/authoring-labs/debugtags/internal/logging"
	"github.com/authoring-labs/debugtags/internal/tags"
	"github.com/authoring-labs/debugtags/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(panelCmd)
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive debug panel (default)",
	Long: `Open the debug panel in the terminal. The Tags view lists every tag with the
courses and assets using it; r renames, t transfers, d deletes and u deletes
all unused tags. Logs go to panel.log in the config directory while the
panel is open.`,
	Args: cobra.NoArgs,
	RunE: runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := config.EnsureDir(); err != nil {
		return err
	}
	fileLogger, err := logging.NewWithOutput(settings.LogLevel, settings.LogFormat, filepath.Join(config.Dir(), "panel.log"))
	if err != nil {
		return err
	}
	logger = fileLogger

	panel, err := bootPanel(ctx, tui.NewBridge())
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.NewPanel(branding.DisplayName(), panel),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
}

// bootPanel starts the host services, initializes the extension and
// registers the tags view backed by bridge. The returned panel is ready.
func bootPanel(ctx context.Context, bridge *tui.Bridge) (*host.DebugPanel, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	h := host.New(host.APIVersion, host.WithLogger(logger))
	panel := host.NewDebugPanel()
	if err := h.Provide(host.ModuleUI, host.NewUI(h.Version(), logger)); err != nil {
		return nil, err
	}
	if err := h.Provide(host.ModuleDebug, panel); err != nil {
		return nil, err
	}

	ext := extension.New(settings.Locale, logger)
	if err := ext.Init(ctx, h); err != nil {
		return nil, fmt.Errorf("initializing extension: %w", err)
	}
	err = ext.Register(panel, func() tea.Model {
		view := tags.NewView(client, bridge, bridge,
			tags.WithLocale(settings.Locale),
			tags.WithLogger(logger),
			tags.WithOnChange(bridge.Changed),
		)
		return tui.NewTagsPage(ctx, view, bridge)
	})
	if err != nil {
		return nil, err
	}
	if err := panel.Ready(); err != nil {
		return nil, fmt.Errorf("readying debug panel: %w", err)
	}

	logger.Debug("debug panel ready", zap.Int("views", len(panel.Views())))
	return panel, nil
}
