package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/authoring-labs/debugtags/internal/api"
	"github.com/authoring-labs/debugtags/internal/branding"
	"github.com/authoring-labs/debugtags/internal/config"
	"github.com/authoring-labs/debugtags/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	settings *config.Settings
	logger   = zap.NewNop()
)

// errReported marks failures the operator has already been shown.
var errReported = errors.New("reported")

// skipSettings is set on commands that run without a valid configuration.
const skipSettings = "skip-settings"

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` lists the tags of an authoring host together with the courses and
assets that use them, and renames, merges or deletes tags over the host's REST API.

Run without a sub-command to open the interactive debug panel.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync(logger)
	},
	RunE: runPanel,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Base URL of the host application (config: api_url)")
	pf.String("locale", "", "Locale for messages and title ordering (config: locale)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (config: log_level)")
	pf.String("log-format", "", "Log format: console or json (config: log_format)")
}

// initConfig loads the config file and binds the persistent flags over it.
func initConfig() {
	config.Load()
	pf := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		config.KeyAPIURL:    "api-url",
		config.KeyLocale:    "locale",
		config.KeyLogLevel:  "log-level",
		config.KeyLogFormat: "log-format",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func loadSettings(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipSettings]; ok {
			return nil
		}
	}

	s, err := config.Current()
	if err != nil {
		return fmt.Errorf("%w (set it with `%s config set` or %s)", err, branding.CLIName(), branding.EnvVar("API_URL"))
	}
	l, err := logging.New(s.LogLevel, s.LogFormat)
	if err != nil {
		return err
	}
	settings, logger = s, l
	return nil
}

// newClient builds an API client from the loaded settings.
func newClient() (*api.Client, error) {
	return api.New(settings.APIURL,
		api.WithLogger(logger),
		api.WithContentPath(settings.ContentPath),
		api.WithTimeout(settings.Timeout),
		api.WithUserAgent(branding.UserAgent(buildVersion)),
	)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
