package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/authoring-labs/debugtags/internal/branding"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Keys understood by Settings. Anything else can still be stored with Set.
const (
	KeyAPIURL      = "api_url"
	KeyContentPath = "content_path"
	KeyLocale      = "locale"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
)

// Settings is the typed view of the configuration consumed by the commands.
type Settings struct {
	APIURL      string        `mapstructure:"api_url" validate:"required,http_url"`
	ContentPath string        `mapstructure:"content_path" validate:"required"`
	Locale      string        `mapstructure:"locale" validate:"required,bcp47_language_tag"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0s"`
	LogLevel    string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string        `mapstructure:"log_format" validate:"oneof=console json"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dir returns the path to the config directory (~/.debugtags/), or the
// value of DEBUGTAGS_HOME when set.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.debugtags/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault(KeyAPIURL, "")
	viper.SetDefault(KeyContentPath, "api/content")
	viper.SetDefault(KeyLocale, "en")
	viper.SetDefault(KeyTimeout, "30s")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLogFormat, "console")
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Current decodes and validates the loaded configuration. Load must have
// been called first so defaults and env bindings are in place.
func Current() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks s and reports every failing key in a single error.
func Validate(s *Settings) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating settings: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", keyFor(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}

// keyFor maps a Settings field name back to its config key.
func keyFor(field string) string {
	switch field {
	case "APIURL":
		return KeyAPIURL
	case "ContentPath":
		return KeyContentPath
	case "Locale":
		return KeyLocale
	case "Timeout":
		return KeyTimeout
	case "LogLevel":
		return KeyLogLevel
	case "LogFormat":
		return KeyLogFormat
	default:
		return field
	}
}
