package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Setenv("DEBUGTAGS_HOME", dir)
	return dir
}

func TestFilePathUsesHomeOverride(t *testing.T) {
	dir := setupHome(t)
	if got, want := FilePath(), filepath.Join(dir, "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestCurrentDefaults(t *testing.T) {
	setupHome(t)
	t.Setenv("DEBUGTAGS_API_URL", "http://localhost:5000")
	Load()

	s, err := Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if s.APIURL != "http://localhost:5000" {
		t.Errorf("APIURL = %q", s.APIURL)
	}
	if s.ContentPath != "api/content" {
		t.Errorf("ContentPath = %q, want api/content", s.ContentPath)
	}
	if s.Locale != "en" {
		t.Errorf("Locale = %q, want en", s.Locale)
	}
	if s.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", s.Timeout)
	}
	if s.LogLevel != "info" || s.LogFormat != "console" {
		t.Errorf("log settings = %q/%q", s.LogLevel, s.LogFormat)
	}
}

func TestCurrentRequiresAPIURL(t *testing.T) {
	setupHome(t)
	Load()

	if _, err := Current(); err == nil {
		t.Fatal("expected error when api_url is unset")
	}
}

func TestValidateReportsEveryKey(t *testing.T) {
	s := &Settings{
		APIURL:      "not a url",
		ContentPath: "api/content",
		Locale:      "en",
		Timeout:     0,
		LogLevel:    "chatty",
		LogFormat:   "console",
	}
	err := Validate(s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{KeyAPIURL, KeyTimeout, KeyLogLevel} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestSetWritesFile(t *testing.T) {
	setupHome(t)
	Load()

	if err := Set(KeyLocale, "de"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, err := os.ReadFile(FilePath())
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if !strings.Contains(string(data), "locale: de") {
		t.Errorf("config file = %q, want locale: de", data)
	}
	if got := Get(KeyLocale); got != "de" {
		t.Errorf("Get(locale) = %q, want de", got)
	}
}
