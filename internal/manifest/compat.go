package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckHost verifies that hostVersion satisfies the manifest's host
// constraint. An empty constraint accepts any host. A leading "v" on the
// host version is tolerated.
func (m *PluginManifest) CheckHost(hostVersion string) error {
	if m.Host == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Host)
	if err != nil {
		return fmt.Errorf("parsing host constraint %q of plugin %s: %w", m.Host, m.Name, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(hostVersion, "v"))
	if err != nil {
		return fmt.Errorf("parsing host version %q: %w", hostVersion, err)
	}

	if ok, errs := c.Validate(v); !ok {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("plugin %s does not support host %s: %s", m.Name, hostVersion, strings.Join(msgs, "; "))
	}
	return nil
}
