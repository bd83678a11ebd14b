// Package config manages user-level settings stored at ~/.debugtags/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the host API base URL, the collation locale and the log level, and decodes
// them into a validated Settings value for the rest of the binary.
package config
