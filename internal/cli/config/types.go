// Package config provides configuration management for the confreport CLI.
//
// Settings are layered with koanf: built-in defaults, then a confreport.yaml
// file, then CONFREPORT_* environment variables, then explicitly set flags.
package config

// Default values for the settings.
const (
	DefaultStyle          = "light"
	DefaultOutput         = "auto"
	DefaultDelimiter      = "__"
	DefaultMarker         = "@"
	DefaultTreePrefix     = "⤷ "
	DefaultIncludeMissing = true
	DefaultIncludeValid   = false
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "CONFREPORT_"

// Config holds all CLI configuration options.
type Config struct {
	// Style names the table border style.
	Style        string `koanf:"style"`
	OutputFormat string `koanf:"output"`
	// Delimiter marks directive keys in specifications.
	Delimiter string `koanf:"delimiter"`
	// Marker marks result keys dropped before the error tree is built.
	Marker         string `koanf:"marker"`
	TreePrefix     string `koanf:"tree_prefix"`
	IncludeMissing bool   `koanf:"include_missing"`
	IncludeValid   bool   `koanf:"include_valid"`
	Verbose        bool   `koanf:"verbose"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Style:          DefaultStyle,
		OutputFormat:   DefaultOutput,
		Delimiter:      DefaultDelimiter,
		Marker:         DefaultMarker,
		TreePrefix:     DefaultTreePrefix,
		IncludeMissing: DefaultIncludeMissing,
		IncludeValid:   DefaultIncludeValid,
	}
}

func defaultsMap() map[string]interface{} {
	return map[string]interface{}{
		"style":           DefaultStyle,
		"output":          DefaultOutput,
		"delimiter":       DefaultDelimiter,
		"marker":          DefaultMarker,
		"tree_prefix":     DefaultTreePrefix,
		"include_missing": DefaultIncludeMissing,
		"include_valid":   DefaultIncludeValid,
		"verbose":         false,
	}
}
