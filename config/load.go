package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/gcbaptista/agency-finder/internal/errors"
)

// EnvPrefix is prepended to every environment variable override,
// e.g. AGENCY_FINDER_SEARCH_THRESHOLD.
const EnvPrefix = "AGENCY_FINDER"

// SetDefaults registers default values for every configuration key
func SetDefaults(v *viper.Viper) {
	var defaults Settings
	defaults.ApplyDefaults()

	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.max_body_bytes", defaults.Server.MaxBodyBytes)

	v.SetDefault("search.page_size", defaults.Search.PageSize)
	v.SetDefault("search.threshold", defaults.Search.Threshold)
	v.SetDefault("search.target_fields", defaults.Search.TargetFields)
	v.SetDefault("search.max_results", 0)

	v.SetDefault("backend.kind", defaults.Backend.Kind)
	v.SetDefault("backend.data_dir", defaults.Backend.DataDir)
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.object_type", defaults.Backend.ObjectType)
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", defaults.Backend.Timeout)
	v.SetDefault("backend.requests_per_second", defaults.Backend.RequestsPerSecond)
	v.SetDefault("backend.properties", defaults.Backend.Properties)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", defaults.Log.Level)
}

// NewViper returns a Viper instance with defaults and environment binding.
// When configPath is not empty the file is read as well.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}
	return v, nil
}

// Load reads, defaults and validates the configuration
func Load(configPath string) (*Settings, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates configuration from a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	settings.ApplyDefaults()

	if problems := settings.Validate(); len(problems) > 0 {
		return nil, errors.NewValidationError("config", strings.Join(problems, "; "))
	}
	return &settings, nil
}
