// Package config handles configuration for awsquery
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete awsquery configuration
type Config struct {
	AWS     AWSConfig     `mapstructure:"aws"`
	Schema  SchemaConfig  `mapstructure:"schema"`
	Query   QueryConfig   `mapstructure:"query"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AWSConfig contains AWS connection settings
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
}

// SchemaConfig locates the service model documents
type SchemaConfig struct {
	ModelPaths []string `mapstructure:"model_paths"`
}

// QueryConfig contains call resolution settings
type QueryConfig struct {
	// DefaultLimit caps filtered discovery candidates; 0 means unlimited.
	DefaultLimit int `mapstructure:"default_limit"`
}

// OutputConfig contains result rendering settings
type OutputConfig struct {
	Format     string `mapstructure:"format"`
	MaxColumns int    `mapstructure:"max_columns"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from defaults, the config file, and environment
// variables, in increasing precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("awsquery")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "awsquery"))
		v.AddConfigPath(home)
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("schema.model_paths", defaultModelPaths())

	v.SetDefault("query.default_limit", 10)

	v.SetDefault("output.format", "table")
	v.SetDefault("output.max_columns", 6)

	v.SetDefault("logging.level", "warn")
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("AWSQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The standard AWS variables apply without the prefix.
	_ = v.BindEnv("aws.region", "AWSQUERY_AWS_REGION", "AWS_REGION", "AWS_DEFAULT_REGION")
	_ = v.BindEnv("aws.profile", "AWSQUERY_AWS_PROFILE", "AWS_PROFILE")
	_ = v.BindEnv("aws.access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("aws.session_token", "AWS_SESSION_TOKEN")

	_ = v.BindEnv("schema.model_paths", "AWSQUERY_SCHEMA_MODEL_PATHS")
	_ = v.BindEnv("logging.level", "AWSQUERY_LOG_LEVEL", "LOG_LEVEL")
}

// defaultModelPaths lists where service model documents are conventionally
// installed.
func defaultModelPaths() []string {
	paths := []string{"/usr/share/awsquery/models"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append([]string{filepath.Join(home, ".config", "awsquery", "models")}, paths...)
	}
	return paths
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Query.DefaultLimit < 0 {
		return fmt.Errorf("query.default_limit must not be negative: %d", cfg.Query.DefaultLimit)
	}
	if cfg.Output.MaxColumns < 0 {
		return fmt.Errorf("output.max_columns must not be negative: %d", cfg.Output.MaxColumns)
	}
	switch cfg.Output.Format {
	case "table", "json":
	default:
		return fmt.Errorf("unsupported output format %q", cfg.Output.Format)
	}
	return nil
}
