package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// NetBox connection
	NetBoxURL     string
	NetBoxToken   string
	NetBoxTag     string
	NetBoxTimeout time.Duration

	// Run settings
	TypeRefPath    string
	CommandTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Config file keys, bound to their environment variables.
var envBindings = map[string]string{
	"netbox_url":     constants.EnvNetBoxURL,
	"netbox_token":   constants.EnvNetBoxToken,
	"netbox_tag":     constants.EnvNetBoxTag,
	"netbox_timeout": constants.EnvNetBoxTimeout,
	"type_ref":       constants.EnvTypeRef,
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.nbcheck.yaml or ./.nbcheck.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFiles()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.NewConfigError("config", "binding "+env, err)
		}
	}

	v.SetDefault("netbox_tag", constants.DefaultTag)
	v.SetDefault("netbox_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("type_ref", constants.DefaultTypeRefFile)
	v.SetDefault("command_timeout", constants.CommandTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".nbcheck")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading "+v.ConfigFileUsed(), err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		NetBoxURL:     v.GetString("netbox_url"),
		NetBoxToken:   v.GetString("netbox_token"),
		NetBoxTag:     v.GetString("netbox_tag"),
		NetBoxTimeout: v.GetDuration("netbox_timeout"),

		TypeRefPath:    v.GetString("type_ref"),
		CommandTimeout: v.GetDuration("command_timeout"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if config.NetBoxTag == "" {
		config.NetBoxTag = constants.DefaultTag
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so that its values win: godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadConfigFile loads configuration with an explicit config file.
func loadConfigFile(path string) (*Config, error) {
	return loadConfig(viper.New(), path)
}
