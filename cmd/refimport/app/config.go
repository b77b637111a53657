package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/refimport/pkg/constants"
	"github.com/agentstation/refimport/pkg/errors"
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

	// Import defaults
	Filter       string
	Pattern      string
	BackupSuffix string
	ManagedOnly  bool

	// Logging configuration. LogLevel comes from --log-level only;
	// EnvLogLevel from LOG_LEVEL or the config file.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra, see UpdateFromFlags)
// 2. Environment variables (REFIMPORT_FILTER, REFIMPORT_PATTERN, ...)
// 3. .env files
// 4. Config file (configFile, or .refimport.yaml in the working or home directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("pattern", constants.DefaultCandidatePattern)
	v.SetDefault("backup_suffix", constants.BackupSuffix)
	v.SetDefault("managed_only", true)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot read config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Filter:       v.GetString("filter"),
		Pattern:      v.GetString("pattern"),
		BackupSuffix: v.GetString("backup_suffix"),
		ManagedOnly:  v.GetBool("managed_only"),

		EnvLogLevel: firstNonEmpty(os.Getenv("LOG_LEVEL"), v.GetString("log.level")),
		LogFormat:   firstNonEmpty(os.Getenv("LOG_FORMAT"), v.GetString("log.format")),
		LogOutput:   firstNonEmpty(os.Getenv("LOG_OUTPUT"), v.GetString("log.output")),
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		config.NoColor = true
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so that its values win; godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
