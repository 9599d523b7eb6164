package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/maryline/catalogsync/pkg/constants"
	"github.com/maryline/catalogsync/pkg/errors"
	"github.com/maryline/catalogsync/pkg/reconcile"
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

	// Remote APIs
	KeyCRMBaseURL string
	KeyCRMToken   string
	StrapiBaseURL string
	StrapiToken   string

	// Run history
	HistoryDir string
	NoHistory  bool

	Sync SyncConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// SyncConfig holds the reconciliation settings under the sync key.
type SyncConfig struct {
	Scope             string
	BatchSize         int
	BatchPause        time.Duration
	OfferLimit        int
	MaxAttempts       int
	RetryDelay        time.Duration
	RequestsPerSecond float64
	RelationOffset    int64
	EmptyStock        string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.catalogsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit config file path. An empty
// path falls back to the CONFIG variable and then the standard locations.
func LoadConfigFile(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults()

	if configFile == "" {
		configFile = viper.GetString("config")
	}
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".catalogsync")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit file must exist, the standard locations are optional
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		KeyCRMBaseURL: viper.GetString("keycrm_base_url"),
		KeyCRMToken:   viper.GetString("keycrm_token"),
		StrapiBaseURL: viper.GetString("strapi_base_url"),
		StrapiToken:   viper.GetString("strapi_token"),

		HistoryDir: viper.GetString("history_dir"),
		NoHistory:  viper.GetBool("no_history"),

		Sync: SyncConfig{
			Scope:             viper.GetString("sync.scope"),
			BatchSize:         viper.GetInt("sync.batch_size"),
			BatchPause:        viper.GetDuration("sync.batch_pause"),
			OfferLimit:        viper.GetInt("sync.offer_limit"),
			MaxAttempts:       viper.GetInt("sync.max_attempts"),
			RetryDelay:        viper.GetDuration("sync.retry_delay"),
			RequestsPerSecond: viper.GetFloat64("sync.requests_per_second"),
			RelationOffset:    viper.GetInt64("sync.relation_offset"),
			EmptyStock:        viper.GetString("sync.empty_stock"),
		},

		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
		LogOutput: viper.GetString("log_output"),
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("keycrm_base_url", constants.DefaultKeyCRMBase)
	viper.SetDefault("strapi_base_url", constants.DefaultStrapiBase)
	viper.SetDefault("sync.scope", string(reconcile.ScopeAll))
	viper.SetDefault("sync.batch_size", constants.DefaultBatchSize)
	viper.SetDefault("sync.batch_pause", constants.DefaultBatchPause)
	viper.SetDefault("sync.offer_limit", constants.DefaultOfferLimit)
	viper.SetDefault("sync.max_attempts", constants.DefaultMaxAttempts)
	viper.SetDefault("sync.retry_delay", constants.RetryBackoff)
	viper.SetDefault("sync.requests_per_second", 0)
	viper.SetDefault("sync.relation_offset", constants.DefaultRelationOffset)
	viper.SetDefault("sync.empty_stock", string(reconcile.EmptyStockSkip))
	viper.SetDefault("log_format", "auto")
	viper.SetDefault("log_output", "stderr")
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

// loadEnvFiles loads environment variables from .env files. Load never
// overrides a variable that is already set, so .env.local goes first.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
