package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Providers  ProvidersConfig  `yaml:"providers" mapstructure:"providers"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Waterfall  WaterfallConfig  `yaml:"waterfall" mapstructure:"waterfall"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ProvidersConfig holds contact-provider API credentials. A provider with
// no key is left out of the waterfall entirely.
type ProvidersConfig struct {
	ApolloKey     string `yaml:"apollo_key" mapstructure:"apollo_key"`
	ApolloBaseURL string `yaml:"apollo_base_url" mapstructure:"apollo_base_url"`
	HunterKey     string `yaml:"hunter_key" mapstructure:"hunter_key"`
	HunterBaseURL string `yaml:"hunter_base_url" mapstructure:"hunter_base_url"`
}

// JinaConfig holds Jina AI Reader settings for the scraper fallback.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// AnthropicConfig holds the text-generation backend settings used for
// last-resort contact and email-format guesses.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// NotionConfig holds Notion API credentials and the contact database ID.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	ContactDB string `yaml:"contact_db" mapstructure:"contact_db"`
}

// WaterfallConfig points at the optional provider-order YAML file. Absent,
// the built-in order and pacing apply.
type WaterfallConfig struct {
	ConfigPath string `yaml:"config_path" mapstructure:"config_path"`
}

// BatchConfig configures bounded fan-out.
type BatchConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// ServerConfig configures the HTTP trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "contacts.db")
	v.SetDefault("providers.apollo_base_url", "https://api.apollo.io/api/v1")
	v.SetDefault("providers.hunter_base_url", "https://api.hunter.io/v2")
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("batch.limit", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields the given mode needs. Modes map to the CLI
// subcommands: discover, verify, export, sync, serve.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Batch.Limit < 1 || c.Batch.Limit > 50 {
		problems = append(problems, "batch.limit must be between 1 and 50")
	}

	switch mode {
	case "discover":
		if c.Providers.ApolloKey == "" && c.Providers.HunterKey == "" && c.Jina.Key == "" {
			problems = append(problems, "at least one provider credential is required (providers.apollo_key, providers.hunter_key, or jina.key)")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "verify", "export":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "sync":
		if c.Salesforce.Username == "" && c.Notion.Token == "" {
			problems = append(problems, "a sync target is required (salesforce.username or notion.token)")
		}
		if c.Notion.Token != "" && c.Notion.ContactDB == "" {
			problems = append(problems, "notion.contact_db is required when notion.token is set")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
