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
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PipelineConfig configures the feature-preparation pipeline.
type PipelineConfig struct {
	RawPath       string `yaml:"raw_path" mapstructure:"raw_path"`
	OutputDir     string `yaml:"output_dir" mapstructure:"output_dir"`
	TFIDFMaxTerms int    `yaml:"tfidf_max_terms" mapstructure:"tfidf_max_terms"`
}

// EnrichConfig configures the LPI enrichment join.
type EnrichConfig struct {
	RawPath    string   `yaml:"raw_path" mapstructure:"raw_path"`
	LPIPath    string   `yaml:"lpi_path" mapstructure:"lpi_path"`
	BackupPath string   `yaml:"backup_path" mapstructure:"backup_path"`
	Year       int      `yaml:"year" mapstructure:"year"`
	Countries  []string `yaml:"countries" mapstructure:"countries"`
	AliasFile  string   `yaml:"alias_file" mapstructure:"alias_file"`
}

// ScrapeConfig configures the indicator scrapers.
type ScrapeConfig struct {
	WorldBankBaseURL string `yaml:"worldbank_base_url" mapstructure:"worldbank_base_url"`
	ComtradeBaseURL  string `yaml:"comtrade_base_url" mapstructure:"comtrade_base_url"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries       int    `yaml:"max_retries" mapstructure:"max_retries"`
	PerPage          int    `yaml:"per_page" mapstructure:"per_page"`
	TradeYear        int    `yaml:"trade_year" mapstructure:"trade_year"`
	Concurrency      int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// StoreConfig configures the indicator store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ReportConfig configures the descriptive-statistics report.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultCountries are the ten countries covered by the shipment dataset.
func DefaultCountries() []string {
	return []string{
		"Australia", "Brazil", "China", "Germany", "India",
		"Japan", "South Africa", "UAE", "UK", "USA",
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRADEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("pipeline.raw_path", "data/raw/trade_customs_dataset.csv")
	v.SetDefault("pipeline.output_dir", "data/processed")
	v.SetDefault("pipeline.tfidf_max_terms", 300)
	v.SetDefault("enrich.raw_path", "data/raw/trade_customs_dataset.csv")
	v.SetDefault("enrich.lpi_path", "data/external/raw/worldbank_lpi_simple.csv")
	v.SetDefault("enrich.backup_path", "data/raw/trade_customs_dataset_backup.csv")
	v.SetDefault("enrich.year", 2022)
	v.SetDefault("enrich.countries", DefaultCountries())
	v.SetDefault("scrape.worldbank_base_url", "https://api.worldbank.org/v2")
	v.SetDefault("scrape.comtrade_base_url", "https://comtradeapi.un.org/data/v1/get")
	v.SetDefault("scrape.timeout_secs", 30)
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.per_page", 20000)
	v.SetDefault("scrape.trade_year", 2022)
	v.SetDefault("scrape.concurrency", 2)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "data/external/indicators.db")
	v.SetDefault("report.output_dir", "outputs/reports")

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
