package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
	quotesAPIKeyENV   = "QUOTES_API_KEY"
	timeframeENV      = "TIMEFRAME"
	historyLimitENV   = "HISTORY_LIMIT"
	scanWorkersENV    = "SCAN_WORKERS"
	quoteTimeoutENV   = "QUOTE_TIMEOUT"
	universeFileENV   = "UNIVERSE_FILE"
)

// Config ...
type Config struct {
	DB string `mapstructure:"db_dsn"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`

	Jaeger struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"jaeger"`

	Quotes struct {
		BaseURL string        `mapstructure:"base_url"`
		WSURL   string        `mapstructure:"ws_url"`
		APIKey  string        `mapstructure:"api_key"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"quotes"`

	Scan struct {
		Timeframe    string        `mapstructure:"timeframe"`
		HistoryLimit int           `mapstructure:"history_limit"`
		Workers      int           `mapstructure:"workers"`
		QuoteTimeout time.Duration `mapstructure:"quote_timeout"`
		UniverseFile string        `mapstructure:"universe_file"`
	} `mapstructure:"scan"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local"
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")

	v.SetDefault("scan.timeframe", "5m")
	v.SetDefault("scan.history_limit", 400)
	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.quote_timeout", "2s")
	v.SetDefault("quotes.timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "decode config file")
	}

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := os.Getenv(chatTelegramENV); chat != "" {
		if parsed, err := strconv.ParseInt(chat, 10, 64); err == nil {
			config.Telegram.ChatID = parsed
		}
	}
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		config.DB = dsn
	}
	if key := os.Getenv(quotesAPIKeyENV); key != "" {
		config.Quotes.APIKey = key
	}
	if tf := os.Getenv(timeframeENV); tf != "" {
		config.Scan.Timeframe = tf
	}
	if v := os.Getenv(historyLimitENV); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Scan.HistoryLimit = n
		}
	}
	if v := os.Getenv(scanWorkersENV); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Scan.Workers = n
		}
	}
	if v := os.Getenv(quoteTimeoutENV); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Scan.QuoteTimeout = d
		}
	}
	if f := os.Getenv(universeFileENV); f != "" {
		config.Scan.UniverseFile = f
	}

	return &config, nil
}

// UniverseOverride reads the optional local ticker list. When present it
// replaces the database universe for the run; absence is not an error.
func (c *Config) UniverseOverride() ([]string, error) {
	if c.Scan.UniverseFile == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(c.Scan.UniverseFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read universe file")
	}

	var doc struct {
		Tickers []string `yaml:"tickers"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decode universe file")
	}
	return doc.Tickers, nil
}
