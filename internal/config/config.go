package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type LedgerConfig struct {
	InitialCash float64 `yaml:"initial_cash"`
}

type InstrumentConfig struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	BasePrice  float64 `yaml:"base_price"`
	Sector     string  `yaml:"sector"`
	Volatility float64 `yaml:"volatility"`
}

type MarketConfig struct {
	Instruments []InstrumentConfig `yaml:"instruments"`
}

type AuthConfig struct {
	TokenTTL time.Duration `yaml:"token_ttl"`
}

type AIConfig struct {
	Address           string  `yaml:"address"`
	Model             string  `yaml:"model"`
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
	DisableFallback   bool    `yaml:"disable_fallback"`
}

type StorageConfig struct {
	Enabled       bool          `yaml:"enabled"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type DashboardConfig struct {
	LogLevel string        `yaml:"log_level"`
	Server   ServerConfig  `yaml:"server"`
	Ledger   LedgerConfig  `yaml:"ledger"`
	Market   MarketConfig  `yaml:"market"`
	Auth     AuthConfig    `yaml:"auth"`
	AI       AIConfig      `yaml:"ai"`
	Storage  StorageConfig `yaml:"storage"`
}

const (
	_portDefault             = "8080"
	_initialCashDefault      = 100_000
	_tokenTTLDefault         = 7 * 24 * time.Hour
	_aiAddressDefault        = "https://api.groq.com/openai/v1"
	_aiModelDefault          = "llama3-8b-8192"
	_aiTemperatureDefault    = 0.7
	_aiMaxTokensDefault      = 1000
	_aiRequestsPerMinDefault = 30
	_flushIntervalDefault    = 1 * time.Hour
)

var _instrumentsDefault = []InstrumentConfig{
	{Symbol: "AAPL", Name: "Apple Inc.", BasePrice: 175.23, Sector: "Technology", Volatility: 0.02},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", BasePrice: 142.67, Sector: "Technology", Volatility: 0.02},
	{Symbol: "MSFT", Name: "Microsoft Corp.", BasePrice: 378.91, Sector: "Technology", Volatility: 0.02},
	{Symbol: "TSLA", Name: "Tesla Inc.", BasePrice: 234.56, Sector: "Automotive", Volatility: 0.05},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", BasePrice: 145.78, Sector: "E-commerce", Volatility: 0.02},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", BasePrice: 456.89, Sector: "Technology", Volatility: 0.04},
	{Symbol: "META", Name: "Meta Platforms Inc.", BasePrice: 298.45, Sector: "Technology", Volatility: 0.02},
	{Symbol: "NFLX", Name: "Netflix Inc.", BasePrice: 432.10, Sector: "Entertainment", Volatility: 0.02},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", BasePrice: 156.78, Sector: "Finance", Volatility: 0.02},
	{Symbol: "JNJ", Name: "Johnson & Johnson", BasePrice: 167.89, Sector: "Healthcare", Volatility: 0.02},
}

func (c *DashboardConfig) ValidateAndSetup() error {
	if c.Server.Port == "" {
		c.Server.Port = _portDefault
	}

	if c.Ledger.InitialCash < 0 {
		return fmt.Errorf("negative initial cash")
	}
	if c.Ledger.InitialCash == 0 {
		c.Ledger.InitialCash = _initialCashDefault
	}

	if len(c.Market.Instruments) == 0 {
		c.Market.Instruments = _instrumentsDefault
	}
	for _, i := range c.Market.Instruments {
		if i.Symbol == "" || i.BasePrice <= 0 {
			return fmt.Errorf("malformed instrument %+v", i)
		}
	}

	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = _tokenTTLDefault
	}

	if c.AI.Address == "" {
		c.AI.Address = _aiAddressDefault
	}
	if _, err := url.Parse(c.AI.Address); err != nil {
		return fmt.Errorf("%w: can't parse ai address", err)
	}
	if c.AI.Model == "" {
		c.AI.Model = _aiModelDefault
	}
	if c.AI.Temperature <= 0 {
		c.AI.Temperature = _aiTemperatureDefault
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = _aiMaxTokensDefault
	}
	if c.AI.RequestsPerMinute <= 0 {
		c.AI.RequestsPerMinute = _aiRequestsPerMinDefault
	}

	if c.Storage.FlushInterval <= 0 {
		c.Storage.FlushInterval = _flushIntervalDefault
	}

	return nil
}

// LoadDashboardConfig reads the YAML config. A missing file is not an error,
// defaults apply.
func LoadDashboardConfig(filename string) (DashboardConfig, error) {
	var cfg DashboardConfig

	input, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: can't read file", err)
		}
	} else if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
