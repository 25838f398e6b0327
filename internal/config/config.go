package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/crypto-etl/internal/model"
)

// Pipeline variant names.
const (
	VariantMarkets = "markets"
	VariantCandles = "candles"
	VariantListing = "listing"
)

// Config is the root configuration for one ETL run.
type Config struct {
	Variant   string          `yaml:"variant"`
	Binance   BinanceConfig   `yaml:"binance"`
	CoinGecko CoinGeckoConfig `yaml:"coingecko"`
	HTTP      HTTPConfig      `yaml:"http"`
	Extract   ExtractConfig   `yaml:"extract"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BinanceConfig holds Binance spot REST settings.
type BinanceConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"` // Optional, sent as X-MBX-APIKEY
}

// CoinGeckoConfig holds CoinGecko REST settings.
type CoinGeckoConfig struct {
	BaseURL string `yaml:"base_url"`
}

// HTTPConfig holds request and retry settings shared by all upstreams.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	RequestDelay   time.Duration `yaml:"request_delay"` // Pause between consecutive units
}

// ExtractConfig selects what to fetch.
type ExtractConfig struct {
	Coins         []string          `yaml:"coins"`          // Canonical coin ids
	Symbols       map[string]string `yaml:"symbols"`        // Coin id -> exchange symbol
	VsCurrency    string            `yaml:"vs_currency"`
	KlineInterval string            `yaml:"kline_interval"`
	KlineLimit    int               `yaml:"kline_limit"`
	CoinLimit     int               `yaml:"coin_limit"` // Listing page size
}

// StorageConfig holds output directories.
type StorageConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SlogLevel returns the configured level, defaulting to Info.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Symbol returns the exchange symbol for a coin id. Coins missing from the
// symbol map fall back to <ID>USDT.
func (e ExtractConfig) Symbol(coinID string) string {
	if s, ok := e.Symbols[coinID]; ok && s != "" {
		return s
	}
	return strings.ToUpper(coinID) + "USDT"
}

// FetchUnits returns one unit per configured coin, in configured order.
func (e ExtractConfig) FetchUnits() []model.FetchUnit {
	units := make([]model.FetchUnit, 0, len(e.Coins))
	for _, id := range e.Coins {
		units = append(units, model.FetchUnit{CanonicalID: id, ExchangeSymbol: e.Symbol(id)})
	}
	return units
}
