package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultVariant        = VariantMarkets
	DefaultBinanceURL     = "https://api.binance.com/api/v3"
	DefaultCoinGeckoURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = 1 * time.Second
	DefaultRequestDelay   = 500 * time.Millisecond
	DefaultVsCurrency     = "usd"
	DefaultKlineInterval  = "1h"
	DefaultKlineLimit     = 24
	DefaultCoinLimit      = 50
	DefaultRawDir         = "data/raw"
	DefaultProcessedDir   = "data/processed"
	DefaultLogLevel       = "info"
	DefaultConfigPath     = "configs/etl.yaml"
	DefaultEnvFile        = ".env"
)

// Sentinels for fields where zero is a meaningful setting: no retries,
// no pause between requests.
const (
	unsetRetries               = -1
	unsetDelay   time.Duration = -1
)

// newConfig returns an empty config with the zero-valid fields marked unset.
func newConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			MaxRetries:   unsetRetries,
			RequestDelay: unsetDelay,
		},
	}
}

// DefaultCoins is used when no coins are configured.
var DefaultCoins = []string{"bitcoin"}

// DefaultSymbols maps well-known coin ids to Binance spot symbols.
var DefaultSymbols = map[string]string{
	"bitcoin":  "BTCUSDT",
	"ethereum": "ETHUSDT",
	"solana":   "SOLUSDT",
	"cardano":  "ADAUSDT",
	"dogecoin": "DOGEUSDT",
}

func (c *Config) applyDefaults() {
	if c.Variant == "" {
		c.Variant = DefaultVariant
	}

	// Upstream defaults
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = DefaultBinanceURL
	}
	if c.CoinGecko.BaseURL == "" {
		c.CoinGecko.BaseURL = DefaultCoinGeckoURL
	}

	// HTTP defaults
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.MaxRetries == unsetRetries {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.HTTP.InitialBackoff == 0 {
		c.HTTP.InitialBackoff = DefaultInitialBackoff
	}
	if c.HTTP.RequestDelay == unsetDelay {
		c.HTTP.RequestDelay = DefaultRequestDelay
	}

	// Extract defaults
	if len(c.Extract.Coins) == 0 {
		c.Extract.Coins = append([]string(nil), DefaultCoins...)
	}
	if c.Extract.Symbols == nil {
		c.Extract.Symbols = make(map[string]string, len(DefaultSymbols))
	}
	for id, sym := range DefaultSymbols {
		if _, ok := c.Extract.Symbols[id]; !ok {
			c.Extract.Symbols[id] = sym
		}
	}
	if c.Extract.VsCurrency == "" {
		c.Extract.VsCurrency = DefaultVsCurrency
	}
	if c.Extract.KlineInterval == "" {
		c.Extract.KlineInterval = DefaultKlineInterval
	}
	if c.Extract.KlineLimit == 0 {
		c.Extract.KlineLimit = DefaultKlineLimit
	}
	if c.Extract.CoinLimit == 0 {
		c.Extract.CoinLimit = DefaultCoinLimit
	}

	// Storage defaults
	if c.Storage.RawDir == "" {
		c.Storage.RawDir = DefaultRawDir
	}
	if c.Storage.ProcessedDir == "" {
		c.Storage.ProcessedDir = DefaultProcessedDir
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
