package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantMarkets, VariantCandles, VariantListing:
	default:
		return fmt.Errorf("variant must be one of %s, %s, %s, got %q",
			VariantMarkets, VariantCandles, VariantListing, c.Variant)
	}

	if err := validateURL("binance.base_url", c.Binance.BaseURL); err != nil {
		return err
	}
	if err := validateURL("coingecko.base_url", c.CoinGecko.BaseURL); err != nil {
		return err
	}

	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0, got %d", c.HTTP.MaxRetries)
	}
	if c.HTTP.InitialBackoff <= 0 {
		return errors.New("http.initial_backoff must be > 0")
	}
	if c.HTTP.RequestDelay < 0 {
		return errors.New("http.request_delay must be >= 0")
	}

	if c.Variant != VariantListing {
		if len(c.Extract.Coins) == 0 {
			return errors.New("extract.coins must not be empty")
		}
		seen := make(map[string]int, len(c.Extract.Coins))
		for i, id := range c.Extract.Coins {
			if id == "" {
				return fmt.Errorf("extract.coins[%d] is empty", i)
			}
			if first, ok := seen[id]; ok {
				return fmt.Errorf("extract.coins[%d] duplicates extract.coins[%d] (%q)", i, first, id)
			}
			seen[id] = i
		}
	}
	if c.Extract.VsCurrency == "" {
		return errors.New("extract.vs_currency is required")
	}
	if c.Extract.KlineLimit < 1 || c.Extract.KlineLimit > 1000 {
		return fmt.Errorf("extract.kline_limit must be between 1 and 1000, got %d", c.Extract.KlineLimit)
	}
	if c.Extract.CoinLimit < 1 || c.Extract.CoinLimit > 250 {
		return fmt.Errorf("extract.coin_limit must be between 1 and 250, got %d", c.Extract.CoinLimit)
	}

	if c.Storage.RawDir == "" {
		return errors.New("storage.raw_dir is required")
	}
	if c.Storage.ProcessedDir == "" {
		return errors.New("storage.processed_dir is required")
	}

	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %q", field, raw)
	}
	return nil
}
