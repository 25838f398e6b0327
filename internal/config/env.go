package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvBinanceAPIKey  = "BINANCE_API_KEY"
	EnvVariant        = "ETL_VARIANT"
	EnvCoins          = "ETL_COINS"
	EnvVsCurrency     = "VS_CURRENCY"
	EnvCoinLimit      = "COIN_LIMIT"
	EnvTimeout        = "REQUEST_TIMEOUT"
	EnvMaxRetries     = "MAX_RETRIES"
	EnvInitialBackoff = "INITIAL_BACKOFF"
	EnvRequestDelay   = "REQUEST_DELAY"
	EnvRawDir         = "RAW_DIR"
	EnvProcessedDir   = "PROCESSED_DIR"
	EnvLogLevel       = "LOG_LEVEL"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from the environment. Unset or empty variables
// leave the field alone.
func (c *Config) applyEnv() error {
	setString(&c.Binance.APIKey, EnvBinanceAPIKey)
	setString(&c.Variant, EnvVariant)
	setString(&c.Extract.VsCurrency, EnvVsCurrency)
	setString(&c.Storage.RawDir, EnvRawDir)
	setString(&c.Storage.ProcessedDir, EnvProcessedDir)
	setString(&c.Logging.Level, EnvLogLevel)

	if v := os.Getenv(EnvCoins); v != "" {
		c.Extract.Coins = splitList(v)
	}

	if err := setInt(&c.Extract.CoinLimit, EnvCoinLimit); err != nil {
		return err
	}
	if err := setInt(&c.HTTP.MaxRetries, EnvMaxRetries); err != nil {
		return err
	}
	if err := setDuration(&c.HTTP.Timeout, EnvTimeout); err != nil {
		return err
	}
	if err := setDuration(&c.HTTP.InitialBackoff, EnvInitialBackoff); err != nil {
		return err
	}
	if err := setDuration(&c.HTTP.RequestDelay, EnvRequestDelay); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}

// setDuration accepts Go durations ("1.5s") or plain seconds ("30").
func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key, v)
	}
	*dst = time.Duration(secs * float64(time.Second))
	return nil
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
