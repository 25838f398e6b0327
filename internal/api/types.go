package api

// Binance paths relative to https://api.binance.com/api/v3.
const (
	BinanceTickerPath = "/ticker/24hr"
	BinanceKlinesPath = "/klines"

	// BinanceAPIKeyHeader carries the optional API key.
	BinanceAPIKeyHeader = "X-MBX-APIKEY"
)

// CoinGecko paths relative to https://api.coingecko.com/api/v3.
const (
	CoinGeckoMarketsPath = "/coins/markets"
)

// KlinesOptions configures a Klines request.
type KlinesOptions struct {
	Interval string // e.g. "1h"
	Limit    int    // number of candles, 0 = upstream default
}

// MarketsOptions configures a CoinGecko Markets request.
type MarketsOptions struct {
	VsCurrency string
	Order      string
	PerPage    int
	Page       int
	Sparkline  bool
}
