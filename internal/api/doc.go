// Package api provides the REST clients for the upstream market data sources.
//
// REST endpoints:
//   - Binance spot: https://api.binance.com/api/v3 (/ticker/24hr, /klines)
//   - CoinGecko: https://api.coingecko.com/api/v3 (/coins/markets)
//
// Requests are retried with exponential backoff only when the upstream
// answers 429 Too Many Requests. Every other failure is returned as a
// *FetchError naming the unit that was being fetched.
package api
