package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rickgao/crypto-etl/internal/model"
)

// Ticker24h fetches the rolling 24h ticker statistics for one symbol.
// The result is a single JSON object.
func (c *Client) Ticker24h(ctx context.Context, unit model.FetchUnit) (any, error) {
	query := url.Values{}
	query.Set("symbol", unit.ExchangeSymbol)

	return c.Fetch(ctx, unit.CanonicalID, BinanceTickerPath, query)
}

// Klines fetches candles for one symbol. The result is a JSON array of
// positional tuples, oldest first.
func (c *Client) Klines(ctx context.Context, unit model.FetchUnit, opts KlinesOptions) (any, error) {
	query := url.Values{}
	query.Set("symbol", unit.ExchangeSymbol)
	if opts.Interval != "" {
		query.Set("interval", opts.Interval)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	return c.Fetch(ctx, unit.CanonicalID, BinanceKlinesPath, query)
}
