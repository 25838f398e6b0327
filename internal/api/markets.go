package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rickgao/crypto-etl/internal/model"
)

// Markets fetches one page of the CoinGecko markets listing. The result is
// a JSON array of market objects.
func (c *Client) Markets(ctx context.Context, unit model.FetchUnit, opts MarketsOptions) (any, error) {
	query := url.Values{}

	if opts.VsCurrency != "" {
		query.Set("vs_currency", opts.VsCurrency)
	}
	if opts.Order != "" {
		query.Set("order", opts.Order)
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	query.Set("sparkline", strconv.FormatBool(opts.Sparkline))

	return c.Fetch(ctx, unit.CanonicalID, CoinGeckoMarketsPath, query)
}
