package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/rickgao/crypto-etl/internal/api"
	"github.com/rickgao/crypto-etl/internal/config"
	"github.com/rickgao/crypto-etl/internal/model"
	"github.com/rickgao/crypto-etl/internal/normalize"
)

// ListingSourceID is the source id of the single listing snapshot.
const ListingSourceID = "coingecko_markets"

// Sources holds the upstream clients and request settings a variant fetches with.
type Sources struct {
	Binance   *api.Client
	CoinGecko *api.Client
	Extract   config.ExtractConfig
}

// NewSources creates upstream clients from cfg.
func NewSources(cfg *config.Config, logger *slog.Logger) *Sources {
	common := []api.ClientOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.HTTP.Timeout),
		api.WithRetries(cfg.HTTP.MaxRetries, cfg.HTTP.InitialBackoff),
	}

	binanceOpts := append([]api.ClientOption{}, common...)
	if cfg.Binance.APIKey != "" {
		binanceOpts = append(binanceOpts, api.WithAPIKey(api.BinanceAPIKeyHeader, cfg.Binance.APIKey))
	}

	return &Sources{
		Binance:   api.NewClient(cfg.Binance.BaseURL, binanceOpts...),
		CoinGecko: api.NewClient(cfg.CoinGecko.BaseURL, common...),
		Extract:   cfg.Extract,
	}
}

// Variant is one pipeline configuration: the payload shape it expects and
// the schema it produces.
type Variant struct {
	Name       string
	Shape      normalize.Shape
	Columns    []string // Target schema, in output order
	FilePrefix string   // Processed file prefix
	Provenance string   // Stored in each snapshot's "source"

	Units     func(cfg config.ExtractConfig) []model.FetchUnit
	Fetch     func(ctx context.Context, src *Sources, unit model.FetchUnit) (any, error)
	Normalize normalize.Func
}

// Markets is the per-coin 24h ticker snapshot.
var Markets = Variant{
	Name:  config.VariantMarkets,
	Shape: normalize.ShapeObject,
	Columns: []string{
		"extracted_at_utc", "coin_id", "symbol", "name", "vs_currency",
		"current_price", "market_cap", "market_cap_rank", "total_volume",
		"high_24h", "low_24h", "price_change_24h", "price_change_percentage_24h",
		"circulating_supply", "total_supply", "max_supply", "last_updated",
	},
	FilePrefix: "crypto_market_tidy",
	Provenance: "binance",
	Units:      coinUnits,
	Fetch: func(ctx context.Context, src *Sources, unit model.FetchUnit) (any, error) {
		return src.Binance.Ticker24h(ctx, unit)
	},
	Normalize: normalize.TickerPayload,
}

// Candles is the per-coin hourly OHLCV series.
var Candles = Variant{
	Name:  config.VariantCandles,
	Shape: normalize.ShapeTuples,
	Columns: []string{
		"extracted_at_utc", "coin_id", "symbol", "vs_currency",
		"open_time", "close_time", "open", "high", "low", "close",
		"volume", "quote_volume", "trade_count",
		"taker_buy_base_volume", "taker_buy_quote_volume",
	},
	FilePrefix: "crypto_candles_tidy",
	Provenance: "binance",
	Units:      coinUnits,
	Fetch: func(ctx context.Context, src *Sources, unit model.FetchUnit) (any, error) {
		return src.Binance.Klines(ctx, unit, api.KlinesOptions{
			Interval: src.Extract.KlineInterval,
			Limit:    src.Extract.KlineLimit,
		})
	},
	Normalize: withSymbol(normalize.CandlesPayload),
}

// Listing is the top-N market listing by market cap.
var Listing = Variant{
	Name:  config.VariantListing,
	Shape: normalize.ShapeRecords,
	Columns: []string{
		"extracted_at_utc", "vs_currency", "id", "symbol", "name",
		"current_price", "market_cap", "market_cap_rank", "total_volume",
		"price_change_percentage_24h", "last_updated",
	},
	FilePrefix: "markets",
	Provenance: "coingecko",
	Units: func(config.ExtractConfig) []model.FetchUnit {
		return []model.FetchUnit{{CanonicalID: ListingSourceID}}
	},
	Fetch: func(ctx context.Context, src *Sources, unit model.FetchUnit) (any, error) {
		return src.CoinGecko.Markets(ctx, unit, api.MarketsOptions{
			VsCurrency: src.Extract.VsCurrency,
			Order:      "market_cap_desc",
			PerPage:    src.Extract.CoinLimit,
			Page:       1,
			Sparkline:  false,
		})
	},
	Normalize: normalize.ListingPayload,
}

var variants = map[string]Variant{
	Markets.Name: Markets,
	Candles.Name: Candles,
	Listing.Name: Listing,
}

// Lookup returns the variant registered under name.
func Lookup(name string) (Variant, error) {
	v, ok := variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("unknown variant %q (known: %v)", name, Names())
	}
	return v, nil
}

// Names returns the registered variant names, sorted.
func Names() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func coinUnits(cfg config.ExtractConfig) []model.FetchUnit {
	return cfg.FetchUnits()
}

// withSymbol stamps the coin symbol onto every record a normalizer returns.
func withSymbol(fn normalize.Func) normalize.Func {
	return func(raw any, unit model.FetchUnit) (any, error) {
		out, err := fn(raw, unit)
		if err != nil {
			return nil, err
		}
		if records, ok := out.([]model.Record); ok {
			sym := normalize.BaseSymbol(unit.ExchangeSymbol)
			for _, r := range records {
				r["symbol"] = sym
			}
		}
		return out, nil
	}
}
