package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rickgao/crypto-etl/internal/model"
)

type rename struct {
	from string // upstream field
	to   string // internal column
}

// tickerRenames maps Binance 24h ticker fields to internal columns.
var tickerRenames = []rename{
	{"lastPrice", "current_price"},
	{"highPrice", "high_24h"},
	{"lowPrice", "low_24h"},
	{"priceChange", "price_change_24h"},
	{"priceChangePercent", "price_change_percentage_24h"},
	{"volume", "total_volume"},
}

// tickerMissing are columns the spot ticker has no equivalent for.
var tickerMissing = []string{
	"market_cap",
	"market_cap_rank",
	"circulating_supply",
	"total_supply",
	"max_supply",
}

// quoteAssets are stripped from exchange symbols to derive the coin symbol.
var quoteAssets = []string{"USDT", "USDC", "FDUSD", "BUSD"}

// Ticker maps one 24h ticker object to a record.
func Ticker(raw any, unit model.FetchUnit) (model.Record, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &NormalizationError{
			Unit:   unit.CanonicalID,
			Reason: fmt.Sprintf("expected ticker object, got %T", raw),
		}
	}

	rec := model.Record{
		"id":     unit.CanonicalID,
		"symbol": BaseSymbol(unit.ExchangeSymbol),
		"name":   DisplayName(unit.CanonicalID),
	}

	for _, r := range tickerRenames {
		rec[r.to] = Number(obj[r.from])
	}
	for _, col := range tickerMissing {
		rec[col] = nil
	}

	rec["last_updated"] = nil
	if v, ok := obj["closeTime"]; ok {
		if iso, err := EpochMillisToISO(v); err == nil {
			rec["last_updated"] = iso
		}
	}

	return rec, nil
}

// TickerPayload adapts Ticker to Func.
func TickerPayload(raw any, unit model.FetchUnit) (any, error) {
	return Ticker(raw, unit)
}

// BaseSymbol strips the quote asset from an exchange symbol and lowercases it.
// "BTCUSDT" -> "btc".
func BaseSymbol(symbol string) string {
	for _, q := range quoteAssets {
		if base, ok := strings.CutSuffix(symbol, q); ok && base != "" {
			return strings.ToLower(base)
		}
	}
	return strings.ToLower(symbol)
}

// DisplayName capitalises a coin id. "bitcoin" -> "Bitcoin".
func DisplayName(id string) string {
	runes := []rune(strings.ToLower(id))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
