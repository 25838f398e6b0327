package normalize

import (
	"encoding/json"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"github.com/rickgao/crypto-etl/internal/model"
)

// klineFields is the number of positions a kline tuple must carry.
// Binance sends a twelfth, unused, position.
const klineFields = 11

// Kline tuple positions.
const (
	posOpenTime = iota
	posOpen
	posHigh
	posLow
	posClose
	posVolume
	posCloseTime
	posQuoteVolume
	posTradeCount
	posTakerBuyBase
	posTakerBuyQuote
)

// Candles maps an array of kline tuples to records, preserving order.
// An empty array is a NormalizationError.
func Candles(raw any, unit model.FetchUnit) ([]model.Record, error) {
	tuples, ok := raw.([]any)
	if !ok {
		return nil, &NormalizationError{
			Unit:   unit.CanonicalID,
			Reason: "expected array of candles",
			Err:    errors.Errorf("got %T", raw),
		}
	}
	if len(tuples) == 0 {
		return nil, &NormalizationError{
			Unit:   unit.CanonicalID,
			Reason: "no candles returned",
			Err:    ErrEmptyCandles,
		}
	}

	records := make([]model.Record, 0, len(tuples))
	for i, item := range tuples {
		k, err := DecodeKline(item)
		if err != nil {
			return nil, &NormalizationError{
				Unit:   unit.CanonicalID,
				Reason: "malformed candle",
				Err:    errors.Wrapf(err, "failed to decode candle at index %d", i),
			}
		}
		records = append(records, klineRecord(k))
	}

	return records, nil
}

// CandlesPayload adapts Candles to Func.
func CandlesPayload(raw any, unit model.FetchUnit) (any, error) {
	return Candles(raw, unit)
}

// DecodeKline maps one positional tuple onto a named kline. The tuple length
// is checked before any position is read.
func DecodeKline(item any) (binance.Kline, error) {
	tuple, ok := item.([]any)
	if !ok {
		return binance.Kline{}, errors.Errorf("expected tuple, got %T", item)
	}
	if len(tuple) < klineFields {
		return binance.Kline{}, errors.Errorf("tuple has %d fields, want at least %d", len(tuple), klineFields)
	}

	var (
		k   binance.Kline
		err error
	)

	if k.OpenTime, err = toInt64(tuple[posOpenTime]); err != nil {
		return k, errors.Wrap(err, "open time")
	}
	if k.Open, err = toString(tuple[posOpen]); err != nil {
		return k, errors.Wrap(err, "open")
	}
	if k.High, err = toString(tuple[posHigh]); err != nil {
		return k, errors.Wrap(err, "high")
	}
	if k.Low, err = toString(tuple[posLow]); err != nil {
		return k, errors.Wrap(err, "low")
	}
	if k.Close, err = toString(tuple[posClose]); err != nil {
		return k, errors.Wrap(err, "close")
	}
	if k.Volume, err = toString(tuple[posVolume]); err != nil {
		return k, errors.Wrap(err, "volume")
	}
	if k.CloseTime, err = toInt64(tuple[posCloseTime]); err != nil {
		return k, errors.Wrap(err, "close time")
	}
	if k.QuoteAssetVolume, err = toString(tuple[posQuoteVolume]); err != nil {
		return k, errors.Wrap(err, "quote volume")
	}
	if k.TradeNum, err = toInt64(tuple[posTradeCount]); err != nil {
		return k, errors.Wrap(err, "trade count")
	}
	if k.TakerBuyBaseAssetVolume, err = toString(tuple[posTakerBuyBase]); err != nil {
		return k, errors.Wrap(err, "taker buy base volume")
	}
	if k.TakerBuyQuoteAssetVolume, err = toString(tuple[posTakerBuyQuote]); err != nil {
		return k, errors.Wrap(err, "taker buy quote volume")
	}

	return k, nil
}

func klineRecord(k binance.Kline) model.Record {
	return model.Record{
		"open_time":              json.Number(strconv.FormatInt(k.OpenTime, 10)),
		"open":                   Number(k.Open),
		"high":                   Number(k.High),
		"low":                    Number(k.Low),
		"close":                  Number(k.Close),
		"volume":                 Number(k.Volume),
		"close_time":             json.Number(strconv.FormatInt(k.CloseTime, 10)),
		"quote_volume":           Number(k.QuoteAssetVolume),
		"trade_count":            json.Number(strconv.FormatInt(k.TradeNum, 10)),
		"taker_buy_base_volume":  Number(k.TakerBuyBaseAssetVolume),
		"taker_buy_quote_volume": Number(k.TakerBuyQuoteAssetVolume),
	}
}
