package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rickgao/crypto-etl/internal/model"
	"github.com/rickgao/crypto-etl/internal/normalize"
)

// Columns stamped from the snapshot envelope rather than the payload.
const (
	ColExtractedAt = "extracted_at_utc"
	ColCurrency    = "vs_currency"
	ColCoinID      = "coin_id"
)

// epochColumns hold epoch-millisecond values converted to ISO-8601.
var epochColumns = map[string]bool{
	"open_time":  true,
	"close_time": true,
}

// integerColumns hold counts and ranks. Every other numeric column is float64
// so a column never mixes numeric types.
var integerColumns = map[string]bool{
	"trade_count":     true,
	"market_cap_rank": true,
}

// ErrShapeMismatch is returned when a snapshot payload is not laid out the
// way the variant's shape requires.
var ErrShapeMismatch = errors.New("payload does not match shape")

// Builder assembles tables from snapshots.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a Builder. A nil logger uses slog.Default().
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build produces one row per record across snapshots, in order.
// ShapeObject payloads must be a single object; ShapeRecords and
// ShapeTuples payloads (stored as normalized records) must be an array.
// Snapshots with no payload contribute nothing. No snapshots yields a
// header-only table.
func (b *Builder) Build(snapshots []model.RawSnapshot, columns []string, shape normalize.Shape) (*model.Table, error) {
	t := model.NewTable(columns)

	for _, snap := range snapshots {
		records, err := records(snap, shape)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}

		extractedAt, ok := normalize.CompactToISO(snap.ExtractedAt)
		if !ok {
			b.logger.Debug("extraction timestamp not in compact form, keeping as-is",
				"source_id", snap.SourceID,
				"extracted_at", snap.ExtractedAt,
			)
		}

		for _, rec := range records {
			rec[ColExtractedAt] = extractedAt
			rec[ColCurrency] = snap.Currency
			if _, has := rec[ColCoinID]; !has {
				rec[ColCoinID] = snap.SourceID
			}
			t.Rows = append(t.Rows, b.row(rec, t.Columns))
		}
	}

	return t, nil
}

func (b *Builder) row(rec model.Record, columns []string) []any {
	row := make([]any, len(columns))
	for i, col := range columns {
		v, ok := rec[col]
		if !ok || v == nil {
			continue
		}
		if epochColumns[col] {
			if iso, err := normalize.EpochMillisToISO(v); err == nil {
				v = iso
			}
		}
		row[i] = cell(col, v)
	}
	return row
}

// records extracts the payload records of one snapshot according to shape.
func records(snap model.RawSnapshot, shape normalize.Shape) ([]model.Record, error) {
	if !snap.HasPayload() {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(snap.Payload))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode payload of %s: %w", snap.SourceID, err)
	}

	switch shape {
	case normalize.ShapeObject:
		obj, ok := payload.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("payload of %s: %w: want %s, got %s", snap.SourceID, ErrShapeMismatch, shape, kind(payload))
		}
		if len(obj) == 0 {
			return nil, nil
		}
		return []model.Record{model.Record(obj)}, nil

	case normalize.ShapeRecords, normalize.ShapeTuples:
		items, ok := payload.([]any)
		if !ok {
			return nil, fmt.Errorf("payload of %s: %w: want %s, got %s", snap.SourceID, ErrShapeMismatch, shape, kind(payload))
		}
		out := make([]model.Record, 0, len(items))
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("payload of %s: element %d is %s, not an object", snap.SourceID, i, kind(item))
			}
			out = append(out, model.Record(obj))
		}
		return out, nil

	default:
		return nil, fmt.Errorf("payload of %s: unsupported shape %s", snap.SourceID, shape)
	}
}

// kind names a decoded JSON value for error messages.
func kind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "bool"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// cell converts a decoded JSON value to its table form. Numbers become
// int64 in integerColumns and float64 elsewhere.
func cell(col string, v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if integerColumns[col] {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
