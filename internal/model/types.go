package model

import (
	"encoding/json"
	"strings"
)

// -----------------------------------------------------------------------------
// Extraction Types
// -----------------------------------------------------------------------------

// FetchUnit identifies one logical item to fetch from an upstream API.
type FetchUnit struct {
	CanonicalID    string // Coin id (e.g., "bitcoin")
	ExchangeSymbol string // Exchange symbol (e.g., "BTCUSDT"), empty for listing requests
}

// String returns "id (SYMBOL)", or just the id when there is no symbol.
func (u FetchUnit) String() string {
	if u.ExchangeSymbol == "" {
		return u.CanonicalID
	}
	return u.CanonicalID + " (" + u.ExchangeSymbol + ")"
}

// RawSnapshot is the on-disk envelope written once per fetch unit per run.
// Field order here is the serialized key order.
type RawSnapshot struct {
	ExtractedAt string          `json:"extracted_at_utc"` // YYYYMMDDTHHMMSSZ
	SourceID    string          `json:"source_id"`        // Coin id or listing id
	Currency    string          `json:"vs_currency"`      // Quote currency (e.g., "usd")
	Provenance  string          `json:"source"`           // Upstream tag (e.g., "binance")
	Payload     json.RawMessage `json:"payload"`          // Object or array of normalized records
}

// HasPayload reports whether the snapshot carries a non-null payload.
func (s RawSnapshot) HasPayload() bool {
	p := strings.TrimSpace(string(s.Payload))
	return p != "" && p != "null"
}

// -----------------------------------------------------------------------------
// Tabular Types
// -----------------------------------------------------------------------------

// Record is one row's worth of fields after mapping to the internal schema.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns and rows holding one value (or nil) per column.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable creates an empty table with a private copy of columns.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: [][]any{}}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at row for column name.
func (t *Table) Value(row int, name string) (any, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	return t.Rows[row][idx], true
}
