package table

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/crypto-etl/internal/model"
	"github.com/rickgao/crypto-etl/internal/normalize"
)

var marketColumns = []string{
	"extracted_at_utc", "coin_id", "symbol", "vs_currency",
	"current_price", "market_cap", "last_updated",
}

var candleColumns = []string{
	"extracted_at_utc", "coin_id", "vs_currency", "open_time", "close_time", "close", "trade_count",
}

func snap(extractedAt, id, payload string) model.RawSnapshot {
	s := model.RawSnapshot{
		ExtractedAt: extractedAt,
		SourceID:    id,
		Currency:    "usd",
		Provenance:  "binance",
	}
	if payload != "" {
		s.Payload = []byte(payload)
	}
	return s
}

func quietBuilder() *Builder {
	return NewBuilder(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestBuild_EmptyInput(t *testing.T) {
	tbl, err := quietBuilder().Build(nil, marketColumns, normalize.ShapeObject)
	require.NoError(t, err)
	assert.Equal(t, marketColumns, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
	assert.NotNil(t, tbl.Rows)
}

func TestBuild_ObjectPayload(t *testing.T) {
	snaps := []model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `{"symbol":"btc","current_price":43000.5,"market_cap":null,"last_updated":"2023-11-14T22:13:20Z","extra":"dropped"}`),
		snap("20240101T120001Z", "ethereum", `{"symbol":"eth","current_price":2300}`),
	}

	tbl, err := quietBuilder().Build(snaps, marketColumns, normalize.ShapeObject)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, marketColumns, tbl.Columns)

	assert.Equal(t, []any{
		"2024-01-01T12:00:00Z", "bitcoin", "btc", "usd", 43000.5, nil, "2023-11-14T22:13:20Z",
	}, tbl.Rows[0])
	assert.Equal(t, []any{
		"2024-01-01T12:00:01Z", "ethereum", "eth", "usd", float64(2300), nil, nil,
	}, tbl.Rows[1])
}

func TestBuild_ArrayPayloadPreservesOrder(t *testing.T) {
	snaps := []model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `[
			{"open_time":1700000000000,"close_time":1700003599999,"close":105,"trade_count":42},
			{"open_time":1700003600000,"close_time":1700007199999,"close":104.5,"trade_count":7}
		]`),
		snap("20240101T120000Z", "ethereum", `[
			{"open_time":1700000000000,"close_time":1700003599999,"close":2000,"trade_count":1}
		]`),
	}

	tbl, err := quietBuilder().Build(snaps, candleColumns, normalize.ShapeTuples)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	coin0, _ := tbl.Value(0, "coin_id")
	coin2, _ := tbl.Value(2, "coin_id")
	assert.Equal(t, "bitcoin", coin0)
	assert.Equal(t, "ethereum", coin2)

	open, _ := tbl.Value(0, "open_time")
	closeTime, _ := tbl.Value(0, "close_time")
	assert.Equal(t, "2023-11-14T22:13:20Z", open)
	assert.Equal(t, "2023-11-14T23:13:19Z", closeTime)

	open1, _ := tbl.Value(1, "open_time")
	assert.Equal(t, "2023-11-14T23:13:20Z", open1)

	c, _ := tbl.Value(1, "close")
	assert.Equal(t, 104.5, c)
	n, _ := tbl.Value(0, "trade_count")
	assert.Equal(t, int64(42), n)
}

func TestBuild_SkipsEmptyPayloads(t *testing.T) {
	objects := []model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", ""),
		snap("20240101T120000Z", "ethereum", "null"),
		snap("20240101T120000Z", "cardano", "{}"),
	}
	tbl, err := quietBuilder().Build(objects, marketColumns, normalize.ShapeObject)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())

	arrays := []model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", ""),
		snap("20240101T120000Z", "ethereum", "null"),
		snap("20240101T120000Z", "solana", "[]"),
	}
	tbl, err = quietBuilder().Build(arrays, candleColumns, normalize.ShapeRecords)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestBuild_ExtractedAtFallbackLogged(t *testing.T) {
	var logs bytes.Buffer
	b := NewBuilder(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	tbl, err := b.Build([]model.RawSnapshot{snap("not-a-date", "bitcoin", `{"symbol":"btc"}`)}, marketColumns, normalize.ShapeObject)
	require.NoError(t, err)

	v, _ := tbl.Value(0, "extracted_at_utc")
	assert.Equal(t, "not-a-date", v)
	assert.Contains(t, logs.String(), "extraction timestamp not in compact form")
}

func TestBuild_UnconvertibleEpochKept(t *testing.T) {
	tbl, err := quietBuilder().Build([]model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `[{"open_time":"soon","close_time":null}]`),
	}, candleColumns, normalize.ShapeTuples)
	require.NoError(t, err)

	open, _ := tbl.Value(0, "open_time")
	closeTime, _ := tbl.Value(0, "close_time")
	assert.Equal(t, "soon", open)
	assert.Nil(t, closeTime)
}

func TestBuild_BadPayload(t *testing.T) {
	_, err := quietBuilder().Build([]model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `[1, 2]`),
	}, candleColumns, normalize.ShapeTuples)
	assert.Error(t, err)

	_, err = quietBuilder().Build([]model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `"text"`),
	}, candleColumns, normalize.ShapeTuples)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBuild_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		shape   normalize.Shape
	}{
		{"array for object", `[{"symbol":"btc"},{"symbol":"eth"},{"symbol":"sol"}]`, normalize.ShapeObject},
		{"object for records", `{"id":"bitcoin"}`, normalize.ShapeRecords},
		{"object for tuples", `{"open_time":1700000000000}`, normalize.ShapeTuples},
		{"number for object", `42`, normalize.ShapeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := quietBuilder().Build([]model.RawSnapshot{
				snap("20240101T120000Z", "bitcoin", tt.payload),
			}, marketColumns, tt.shape)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShapeMismatch)
			assert.Nil(t, tbl)
		})
	}
}

func TestBuild_UnknownShape(t *testing.T) {
	_, err := quietBuilder().Build([]model.RawSnapshot{
		snap("20240101T120000Z", "bitcoin", `{"symbol":"btc"}`),
	}, marketColumns, normalize.Shape(99))
	assert.Error(t, err)
}

func TestBuild_NumericColumnTypes(t *testing.T) {
	tbl, err := quietBuilder().Build([]model.RawSnapshot{
		snap("20240101T120000Z", "coingecko_markets", `[
			{"id":"bitcoin","current_price":43000.5,"market_cap_rank":1,"trade_count":12},
			{"id":"ethereum","current_price":2300,"market_cap_rank":2,"trade_count":3.0}
		]`),
	}, []string{"id", "current_price", "market_cap_rank", "trade_count"}, normalize.ShapeRecords)
	require.NoError(t, err)

	assert.Equal(t, []any{"bitcoin", 43000.5, int64(1), int64(12)}, tbl.Rows[0])
	assert.Equal(t, []any{"ethereum", float64(2300), int64(2), float64(3)}, tbl.Rows[1])
}

func TestBuild_ColumnsAreCopied(t *testing.T) {
	cols := []string{"extracted_at_utc", "coin_id"}
	tbl, err := quietBuilder().Build(nil, cols, normalize.ShapeRecords)
	require.NoError(t, err)

	cols[0] = "mutated"
	assert.Equal(t, "extracted_at_utc", tbl.Columns[0])
}

func TestEncode(t *testing.T) {
	tbl := model.NewTable([]string{"a", "b", "c", "d"})
	tbl.Rows = append(tbl.Rows,
		[]any{"x,y", int64(3), 0.000001, nil},
		[]any{"plain", int64(-1), 43000.5, true},
	)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tbl))
	assert.Equal(t, "a,b,c,d\n\"x,y\",3,0.000001,\nplain,-1,43000.5,true\n", buf.String())
}

func TestWriteCSV_ReadCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")
	tbl := model.NewTable([]string{"coin_id", "close"})
	tbl.Rows = append(tbl.Rows, []any{"bitcoin", 105.25}, []any{"ethereum", nil})

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	path, err := WriteCSV(tbl, dir, "crypto_candles_tidy", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "crypto_candles_tidy_20240102T030405Z.csv"), path)

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"coin_id", "close"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.Equal(t, []any{"bitcoin", "105.25"}, got.Rows[0])
	assert.Equal(t, []any{"ethereum", nil}, got.Rows[1])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should remain")
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteCSV(model.NewTable([]string{"a", "b"}), dir, "markets", time.Now())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))
}

func TestReadCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestLatestCSV(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "markets_20240101T000000Z.csv")
	newer := filepath.Join(dir, "markets_20240102T000000Z.csv")
	require.NoError(t, os.WriteFile(old, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "markets_20240103T000000Z.csv.bak"), []byte("a\n"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	got, err := LatestCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = LatestCSV(t.TempDir())
	assert.Error(t, err)
}

func TestNormalizeTimestamps(t *testing.T) {
	tbl := model.NewTable([]string{"extracted_at_utc", "open_time", "close_time", "close"})
	tbl.Rows = append(tbl.Rows,
		[]any{"20240101T120000Z", "1700000000000", "2023-11-14T23:13:19Z", "105"},
		[]any{"bogus", "later", nil, "1700000000000"},
	)

	changed := NormalizeTimestamps(tbl, nil)
	assert.Equal(t, 2, changed)
	assert.Equal(t, []any{"2024-01-01T12:00:00Z", "2023-11-14T22:13:20Z", "2023-11-14T23:13:19Z", "105"}, tbl.Rows[0])
	assert.Equal(t, []any{"bogus", "later", nil, "1700000000000"}, tbl.Rows[1])
}

func TestRender(t *testing.T) {
	tbl := model.NewTable([]string{"coin_id", "close"})
	tbl.Rows = append(tbl.Rows,
		[]any{"bitcoin", 105.5},
		[]any{"eth", nil},
		[]any{"sol", int64(3)},
	)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, tbl, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "coin_id  close", lines[0])
	assert.Equal(t, "bitcoin  105.5", lines[1])
	assert.Equal(t, "eth      NaN", lines[2])
	assert.Equal(t, "... 1 more rows", lines[3])
}
