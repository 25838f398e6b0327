package table

import (
	"log/slog"
	"strings"

	"github.com/rickgao/crypto-etl/internal/model"
	"github.com/rickgao/crypto-etl/internal/normalize"
)

// NormalizeTimestamps rewrites timestamp cells of t to ISO-8601 in place:
// epoch-millisecond open_time/close_time and compact extracted_at_utc.
// Cells that are already ISO or do not parse are kept. Returns the number
// of cells changed.
func NormalizeTimestamps(t *model.Table, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	changed := 0
	for c, col := range t.Columns {
		switch {
		case epochColumns[col]:
			for _, row := range t.Rows {
				s, ok := row[c].(string)
				if !ok || strings.Contains(s, "-") {
					continue
				}
				if iso, err := normalize.EpochMillisToISO(s); err == nil {
					row[c] = iso
					changed++
				}
			}
		case col == ColExtractedAt:
			for _, row := range t.Rows {
				s, ok := row[c].(string)
				if !ok || strings.Contains(s, "-") {
					continue
				}
				iso, ok := normalize.CompactToISO(s)
				if !ok {
					logger.Debug("extraction timestamp not in compact form, keeping as-is", "value", s)
					continue
				}
				row[c] = iso
				changed++
			}
		}
	}
	return changed
}
