package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/rickgao/crypto-etl/internal/model"
)

// nullText is shown for null cells in previews.
const nullText = "NaN"

// Render writes the first limit rows of t as an aligned text table.
// limit <= 0 renders every row.
func Render(w io.Writer, t *model.Table, limit int) error {
	rows := t.Rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, t.Columns)
	for _, row := range rows {
		line := make([]string, len(t.Columns))
		for i := range line {
			line[i] = nullText
			if i < len(row) && row[i] != nil {
				line[i] = FormatCell(row[i])
			}
		}
		cells = append(cells, line)
	}

	// Display width, not byte length, so names with wide runes stay aligned.
	widths := make([]int, len(t.Columns))
	for _, line := range cells {
		for i, c := range line {
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var sb strings.Builder
	for _, line := range cells {
		sb.Reset()
		for i, c := range line {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(runewidth.FillRight(c, widths[i]))
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " ")); err != nil {
			return err
		}
	}

	if len(rows) < len(t.Rows) {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", len(t.Rows)-len(rows)); err != nil {
			return err
		}
	}
	return nil
}
