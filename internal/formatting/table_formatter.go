package formatting

import (
	"fmt"
	"strings"

	"mcpie/internal/document"
	pkgstrings "mcpie/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// noDataMessage is what the table format shows for an absent result.
const noDataMessage = "No data"

// TableFormatter renders listings as a column table and single results as
// key: value lines.
type TableFormatter struct {
	sink
}

// FormatResult renders one key: value line per top-level field.
func (f *TableFormatter) FormatResult(result *document.Object) (string, error) {
	if result == nil || result.Len() == 0 {
		return noDataMessage, nil
	}
	lines := make([]string, 0, result.Len())
	for pair := result.Oldest(); pair != nil; pair = pair.Next() {
		lines = append(lines, fmt.Sprintf("%s: %s", pair.Key, document.String(pair.Value)))
	}
	return strings.Join(lines, "\n"), nil
}

// FormatList renders a header row, a divider and one row per item. Missing
// fields leave an empty cell.
func (f *TableFormatter) FormatList(items []*document.Object, label string, columns []string) (string, error) {
	if len(items) == 0 {
		return fmt.Sprintf("No %s available", label), nil
	}

	t := table.NewWriter()
	t.SetStyle(plainTableStyle())

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, item := range items {
		row := make(table.Row, len(columns))
		for i, col := range columns {
			row[i] = cellValue(item, col)
		}
		t.AppendRow(row)
	}
	return t.Render(), nil
}

// plainTableStyle is an ASCII table without outer border: header, one
// divider line, rows. Column names are printed as given.
func plainTableStyle() table.Style {
	style := table.StyleDefault
	style.Name = "mcpie"
	style.Options = table.Options{
		DrawBorder:      false,
		SeparateColumns: true,
		SeparateHeader:  true,
		SeparateRows:    false,
		SeparateFooter:  false,
	}
	style.Format.Header = text.FormatDefault
	return style
}

// cellValue returns the single-line cell text for column col of item.
func cellValue(item *document.Object, col string) string {
	v, ok := document.Get(item, col)
	if !ok || v == nil {
		return ""
	}
	return pkgstrings.TruncateCell(document.String(v))
}
