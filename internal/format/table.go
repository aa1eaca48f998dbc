package format

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Tabler is implemented by payloads that have a tabular rendering.
type Tabler interface {
	TableHeader() []string
	TableRows() [][]string
}

var headerStyle = color.New(color.Bold, color.Underline)
var hintStyle = color.New(color.Faint)

// WriteTable renders v as an aligned table. Command envelopes of the form
// {"data": ..., "_hints": [...]} are unwrapped; hints print below the table.
func WriteTable(w io.Writer, v any) error {
	var hints []string
	if env, ok := v.(map[string]any); ok {
		if hs, ok := env["_hints"].([]string); ok {
			hints = hs
		}
		if d, ok := env["data"]; ok {
			v = d
		}
	}
	t, ok := v.(Tabler)
	if !ok {
		return fmt.Errorf("table format not supported for %T", v)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true

	header := t.TableHeader()
	if len(header) > 0 {
		cells := make([]any, 0, len(header))
		for _, h := range header {
			cells = append(cells, headerStyle.Sprint(h))
		}
		tbl.AddRow(cells...)
	}
	for _, row := range t.TableRows() {
		cells := make([]any, 0, len(row))
		for _, c := range row {
			cells = append(cells, c)
		}
		tbl.AddRow(cells...)
	}
	if _, err := fmt.Fprintln(w, tbl); err != nil {
		return err
	}
	for _, h := range hints {
		if _, err := fmt.Fprintln(w, hintStyle.Sprint("hint: "+h)); err != nil {
			return err
		}
	}
	return nil
}
