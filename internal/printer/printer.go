// Package printer renders assets for the terminal: aligned tables for
// lists, padded key/value details for single assets, and raw JSON on
// demand.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/owkin/substra/internal/sdk"
)

// Printer renders assets of one kind.
type Printer interface {
	PrintList(w io.Writer, items []sdk.Asset, raw bool) error
	PrintSingle(w io.Writer, item sdk.Asset, raw, expand bool) error
}

// AssetPrinter renders an asset kind with a fixed set of fields and
// follow-up hint messages pointing at related commands.
type AssetPrinter struct {
	AssetName string

	KeyField     Field
	ListFields   []Field
	SingleFields []Field

	DownloadMessage string
	HasDescription  bool
	HasLeaderboard  bool
}

// PrintRaw writes indented JSON.
func PrintRaw(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// PrintList renders a table of assets, one row per asset.
func (p *AssetPrinter) PrintList(w io.Writer, items []sdk.Asset, raw bool) error {
	if raw {
		return PrintRaw(w, items)
	}
	printTable(w, items, p.listFields())
	return nil
}

// PrintSingle renders the details of one asset followed by hint messages.
func (p *AssetPrinter) PrintSingle(w io.Writer, item sdk.Asset, raw, expand bool) error {
	if raw {
		return PrintRaw(w, item)
	}
	printDetails(w, item, p.singleFields(), expand)
	p.printMessages(w, item)
	return nil
}

func (p *AssetPrinter) listFields() []Field {
	return append([]Field{p.KeyField}, p.ListFields...)
}

func (p *AssetPrinter) singleFields() []Field {
	return append([]Field{p.KeyField}, p.SingleFields...)
}

func (p *AssetPrinter) printMessages(w io.Writer, item sdk.Asset) {
	key := formatValue(p.KeyField.Value(item, false))

	if p.DownloadMessage != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.DownloadMessage)
		fmt.Fprintf(w, "\tsubstra download %s %s\n", p.AssetName, key)
	}
	if p.HasDescription {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Display this %s's description:\n", p.AssetName)
		fmt.Fprintf(w, "\tsubstra describe %s %s\n", p.AssetName, key)
	}
	if p.HasLeaderboard {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Display this objective's leaderboard:")
		fmt.Fprintf(w, "\tsubstra leaderboard %s\n", key)
	}
}

// jsonPrinter is the fallback for kinds with no registered field layout.
type jsonPrinter struct{}

func (jsonPrinter) PrintList(w io.Writer, items []sdk.Asset, raw bool) error {
	return PrintRaw(w, items)
}

func (jsonPrinter) PrintSingle(w io.Writer, item sdk.Asset, raw, expand bool) error {
	return PrintRaw(w, item)
}

func formatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return "None"
	case string:
		return value
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%v", value)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// pad rounds a width up to the next multiple of four, plus a gutter.
func pad(width int) int {
	return (width+3)/4*4 + 4
}

func printTable(w io.Writer, items []sdk.Asset, fields []Field) {
	columns := make([][]string, len(fields))
	widths := make([]int, len(fields))
	for i, f := range fields {
		column := []string{strings.ToUpper(f.Name())}
		for _, item := range items {
			column = append(column, formatValue(f.Value(item, false)))
		}
		for _, cell := range column {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
		columns[i] = column
		widths[i] = pad(widths[i])
	}

	for row := 0; row <= len(items); row++ {
		var line strings.Builder
		for col := range columns {
			line.WriteString(padRight(columns[col][row], widths[col]))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func printDetails(w io.Writer, item sdk.Asset, fields []Field, expand bool) {
	nameWidth := 0
	for _, f := range fields {
		if len(f.Name()) > nameWidth {
			nameWidth = len(f.Name())
		}
	}
	nameWidth = pad(nameWidth)

	for _, f := range fields {
		name := padRight(strings.ToUpper(f.Name()), nameWidth)
		value := f.Value(item, expand)

		if list, ok := value.([]interface{}); ok {
			if len(list) == 0 {
				fmt.Fprintf(w, "%sNone\n", name)
				continue
			}
			padding := strings.Repeat(" ", nameWidth)
			for i, v := range list {
				prefix := padding
				if i == 0 {
					prefix = name
				}
				fmt.Fprintf(w, "%s- %s\n", prefix, formatValue(v))
			}
			continue
		}
		fmt.Fprintf(w, "%s%s\n", name, formatValue(value))
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
