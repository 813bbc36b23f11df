package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"moviesuggest/internal/providers"
	"moviesuggest/internal/tmdb"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecords(cmd *cobra.Command, ctx *commandContext, records []tmdb.Record) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, records)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No movies found")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Title,
			optionalYear(r.Year),
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			strconv.FormatInt(r.ID, 10),
			optionalString(r.TrailerURL),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Title", "Year", "Rating", "TMDB", "Trailer"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		shouldDecorate(out),
	))
	return nil
}

func printOffers(cmd *cobra.Command, ctx *commandContext, offers []providers.Offer) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, offers)
	}
	out := cmd.OutOrStdout()
	if len(offers) == 0 {
		fmt.Fprintln(out, "No watch providers for this region")
		return nil
	}
	rows := make([][]string, 0, len(offers))
	for _, o := range offers {
		rows = append(rows, []string{o.Name, string(o.Type)})
	}
	fmt.Fprintln(out, renderTable([]string{"Provider", "Type"}, rows, nil, shouldDecorate(out)))
	fmt.Fprintf(out, "Details: %s\n", offers[0].URL)
	return nil
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, decorate bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if decorate {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateHeader = false
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// shouldDecorate reports whether writer is an interactive terminal.
func shouldDecorate(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func optionalYear(year *int) string {
	if year == nil {
		return "-"
	}
	return strconv.Itoa(*year)
}

func optionalString(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
