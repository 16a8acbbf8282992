package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mirkocesaro/jiralog/internal/model"
)

// Table is a titled console table.
type Table struct {
	Title  string
	Schema model.Schema
	Rows   []model.Row
	Footer string
}

// RenderTable writes t as aligned columns with an optional title and footer line.
func RenderTable(out io.Writer, t Table) error {
	if t.Title != "" {
		fmt.Fprintf(out, "== %s ==\n", t.Title)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Schema, "\t"))

	rule := make([]string, len(t.Schema))
	for i, column := range t.Schema {
		rule[i] = strings.Repeat("-", len(column))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))

	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(sanitize(row), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if t.Footer != "" {
		fmt.Fprintln(out, t.Footer)
	}
	return nil
}

// sanitize keeps multi-line descriptions on one table line.
func sanitize(row model.Row) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "\t", " ")
		cells[i] = strings.Join(strings.Fields(strings.ReplaceAll(cell, "\n", " ")), " ")
	}
	return cells
}

// WriteCSV writes a header line followed by rows.
func WriteCSV(out io.Writer, schema model.Schema, rows []model.Row) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(schema); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile creates (or truncates) path and writes the report into it.
func WriteCSVFile(path string, schema model.Schema, rows []model.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create '%s': %w", path, err)
	}
	if err := WriteCSV(file, schema, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
