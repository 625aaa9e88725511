// Package report renders index summaries as aligned plain-text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is a titled grid of cells rendered as a Markdown-style table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Lines returns the table rows padded by display width, so wide runes in
// names keep the columns aligned.
func (t Table) Lines() []string {
	colCount := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	all := append([][]string{t.Headers}, t.Rows...)
	widths := make([]int, colCount)
	for _, row := range all {
		for i := 0; i < len(row); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	lines := make([]string, 0, len(all)+1)
	lines = append(lines, formatRow(t.Headers, widths))
	sep := make([]string, colCount)
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	lines = append(lines, formatRow(sep, widths))
	for _, row := range t.Rows {
		lines = append(lines, formatRow(row, widths))
	}
	return lines
}

func formatRow(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, w := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, w))
		sb.WriteString(" |")
	}
	return sb.String()
}

// Write prints the title and the table followed by a blank line. Tables
// without rows print "(none)" in place of the grid.
func (t Table) Write(w io.Writer) error {
	title := cases.Title(language.English).String(t.Title)
	if _, err := fmt.Fprintf(w, "%s (%d)\n", title, len(t.Rows)); err != nil {
		return err
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprint(w, "(none)\n\n")
		return err
	}
	for _, line := range t.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
