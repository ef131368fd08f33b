// Package report renders break results and history for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/analysis"
	"github.com/sorenwolf/klartext/internal/lang"
	"github.com/sorenwolf/klartext/internal/model"
	"github.com/sorenwolf/klartext/internal/score"
)

const previewRunes = 240

// RenderBreak prints a break result: recovered key, fit quality, a
// frequency comparison against the reference profile, and a preview
// of the recovered plaintext.
func RenderBreak(w io.Writer, result analysis.Result, profile lang.Profile, a alphabet.Alphabet) error {
	if _, err := fmt.Fprintf(w, "Cipher: %s\n", result.Cipher); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Key: %s\n", result.Key); err != nil {
		return err
	}
	if result.Cipher == analysis.CipherVigenere {
		if _, err := fmt.Fprintf(w, "Key length: %d\n", len(result.Shifts)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Distance: %.2f (lower is better)\n", result.Distance); err != nil {
		return err
	}
	observed, total := score.Counts(result.Plaintext, a)
	if total > 1 {
		ic := score.IndexOfCoincidence(observed, total)
		if _, err := fmt.Fprintf(w, "Index of coincidence: %.4f (English-like text is near 0.066)\n", ic); err != nil {
			return err
		}
	}
	if result.LowConfidence {
		if _, err := fmt.Fprintln(w, "Confidence: LOW (sample too short for reliable statistics)"); err != nil {
			return err
		}
	}

	if total > 0 {
		obsFreq := make([]float64, a.Len())
		refFreq := make([]float64, a.Len())
		for i := range obsFreq {
			obsFreq[i] = float64(observed[i]) / float64(total)
			refFreq[i] = profile.Freq(a.Rune(i))
		}
		if _, err := fmt.Fprintf(w, "Observed  %s\n", Sparkline(obsFreq)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Reference %s\n", Sparkline(refFreq)); err != nil {
			return err
		}
	}

	preview := []rune(result.Plaintext)
	truncated := false
	if len(preview) > previewRunes {
		preview = preview[:previewRunes]
		truncated = true
	}
	if _, err := fmt.Fprintln(w, "Plaintext:"); err != nil {
		return err
	}
	for _, line := range wrapLines(string(preview), terminalWidth()) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if truncated {
		if _, err := fmt.Fprintln(w, "..."); err != nil {
			return err
		}
	}
	return nil
}

// historyColumns fixes the layout of the history listing. Numeric
// columns are right-aligned.
var historyColumns = []column{
	{title: "Time"},
	{title: "Op"},
	{title: "Cipher"},
	{title: "Lang"},
	{title: "Key"},
	{title: "Distance", numeric: true},
	{title: "Input", numeric: true},
}

// RenderHistory prints history records as a table, oldest first.
func RenderHistory(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No operations recorded.")
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		distance := "-"
		if rec.Distance != nil {
			distance = fmt.Sprintf("%.2f", *rec.Distance)
			if rec.LowConfidence {
				distance += " (low)"
			}
		}
		rows = append(rows, []string{
			rec.At.Local().Format("2006-01-02 15:04:05"),
			rec.Op,
			rec.Cipher,
			rec.Lang,
			rec.Key,
			distance,
			fmt.Sprintf("%d", rec.InputLen),
		})
	}
	for _, line := range renderTable(historyColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type column struct {
	title   string
	numeric bool
}

// renderTable lays out rows under the column spec, padding every cell
// to its column's widest value. Rows must have one cell per column.
func renderTable(cols []column, rows [][]string) []string {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = utf8.RuneCountInString(col.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderRow(cols, widths, header))
	for _, row := range rows {
		lines = append(lines, renderRow(cols, widths, row))
	}
	return lines
}

func renderRow(cols []column, widths []int, cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		pad := widths[i] - utf8.RuneCountInString(cell)
		if cols[i].numeric {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
			continue
		}
		b.WriteString(cell)
		// The last column stays ragged; no trailing spaces.
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}

// wrapLines splits text into lines no wider than width runes,
// breaking on existing newlines first.
func wrapLines(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		runes := []rune(paragraph)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for len(runes) > 0 {
			n := width
			if n > len(runes) {
				n = len(runes)
			}
			out = append(out, string(runes[:n]))
			runes = runes[n:]
		}
	}
	return out
}
