// Package export writes board snapshots in formats meant for other tools
// (JSON, YAML, CSV) or for people (PDF).
//
// Every format consumes the same read model, a slice of [board.ColumnView]
// as returned by (*board.Manager).TasksByColumns, so exported boards always
// show columns in display order with their tasks sorted by order.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/taskboard/internal/board"
	apperrors "github.com/Iron-Ham/taskboard/internal/errors"
	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

// Formats returns every format Write accepts.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatCSV, FormatPDF}
}

// csvHeader is the first row of CSV output.
var csvHeader = []string{"column", "column_title", "position", "id", "title", "description", "priority", "created_at", "order"}

// Write encodes views to w in format. Format names are case-insensitive.
func Write(w io.Writer, views []board.ColumnView, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return writeJSON(w, views)
	case FormatYAML:
		return writeYAML(w, views)
	case FormatCSV:
		return writeCSV(w, views)
	case FormatPDF:
		return writePDF(w, views)
	default:
		return apperrors.NewValidationError("unknown export format").
			WithField("format").
			WithValue(format)
	}
}

func writeJSON(w io.Writer, views []board.ColumnView) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nonNil(views)); err != nil {
		return apperrors.Wrap(err, "encode json")
	}
	return nil
}

func writeYAML(w io.Writer, views []board.ColumnView) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nonNil(views)); err != nil {
		return apperrors.Wrap(err, "encode yaml")
	}
	return enc.Close()
}

// writeCSV emits one row per task. Empty columns produce no rows.
func writeCSV(w io.Writer, views []board.ColumnView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.Wrap(err, "write csv header")
	}
	for _, v := range views {
		for i, t := range v.Tasks {
			row := []string{
				v.ID,
				v.Title,
				strconv.Itoa(i),
				strconv.Itoa(t.ID),
				t.Title,
				t.Description,
				string(t.Priority),
				formatTime(t.CreatedAt),
				strconv.Itoa(t.Order),
			}
			if err := cw.Write(row); err != nil {
				return apperrors.Wrapf(err, "write csv row for task %d", t.ID)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// writePDF renders a portrait A4 report: a heading per column followed by
// one line per task.
func writePDF(w io.Writer, views []board.ColumnView) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task Board", true)
	pdf.AddPage()

	total := 0
	for _, v := range views {
		total += len(v.Tasks)
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Task Board")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d columns, %d tasks", len(views), total))
	pdf.Ln(10)

	for _, v := range views {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s (%d)", v.Title, len(v.Tasks))), "B", 1, "L", false, 0, "")
		pdf.Ln(1)

		pdf.SetFont("Arial", "", 10)
		if len(v.Tasks) == 0 {
			pdf.SetTextColor(128, 128, 128)
			pdf.MultiCell(0, 6, "No tasks", "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		for _, t := range v.Tasks {
			line := fmt.Sprintf("#%d [%s] %s", t.ID, t.Priority, t.Title)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
			if t.Description != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr("    "+t.Description), "", "L", false)
				pdf.SetFont("Arial", "", 10)
			}
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return apperrors.Wrap(err, "render pdf")
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// nonNil keeps an empty board encoded as [] rather than null.
func nonNil(views []board.ColumnView) []board.ColumnView {
	if views == nil {
		return []board.ColumnView{}
	}
	return views
}
