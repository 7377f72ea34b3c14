// internal/report/csv.go
// Package report renders grading runs: the CSV grade sheet, the JSON export
// and the console summary.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mwiater/autograde/internal/grading"
	"github.com/mwiater/autograde/internal/util"
)

// Header is the grade sheet header row.
var Header = []string{
	"Prenom",
	"Nom",
	"Compilation",
	"Warnings",
	"Tests Reussis",
	"Note de Qualite",
	"Note de Compilation",
	"Note Finale",
}

// WriteCSV writes one header row and one row per record to w.
func WriteCSV(w io.Writer, records []grading.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(Row(record)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile replaces the file at path with the grade sheet for records.
func WriteCSVFile(path string, records []grading.Record) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// Row returns the grade sheet columns for record.
func Row(record grading.Record) []string {
	return []string{
		record.Identity.FirstName,
		record.Identity.LastName,
		strconv.Itoa(util.BoolToInt(record.Compiled)),
		strconv.Itoa(record.Diagnostics),
		strconv.Itoa(record.TestsPassed),
		FormatScore(record.Scores.DocScore),
		FormatScore(record.Scores.CompileScore),
		FormatScore(record.Scores.FinalScore),
	}
}

// FormatScore prints a score with the shortest exact representation and at
// least one decimal: 2 -> "2.0", 0.67 -> "0.67", 9.5 -> "9.5".
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
