package training

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

const (
	// CSVFilename is the name offered for downloaded exports.
	CSVFilename = "training_log.csv"
	// CSVContentType is the MIME type of exports.
	CSVContentType = "text/csv"
)

var csvHeader = []string{"Day", "Exercise", "Set", "Weight", "Reps"}

// CSVOptions controls how exports are written.
type CSVOptions struct {
	// Raw joins fields with commas without any quoting. A comma, quote, or
	// newline inside a value then breaks the row, which is how older exports
	// looked.
	Raw bool
}

// WriteCSV writes one row per logged set in store order, numbering sets from 1.
// Fields are quoted following RFC 4180 where needed unless opts.Raw is set.
func WriteCSV(w io.Writer, store Store, opts CSVOptions) error {
	rows := csvRows(store)

	if opts.Raw {
		bw := bufio.NewWriter(w)
		for _, row := range rows {
			if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// ToCSV renders the whole export as text.
func ToCSV(store Store, opts CSVOptions) string {
	var sb strings.Builder
	// strings.Builder never fails to write.
	_ = WriteCSV(&sb, store, opts)
	return sb.String()
}

func csvRows(store Store) [][]string {
	rows := [][]string{csvHeader}
	for _, log := range store.Logs() {
		for _, set := range log.Sets {
			rows = append(rows, []string{
				log.Day,
				log.Exercise,
				strconv.Itoa(set.Index + 1),
				set.Record.Weight,
				set.Record.Reps,
			})
		}
	}
	return rows
}
