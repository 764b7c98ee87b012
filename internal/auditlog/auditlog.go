// Package auditlog keeps a CSV record of import run outcomes next to the
// book, so automatically imported rows can be traced during manual review.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp    time.Time
	Outcome      string
	PostDate     time.Time
	Code         string
	Counterparty string
	Description  string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,outcome,post_date,code,counterparty,description"

const (
	numFields = 6
	logFile   = "import-log.csv"

	colTimestamp    = 0
	colOutcome      = 1
	colPostDate     = 2
	colCode         = 3
	colCounterparty = 4
	colDescription  = 5
)

const postDateFormat = "2006-01-02"

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colOutcome] = e.Outcome
	row[colPostDate] = e.PostDate.Format(postDateFormat)
	row[colCode] = e.Code
	row[colCounterparty] = e.Counterparty
	row[colDescription] = e.Description
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	postDate, err := time.Parse(postDateFormat, record[colPostDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing post date %q: %w", record[colPostDate], err)
	}

	return Entry{
		Timestamp:    ts,
		Outcome:      record[colOutcome],
		PostDate:     postDate,
		Code:         record[colCode],
		Counterparty: record[colCounterparty],
		Description:  record[colDescription],
	}, nil
}

// Append writes entries to <dir>/import-log.csv, creating the file and
// header if needed.
func Append(dir string, entries []Entry) error {
	path := filepath.Join(dir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <dir>/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
