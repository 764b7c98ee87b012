package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateFormat is the compact numeric date in ING exports, e.g. "20240315".
const dateFormat = "20060102"

// directionDebit is the value of the direction column that marks a debit
// ("Af"); any other value is treated as a credit ("Bij").
const directionDebit = "Af"

// ErrMissingField marks a row that lacks a required column.
var ErrMissingField = errors.New("missing field")

// RowError is a parse failure for a single statement row.
type RowError struct {
	Row int // 1-based data row number, excluding the header
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Reader streams Intents from a delimited bank statement. The first record
// is treated as the header and used to map column names to positions.
type Reader struct {
	cr      *csv.Reader
	mapping FieldMapping
	columns map[string]int
	row     int
}

// NewReader wraps r, reading the header record immediately.
func NewReader(r io.Reader, delimiter rune, mapping FieldMapping) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	return &Reader{cr: cr, mapping: mapping, columns: columns}, nil
}

// Row returns the 1-based number of the most recently read data row.
func (r *Reader) Row() int { return r.row }

// Next returns the next row as an Intent. It returns io.EOF when the
// statement is exhausted and a *RowError when a row fails to parse.
func (r *Reader) Next() (Intent, error) {
	rec, err := r.cr.Read()
	if err == io.EOF {
		return Intent{}, io.EOF
	}
	r.row++
	if err != nil {
		return Intent{}, &RowError{Row: r.row, Err: err}
	}

	intent, err := r.parse(rec)
	if err != nil {
		return Intent{}, &RowError{Row: r.row, Err: err}
	}
	return intent, nil
}

func (r *Reader) field(rec []string, name string) (string, error) {
	i, ok := r.columns[name]
	if !ok || i >= len(rec) {
		return "", fmt.Errorf("%w: %q", ErrMissingField, name)
	}
	return rec[i], nil
}

// optional returns the named column's value, or "" when the statement does
// not carry that column at all.
func (r *Reader) optional(rec []string, name string) string {
	v, err := r.field(rec, name)
	if err != nil {
		return ""
	}
	return v
}

func (r *Reader) parse(rec []string) (Intent, error) {
	rawDate, err := r.field(rec, r.mapping.Date)
	if err != nil {
		return Intent{}, err
	}
	postDate, err := time.Parse(dateFormat, rawDate)
	if err != nil {
		return Intent{}, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}

	rawAmount, err := r.field(rec, r.mapping.Amount)
	if err != nil {
		return Intent{}, err
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return Intent{}, err
	}

	direction, err := r.field(rec, r.mapping.Direction)
	if err != nil {
		return Intent{}, err
	}

	counterparty := r.optional(rec, r.mapping.Counterparty)
	subType := r.optional(rec, r.mapping.SubType)
	notes := r.optional(rec, r.mapping.Notes)

	return Intent{
		PostDate:     postDate,
		Amount:       amount,
		Debit:        direction == directionDebit,
		Description:  joinDescription(subType, counterparty, notes),
		Code:         Code(r.optional(rec, r.mapping.Code)),
		Counterparty: counterparty,
	}, nil
}

// joinDescription joins the descriptive fields with single spaces, skipping
// blanks.
func joinDescription(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// ParseAmount converts a Dutch-locale amount ("10.000,55") to an exact
// decimal. The thousands dots are stripped and the comma swapped for a
// decimal point before parsing; parsing the raw string directly would read
// "10.000" as ten.
func ParseAmount(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders a decimal back in the statement's locale convention:
// comma decimal separator, dots grouping thousands, two decimal places.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}
