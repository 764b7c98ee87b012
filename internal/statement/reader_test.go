package statement

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ingHeader = `Datum;Naam / Omschrijving;Rekening;Tegenrekening;Code;Af Bij;Bedrag (EUR);Mutatiesoort;Mededelingen;Saldo na mutatie;Tag`

func newTestReader(t *testing.T, rows ...string) *Reader {
	t.Helper()
	data := ingHeader + "\n" + strings.Join(rows, "\n") + "\n"
	r, err := NewReader(strings.NewReader(data), ';', DefaultFieldMapping())
	require.NoError(t, err)
	return r
}

func TestReader_ParseRow(t *testing.T) {
	r := newTestReader(t,
		`20240315;ALBERT HEIJN 1234;NL01INGB0001234567;;BA;Af;1.234,56;Betaalautomaat;Pasvolgnr: 008;2.500,00;`,
	)

	intent, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, 2024, intent.PostDate.Year())
	assert.Equal(t, 3, int(intent.PostDate.Month()))
	assert.Equal(t, 15, intent.PostDate.Day())
	assert.Equal(t, "1234.56", intent.Amount.String())
	assert.True(t, intent.Debit)
	assert.Equal(t, CodeCard, intent.Code)
	assert.Equal(t, "ALBERT HEIJN 1234", intent.Counterparty)
	assert.Equal(t, "Betaalautomaat ALBERT HEIJN 1234 Pasvolgnr: 008", intent.Description)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_CreditDirection(t *testing.T) {
	r := newTestReader(t,
		`20240301;WERKGEVER BV;NL01INGB0001234567;NL99ABNA0009876543;GT;Bij;2.100,00;Online bankieren;Salaris maart;;`,
	)

	intent, err := r.Next()
	require.NoError(t, err)
	assert.False(t, intent.Debit)
	assert.Equal(t, "2100", intent.Amount.String())
}

func TestReader_DescriptionSkipsBlankFields(t *testing.T) {
	r := newTestReader(t,
		`20240301;TEGENPARTIJ;;;OV;Af;50,00;;;;`,
	)

	intent, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "TEGENPARTIJ", intent.Description)
}

func TestReader_BadDate(t *testing.T) {
	r := newTestReader(t,
		`2024-03-15;X;;;OV;Af;50,00;Overschrijving;;;`,
	)

	_, err := r.Next()
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
	assert.Contains(t, err.Error(), "parsing date")
}

func TestReader_BadAmount(t *testing.T) {
	r := newTestReader(t,
		`20240315;X;;;OV;Af;vijftig;Overschrijving;;;`,
	)

	_, err := r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestReader_MissingColumn(t *testing.T) {
	data := "Datum;Code\n20240315;OV\n"
	r, err := NewReader(strings.NewReader(data), ';', DefaultFieldMapping())
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestReader_RowNumbersAdvance(t *testing.T) {
	r := newTestReader(t,
		`20240315;A;;;OV;Af;10,00;;;;`,
		`BADDATE;B;;;OV;Af;10,00;;;;`,
	)

	_, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, r.Row())

	_, err = r.Next()
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.000,55", "10000.55"},
		{"50,00", "50"},
		{"0,01", "0.01"},
		{"1.234.567,89", "1234567.89"},
		{"3,5", "3.5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got.String(), "ParseAmount(%q)", tt.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "10,00,00"} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "ParseAmount(%q)", in)
	}
}

func TestFormatAmount_RoundTrip(t *testing.T) {
	for _, in := range []string{"10.000,55", "50,00", "0,01", "1.234.567,89"} {
		d, err := ParseAmount(in)
		require.NoError(t, err)
		assert.Equal(t, in, FormatAmount(d), "round-trip of %q", in)
	}
}

func TestFormatAmount_Negative(t *testing.T) {
	d, err := ParseAmount("1.234,56")
	require.NoError(t, err)
	assert.Equal(t, "-1.234,56", FormatAmount(d.Neg()))
}

func TestCodeDescription(t *testing.T) {
	assert.Equal(t, "incasso", CodeIncasso.Description())
	assert.Equal(t, "iDeal", CodeIDeal.Description())
	assert.Equal(t, "verzamelbetaling", CodeBundledPayment.Description())
	assert.Equal(t, "XX", Code("XX").Description())
}
