package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() Entry {
	return Entry{
		Timestamp:    time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC),
		Outcome:      "IMPORTED",
		PostDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Code:         "BA",
		Counterparty: "ALBERT HEIJN",
		Description:  "Betaalautomaat ALBERT HEIJN",
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	e := sampleEntry()
	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestUnmarshalWrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)
}

func TestUnmarshalBadTimestamp(t *testing.T) {
	row := MarshalEntry(sampleEntry())
	row[colTimestamp] = "not-a-time"
	_, err := UnmarshalEntry(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing timestamp")
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	e1 := sampleEntry()
	e2 := sampleEntry()
	e2.Outcome = "SKIPPED_DUPLICATE"

	require.NoError(t, Append(dir, []Entry{e1}))
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "IMPORTED", entries[0].Outcome)
	assert.Equal(t, "SKIPPED_DUPLICATE", entries[1].Outcome)
	assert.Equal(t, "ALBERT HEIJN", entries[0].Counterparty)
}

func TestReadMissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}
