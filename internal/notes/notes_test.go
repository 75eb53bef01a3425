package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, content string) Map {
	t.Helper()
	m, err := Parse(strings.NewReader(content))
	require.NoError(t, err)
	return m
}

func TestParse_Sequential(t *testing.T) {
	m := parseString(t, "first\n---\nsecond\n---\nthird")

	assert.Equal(t, "first", m.Get(1))
	assert.Equal(t, "second", m.Get(2))
	assert.Equal(t, "third", m.Get(3))
	assert.Equal(t, 3, m.Len())
}

func TestParse_ExplicitIndexResumesSequence(t *testing.T) {
	m := parseString(t, "A\n---\n--5--\nB\n---\nC")

	assert.Equal(t, Map{1: "A", 5: "B", 6: "C"}, m)
}

func TestParse_BlankBlockConsumesSlot(t *testing.T) {
	// A deliberately empty block still uses up a slide number so the
	// following blocks stay aligned.
	m := parseString(t, "A\n---\n\n---\nB")

	assert.Equal(t, "A", m.Get(1))
	assert.Equal(t, "", m.Get(2))
	assert.Equal(t, "B", m.Get(3))
	assert.Equal(t, 2, m.Len())
}

func TestParse_ExplicitNeverOverwrittenBySequential(t *testing.T) {
	// The sequential counter continues past explicit assignments even
	// when the explicit index points backwards.
	m := parseString(t, "--3--\nC\n---\nD\n---\n--2--\nB\n---\nE")

	assert.Equal(t, "C", m.Get(3))
	assert.Equal(t, "D", m.Get(4))
	assert.Equal(t, "B", m.Get(2))
	// Sequential continues from max index seen (4), not from 2.
	assert.Equal(t, "E", m.Get(5))
}

func TestParse_MalformedMarkerFallsBackToSequential(t *testing.T) {
	tests := []struct {
		name   string
		marker string
	}{
		{"zero index", "--0--"},
		{"not a number", "--x--"},
		{"trailing junk", "--3-- extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parseString(t, tt.marker+"\nbody")

			// The bad marker stays part of the text.
			assert.Equal(t, tt.marker+"\nbody", m.Get(1))
		})
	}
}

func TestParse_MarkerWhitespaceAndCRLF(t *testing.T) {
	m := parseString(t, "A\r\n---\r\n --2-- \r\nB\r\n")

	assert.Equal(t, "A", m.Get(1))
	assert.Equal(t, "B", m.Get(2))
}

func TestParse_MarkerOnlyBlockReservesIndex(t *testing.T) {
	m := parseString(t, "--4--\n---\nafter")

	assert.Equal(t, "", m.Get(4))
	// Sequential continues after the reserved explicit index.
	assert.Equal(t, "after", m.Get(5))
}

func TestParse_Latin1Fallback(t *testing.T) {
	// 0xE9 is 'é' in Latin-1 and invalid as a standalone UTF-8 byte.
	m, err := Parse(strings.NewReader("caf\xe9"))
	require.NoError(t, err)

	assert.Equal(t, "café", m.Get(1))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "deck_notes.txt"))
	require.NoError(t, err)

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "", m.Get(1))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck_notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n---\nworld\n"), 0o600))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hello", m.Get(1))
	assert.Equal(t, "world", m.Get(2))
}
