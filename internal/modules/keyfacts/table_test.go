package keyfacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Amazing Spider-Man", "amazingspiderman"},
		{"AMAZING SPIDER-MAN", "amazingspiderman"},
		{"  the  X-Men ", "xmen"},
		{"Theater of Blood", "theaterofblood"},
		{"Hero for Hire", "heroforhire"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTitle(tt.input))
		})
	}
}

func TestLookup(t *testing.T) {
	table := New([]Entry{
		{Title: "The Amazing Spider-Man", Issue: "300", KeyFacts: []string{"1st full appearance of Venom"}},
		{Title: "X-Men", Issue: "1", KeyFacts: []string{"1st appearance of the X-Men"}},
		{Title: "Empty", Issue: "1"},
	}, zerolog.Nop())

	assert.Equal(t, 2, table.Len())

	facts, ok := table.Lookup("amazing spider-man", "#300")
	require.True(t, ok)
	assert.Equal(t, []string{"1st full appearance of Venom"}, facts)

	facts, ok = table.Lookup("The X-Men", "001")
	require.True(t, ok, "leading zeros are retried")
	assert.Equal(t, []string{"1st appearance of the X-Men"}, facts)

	_, ok = table.Lookup("X-Men", "2")
	assert.False(t, ok)

	_, ok = table.Lookup("Empty", "1")
	assert.False(t, ok, "entries without facts are dropped")
}

func TestLookup_ReturnsCopy(t *testing.T) {
	table := New([]Entry{{Title: "Saga", Issue: "1", KeyFacts: []string{"original"}}}, zerolog.Nop())

	facts, _ := table.Lookup("Saga", "1")
	facts[0] = "changed"

	again, _ := table.Lookup("Saga", "1")
	assert.Equal(t, "original", again[0])
}

func TestLoadEmbedded(t *testing.T) {
	table, err := LoadEmbedded(zerolog.Nop())
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 20)

	facts, ok := table.Lookup("Amazing Fantasy", "15")
	require.True(t, ok)
	assert.Contains(t, facts, "1st appearance of Spider-Man")

	facts, ok = table.Lookup("Incredible Hulk", "#0181")
	require.True(t, ok)
	assert.Equal(t, []string{"1st full appearance of Wolverine"}, facts)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Local Title","issue":"7","keyFacts":["house fact"]}]`), 0o644))

	table, err := LoadFile(path, zerolog.Nop())
	require.NoError(t, err)
	facts, ok := table.Lookup("local title", "7")
	require.True(t, ok)
	assert.Equal(t, []string{"house fact"}, facts)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), zerolog.Nop())
	assert.Error(t, err)

	table, err = LoadFile("", zerolog.Nop())
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 0)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(strings.NewReader(`{"not": "an array"}`), zerolog.Nop())
	assert.Error(t, err)
}
