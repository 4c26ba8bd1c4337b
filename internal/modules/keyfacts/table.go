// Package keyfacts is the curated table of key facts (first appearances, origins, deaths)
// for notable issues. It is the free, authoritative first tier of metadata resolution.
package keyfacts

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/longboxhq/longbox/internal/utils"
	"github.com/rs/zerolog"
)

//go:embed data/key_facts.json
var embeddedTable []byte

// Entry is one row of the curated table
type Entry struct {
	Title    string   `json:"title"`
	Issue    string   `json:"issue"`
	KeyFacts []string `json:"keyFacts"`
}

// Table is an immutable, normalized lookup over curated entries.
type Table struct {
	entries map[string][]string
	log     zerolog.Logger
}

// NormalizeTitle case-folds, strips a leading "The" and drops everything that is not a letter or digit.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.TrimPrefix(t, "the ")

	var sb strings.Builder
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func key(title, issue string) string {
	return NormalizeTitle(title) + "|" + strings.ToLower(utils.NormalizeIssue(issue))
}

// New builds a table from entries. Later duplicates replace earlier ones.
func New(entries []Entry, log zerolog.Logger) *Table {
	t := &Table{
		entries: make(map[string][]string, len(entries)),
		log:     log.With().Str("component", "keyfacts").Logger(),
	}
	for _, e := range entries {
		if NormalizeTitle(e.Title) == "" || len(e.KeyFacts) == 0 {
			continue
		}
		facts := make([]string, len(e.KeyFacts))
		copy(facts, e.KeyFacts)
		t.entries[key(e.Title, e.Issue)] = facts
	}
	return t
}

// Load decodes a JSON array of entries.
func Load(r io.Reader, log zerolog.Logger) (*Table, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode key facts: %w", err)
	}
	return New(entries, log), nil
}

// LoadEmbedded returns the table shipped with the binary.
func LoadEmbedded(log zerolog.Logger) (*Table, error) {
	var entries []Entry
	if err := json.Unmarshal(embeddedTable, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode embedded key facts: %w", err)
	}
	return New(entries, log), nil
}

// LoadFile reads the table from path, or the embedded table when path is empty.
func LoadFile(path string, log zerolog.Logger) (*Table, error) {
	if path == "" {
		return LoadEmbedded(log)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key facts file: %w", err)
	}
	defer f.Close()

	return Load(f, log)
}

// Lookup returns the curated facts for a comic. Issues are tried as given and then
// with leading zeros stripped. The returned slice is a copy.
func (t *Table) Lookup(title, issueNumber string) ([]string, bool) {
	issue := utils.NormalizeIssue(issueNumber)

	facts, ok := t.entries[key(title, issue)]
	if !ok {
		if stripped := utils.StripLeadingZeros(issue); stripped != issue {
			facts, ok = t.entries[key(title, stripped)]
		}
	}
	if !ok {
		return nil, false
	}

	t.log.Debug().Str("title", title).Str("issue", issueNumber).Msg("Curated key facts hit")

	out := make([]string, len(facts))
	copy(out, facts)
	return out, true
}

// Len returns the number of curated entries.
func (t *Table) Len() int {
	return len(t.entries)
}
