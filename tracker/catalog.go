package tracker

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Catalog holds the immutable book list for the session, plus the distinct
// genre and representation sets used to populate the filter options.
type Catalog struct {
	books           []Book
	byID            map[int64]Book
	genres          []string
	representations []string
}

// LoadError reports a failed or malformed catalog load. A failed load is
// fatal to the session: callers must surface it and must not retry.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadCatalog reads and validates the book list from a local file or an
// http(s) URL. The fetch happens exactly once; there is no retry.
func LoadCatalog(source string) (*Catalog, error) {
	data, err := readSource(source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	var books []Book
	if err := jsoniter.ConfigFastest.Unmarshal(data, &books); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	if err := validateBooks(books); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return newCatalog(books), nil
}

func readSource(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(source)
}

func validateBooks(books []Book) error {
	seen := make(map[int64]bool, len(books))
	for i, b := range books {
		switch {
		case b.ID <= 0:
			return fmt.Errorf("record %d: invalid id %d", i, b.ID)
		case seen[b.ID]:
			return fmt.Errorf("record %d: duplicate id %d", i, b.ID)
		case strings.TrimSpace(b.Title) == "":
			return fmt.Errorf("record %d: missing title", i)
		case strings.TrimSpace(b.Author) == "":
			return fmt.Errorf("record %d: missing author", i)
		case len(b.LGBTQRepresentation) == 0:
			return fmt.Errorf("record %d (%s): missing lgbtqRepresentation", i, b.Title)
		}
		seen[b.ID] = true
	}
	return nil
}

func newCatalog(books []Book) *Catalog {
	byID := make(map[int64]Book, len(books))
	genreSet := make(map[string]bool)
	repSet := make(map[string]bool)
	for _, b := range books {
		byID[b.ID] = b
		genreSet[b.Genre] = true
		for _, rep := range b.LGBTQRepresentation {
			repSet[rep] = true
		}
	}
	return &Catalog{
		books:           books,
		byID:            byID,
		genres:          sortedKeys(genreSet),
		representations: sortedKeys(repSet),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Books returns the catalog in load order. Callers must not modify the
// returned slice.
func (c *Catalog) Books() []Book { return c.books }

// Get looks up a book by id.
func (c *Catalog) Get(id int64) (Book, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Len is the number of books in the catalog.
func (c *Catalog) Len() int { return len(c.books) }

// Genres returns all genres present, sorted lexicographically.
func (c *Catalog) Genres() []string { return c.genres }

// Representations returns all representation categories present, sorted
// lexicographically.
func (c *Catalog) Representations() []string { return c.representations }
