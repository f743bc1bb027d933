package tracker

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleCatalogJSON = `[
  {"id": 1, "title": "Red Grove", "author": "Mara Quinn", "authorDescription": "Debut novelist.",
   "description": "Two women rebuild a burned orchard.", "genre": "Literary Fiction",
   "publishYear": 2019, "averageRating": 4.5,
   "lgbtqRepresentation": ["Lesbian"], "triggerWarnings": ["Fire"], "coverColor": "#aa3366"},
  {"id": 2, "title": "Salt Atlas", "author": "Devon Okafor", "authorDescription": "Cartographer turned writer.",
   "description": "A trans sailor charts a vanished coastline.", "genre": "Fantasy",
   "publishYear": 2021, "averageRating": 3.0,
   "lgbtqRepresentation": ["Transgender", "Nonbinary"], "triggerWarnings": [], "coverColor": "#2266aa"},
  {"id": 3, "title": "Harbor Lights", "author": "Ines Harper", "authorDescription": "Writes seaside romances.",
   "description": "Slow-burn romance between two dockworkers.", "genre": "Romance",
   "publishYear": 2015, "averageRating": 5.0,
   "lgbtqRepresentation": ["Gay", "Bisexual"], "triggerWarnings": [], "coverColor": "#44aa55"}
]`

func writeCatalogFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog(writeCatalogFile(t, sampleCatalogJSON))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestLoadCatalogFromFile(t *testing.T) {
	c := sampleCatalog(t)
	if c.Len() != 3 {
		t.Fatalf("want 3 books, got %d", c.Len())
	}
	b, ok := c.Get(2)
	if !ok || b.Title != "Salt Atlas" || b.PublishYear != 2021 {
		t.Fatalf("unexpected book 2: %+v", b)
	}
}

func TestLoadCatalogFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCatalogJSON))
	}))
	defer srv.Close()

	c, err := LoadCatalog(srv.URL)
	if err != nil {
		t.Fatalf("load via http: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("want 3 books, got %d", c.Len())
	}
}

func TestLoadCatalogHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := LoadCatalog(srv.URL); err == nil {
		t.Fatalf("expected error for 404 response")
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("want *LoadError, got %T", err)
	}
	if loadErr.Unwrap() == nil {
		t.Fatalf("LoadError should carry its cause")
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", `this is not json`},
		{"wrong shape", `{"books": []}`},
		{"duplicate id", `[
            {"id": 1, "title": "A", "author": "X", "lgbtqRepresentation": ["Gay"]},
            {"id": 1, "title": "B", "author": "Y", "lgbtqRepresentation": ["Gay"]}]`},
		{"nonpositive id", `[{"id": 0, "title": "A", "author": "X", "lgbtqRepresentation": ["Gay"]}]`},
		{"missing title", `[{"id": 1, "title": " ", "author": "X", "lgbtqRepresentation": ["Gay"]}]`},
		{"missing author", `[{"id": 1, "title": "A", "author": "", "lgbtqRepresentation": ["Gay"]}]`},
		{"empty representation", `[{"id": 1, "title": "A", "author": "X", "lgbtqRepresentation": []}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalogFile(t, tc.data))
			if err == nil {
				t.Fatalf("expected load failure")
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("want *LoadError, got %T", err)
			}
		})
	}
}

func TestDistinctGenresSorted(t *testing.T) {
	c := sampleCatalog(t)
	want := []string{"Fantasy", "Literary Fiction", "Romance"}
	if !reflect.DeepEqual(c.Genres(), want) {
		t.Fatalf("genres = %v, want %v", c.Genres(), want)
	}
}

func TestDistinctRepresentationsSorted(t *testing.T) {
	c := sampleCatalog(t)
	want := []string{"Bisexual", "Gay", "Lesbian", "Nonbinary", "Transgender"}
	if !reflect.DeepEqual(c.Representations(), want) {
		t.Fatalf("representations = %v, want %v", c.Representations(), want)
	}
}
