package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"book-tracker/tracker"
)

// check_catalog validates a catalog document before it ships with the app:
// it runs the same load path the tracker uses at startup and reports what
// the filter options will look like.
func main() {
	source := "books.json"
	if len(os.Args) > 1 {
		source = os.Args[1]
	}

	fmt.Printf("Checking catalog %s...\n", source)
	catalog, err := tracker.LoadCatalog(source)
	if err != nil {
		var loadErr *tracker.LoadError
		if errors.As(err, &loadErr) {
			fmt.Fprintf(os.Stderr, "Catalog is unusable: %v\n", loadErr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Catalog OK: %d books\n\n", catalog.Len())
	if catalog.Len() == 0 {
		return
	}

	fmt.Printf("Genres (%d): %s\n", len(catalog.Genres()), strings.Join(catalog.Genres(), ", "))
	fmt.Printf("Representation (%d): %s\n\n",
		len(catalog.Representations()), strings.Join(catalog.Representations(), ", "))

	minYear, maxYear := 0, 0
	var ratingSum float64
	warnings := 0
	for i, b := range catalog.Books() {
		if i == 0 || b.PublishYear < minYear {
			minYear = b.PublishYear
		}
		if b.PublishYear > maxYear {
			maxYear = b.PublishYear
		}
		ratingSum += b.AverageRating
		warnings += len(b.TriggerWarnings)
		if b.AverageRating < 0 || b.AverageRating > 5 {
			fmt.Printf("Warning: book %d (%s) has average rating %.2f outside 0-5\n", b.ID, b.Title, b.AverageRating)
		}
	}

	fmt.Printf("Publish years: %d-%d\n", minYear, maxYear)
	fmt.Printf("Mean average rating: %.2f\n", ratingSum/float64(catalog.Len()))
	fmt.Printf("Content warnings: %d across the catalog\n", warnings)
}
