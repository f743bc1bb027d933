package tracker

import (
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortLocale holds the language.Tag used for title and author sorting.
// Collators themselves are not safe to share across goroutines, so each
// sort builds its own from the tag.
var sortLocale atomic.Value

func init() {
	sortLocale.Store(language.English)
}

// SetLocale switches the locale used for title and author sorting.
// Unparsable tags keep the current locale.
func SetLocale(tag string) {
	t, err := language.Parse(tag)
	if err != nil {
		return
	}
	sortLocale.Store(t)
}

func newCollator() *collate.Collator {
	return collate.New(sortLocale.Load().(language.Tag))
}

// Visible applies the query's filters to the catalog and sorts the result.
// It is pure: the catalog order is never disturbed and the returned slice is
// freshly allocated. A book must pass all four predicates.
func Visible(c *Catalog, o Overlay, q Query) []Book {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	visible := make([]Book, 0, c.Len())
	for _, b := range c.Books() {
		if matchesSearch(b, needle) &&
			matchesStatus(b, o, q.Status) &&
			matchesRepresentation(b, q.Representation) &&
			matchesGenre(b, q.Genre) {
			visible = append(visible, b)
		}
	}

	sortBooks(visible, q.Sort)
	return visible
}

// matchesSearch is an OR over fields: title, author, description, or any
// representation element, all case-folded substring matches.
func matchesSearch(b Book, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle) {
		return true
	}
	for _, rep := range b.LGBTQRepresentation {
		if strings.Contains(strings.ToLower(rep), needle) {
			return true
		}
	}
	return false
}

func matchesStatus(b Book, o Overlay, s Status) bool {
	switch s {
	case StatusRead:
		return o.ReadIDs[b.ID]
	case StatusUnread:
		return !o.ReadIDs[b.ID]
	default:
		return true
	}
}

func matchesRepresentation(b Book, rep string) bool {
	if rep == FilterAll || rep == "" {
		return true
	}
	for _, r := range b.LGBTQRepresentation {
		if r == rep {
			return true
		}
	}
	return false
}

func matchesGenre(b Book, genre string) bool {
	return genre == FilterAll || genre == "" || b.Genre == genre
}

// sortBooks orders books in place. The sort is stable so that equal keys
// retain their pre-sort relative order. Unrecognized keys leave the order
// untouched.
func sortBooks(books []Book, key SortKey) {
	switch key {
	case SortTitle:
		col := newCollator()
		sort.SliceStable(books, func(i, j int) bool {
			return col.CompareString(books[i].Title, books[j].Title) < 0
		})
	case SortAuthor:
		col := newCollator()
		sort.SliceStable(books, func(i, j int) bool {
			return col.CompareString(books[i].Author, books[j].Author) < 0
		})
	case SortRatingHigh:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].AverageRating > books[j].AverageRating
		})
	case SortRatingLow:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].AverageRating < books[j].AverageRating
		})
	case SortYearNew:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].PublishYear > books[j].PublishYear
		})
	case SortYearOld:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].PublishYear < books[j].PublishYear
		})
	}
}

// DisplayRating is the rating shown for a book: the user's own rating when
// present, otherwise the catalog's baseline average.
func DisplayRating(b Book, o Overlay) float64 {
	if r, ok := o.Ratings[b.ID]; ok {
		return float64(r)
	}
	return b.AverageRating
}

// StarGlyphs renders a rating as five star positions: full stars, one half
// star when the fractional part is at least 0.5, empty stars for the rest.
func StarGlyphs(rating float64) string {
	full := int(math.Floor(rating))
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	half := 0
	if full < 5 && rating-math.Floor(rating) >= 0.5 {
		half = 1
	}
	empty := 5 - full - half

	var sb strings.Builder
	for i := 0; i < full; i++ {
		sb.WriteRune('★')
	}
	if half == 1 {
		sb.WriteRune('⯨')
	}
	for i := 0; i < empty; i++ {
		sb.WriteRune('☆')
	}
	return sb.String()
}
