package tracker

import "strings"

// Status restricts the visible list by read state.
type Status string

const (
	StatusAll    Status = "all"
	StatusRead   Status = "read"
	StatusUnread Status = "unread"
)

// SortKey selects the ordering of the visible list.
type SortKey string

const (
	SortTitle      SortKey = "title"
	SortAuthor     SortKey = "author"
	SortRatingHigh SortKey = "rating-high"
	SortRatingLow  SortKey = "rating-low"
	SortYearNew    SortKey = "year-new"
	SortYearOld    SortKey = "year-old"
)

// FilterAll matches every book for the representation and genre filters.
const FilterAll = "all"

// Query is the current set of user-chosen filter and sort parameters.
// Unrecognized values fail open: they behave like "all" (or a no-op sort)
// instead of rejecting the action.
type Query struct {
	Search         string
	Status         Status
	Representation string
	Genre          string
	Sort           SortKey
}

// DefaultQuery returns the query used at session start: no search text,
// every filter set to all, sorted by title.
func DefaultQuery() Query {
	return Query{
		Status:         StatusAll,
		Representation: FilterAll,
		Genre:          FilterAll,
		Sort:           SortTitle,
	}
}

// Reset restores all fields to their defaults.
func (q *Query) Reset() { *q = DefaultQuery() }

// SetSearch replaces the search text. Trimming and case folding happen at
// match time, not here.
func (q *Query) SetSearch(text string) { q.Search = text }

// SetStatus parses a status filter value, falling back to all.
func (q *Query) SetStatus(value string) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusRead:
		q.Status = StatusRead
	case StatusUnread:
		q.Status = StatusUnread
	default:
		q.Status = StatusAll
	}
}

// SetSort stores the sort key as given. Keys outside the known set leave the
// filtered order untouched when sorting.
func (q *Query) SetSort(value string) {
	q.Sort = SortKey(strings.ToLower(strings.TrimSpace(value)))
}
