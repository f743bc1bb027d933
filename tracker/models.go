package tracker

// Book is a single catalog record. The catalog is loaded once at startup and
// treated as immutable for the rest of the session.
type Book struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Author              string   `json:"author"`
	AuthorDescription   string   `json:"authorDescription"`
	Description         string   `json:"description"`
	Genre               string   `json:"genre"`
	PublishYear         int      `json:"publishYear"`
	AverageRating       float64  `json:"averageRating"`
	LGBTQRepresentation []string `json:"lgbtqRepresentation"`
	TriggerWarnings     []string `json:"triggerWarnings"`
	CoverColor          string   `json:"coverColor"`
}

// Overlay is the mutable per-user state layered on top of the catalog: which
// books are marked read and the user's personal star ratings. Absence of a
// rating means unrated; there is no zero rating.
type Overlay struct {
	ReadIDs map[int64]bool
	Ratings map[int64]int
}

// NewOverlay returns an empty overlay.
func NewOverlay() Overlay {
	return Overlay{
		ReadIDs: make(map[int64]bool),
		Ratings: make(map[int64]int),
	}
}

// Stats summarizes the catalog plus overlay for display.
type Stats struct {
	Total         int
	Read          int
	AvgUserRating float64
}
