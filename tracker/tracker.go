package tracker

import (
	"log"
	"strings"
	"sync"
)

// Tracker owns the session state: the immutable catalog, the user overlay
// and its durable store, and the current query. All mutation goes through
// the handler methods below; the rendering layer is a pure consumer of the
// View each handler returns. A mutex serializes the handlers because the
// debounced search callback arrives on a timer goroutine.
type Tracker struct {
	mu      sync.Mutex
	catalog *Catalog
	store   *OverlayStore
	overlay Overlay
	query   Query
}

// View is what the renderer consumes after any state change.
type View struct {
	Books []Book
	Stats Stats
	Query Query
}

// NewTracker loads the catalog from source and the overlay from the SQLite
// database at dbPath. A catalog failure is fatal; a missing or corrupted
// overlay is not.
func NewTracker(source, dbPath string) (*Tracker, error) {
	catalog, err := LoadCatalog(source)
	if err != nil {
		return nil, err
	}
	store, err := NewOverlayStore(dbPath)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		catalog: catalog,
		store:   store,
		overlay: store.LoadOverlay(),
		query:   DefaultQuery(),
	}, nil
}

// Close closes the underlying overlay store.
func (t *Tracker) Close() error { return t.store.Close() }

// Catalog exposes the immutable catalog.
func (t *Tracker) Catalog() *Catalog { return t.catalog }

// Overlay returns a snapshot of the current overlay, so renderers never
// read the live maps while a handler on another goroutine writes them.
func (t *Tracker) Overlay() Overlay {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := NewOverlay()
	for id := range t.overlay.ReadIDs {
		snap.ReadIDs[id] = true
	}
	for id, r := range t.overlay.Ratings {
		snap.Ratings[id] = r
	}
	return snap
}

// Query exposes the current query.
func (t *Tracker) Query() Query {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// View recomputes the visible list and stats for the current state.
func (t *Tracker) View() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view()
}

// view assumes t.mu is held.
func (t *Tracker) view() View {
	return View{
		Books: Visible(t.catalog, t.overlay, t.query),
		Stats: ComputeStats(t.catalog, t.overlay),
		Query: t.query,
	}
}

// ------------------ Query handlers ------------------

func (t *Tracker) OnSearchChanged(text string) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.SetSearch(text)
	return t.view()
}

func (t *Tracker) OnStatusChanged(value string) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.SetStatus(value)
	return t.view()
}

// OnRepresentationChanged accepts a representation category. Values outside
// the catalog's set fail open to all.
func (t *Tracker) OnRepresentationChanged(value string) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Representation = normalizeChoice(value, t.catalog.Representations())
	return t.view()
}

// OnGenreChanged accepts a genre. Values outside the catalog's set fail open
// to all.
func (t *Tracker) OnGenreChanged(value string) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Genre = normalizeChoice(value, t.catalog.Genres())
	return t.view()
}

func (t *Tracker) OnSortChanged(key string) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.SetSort(key)
	return t.view()
}

// OnReset restores the query to its defaults.
func (t *Tracker) OnReset() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Reset()
	return t.view()
}

func normalizeChoice(value string, domain []string) string {
	value = strings.TrimSpace(value)
	for _, d := range domain {
		if strings.EqualFold(d, value) {
			return d
		}
	}
	return FilterAll
}

// ------------------ Overlay handlers ------------------

// OnToggleRead flips the read flag for id and saves the overlay.
func (t *Tracker) OnToggleRead(id int64) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.overlay.ReadIDs[id] {
		delete(t.overlay.ReadIDs, id)
	} else {
		t.overlay.ReadIDs[id] = true
	}
	t.saveOverlay()
	return t.view()
}

// OnSetRating records a 1-5 star rating for id. Rating the book at its
// current value clears the rating again; out-of-range values are ignored.
func (t *Tracker) OnSetRating(id int64, rating int) View {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rating < 1 || rating > 5 {
		return t.view()
	}
	if t.overlay.Ratings[id] == rating {
		delete(t.overlay.Ratings, id)
	} else {
		t.overlay.Ratings[id] = rating
	}
	t.saveOverlay()
	return t.view()
}

// saveOverlay writes the overlay back synchronously; it assumes t.mu is
// held. A failed write keeps the in-memory mutation and logs; the session
// continues.
func (t *Tracker) saveOverlay() {
	if err := t.store.SaveOverlay(t.overlay); err != nil {
		log.Printf("save overlay: %v", err)
	}
}

// ------------------ Renderer contract ------------------

// IsRead reports whether the user marked id as read.
func (t *Tracker) IsRead(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.overlay.ReadIDs[id]
}

// DisplayRating returns the rating shown for id: the user's own rating when
// present, otherwise the catalog's baseline average. Unknown ids yield 0.
func (t *Tracker) DisplayRating(id int64) float64 {
	b, ok := t.catalog.Get(id)
	if !ok {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return DisplayRating(b, t.overlay)
}
