package tracker

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *OverlayStore {
	t.Helper()
	dir := t.TempDir()
	store, err := NewOverlayStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadOverlayFirstRun(t *testing.T) {
	store := tempStore(t)
	o := store.LoadOverlay()
	if len(o.ReadIDs) != 0 || len(o.Ratings) != 0 {
		t.Fatalf("first run overlay not empty: %+v", o)
	}
}

func TestSaveAndReloadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	store, err := NewOverlayStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	o := NewOverlay()
	o.ReadIDs[3] = true
	o.ReadIDs[7] = true
	o.Ratings[3] = 4
	if err := store.SaveOverlay(o); err != nil {
		t.Fatalf("save: %v", err)
	}
	store.Close()

	// Re-open: the overlay must survive the process boundary.
	store2, err := NewOverlayStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store2.Close()

	got := store2.LoadOverlay()
	if !got.ReadIDs[3] || !got.ReadIDs[7] || len(got.ReadIDs) != 2 {
		t.Fatalf("read ids lost: %+v", got.ReadIDs)
	}
	if got.Ratings[3] != 4 || len(got.Ratings) != 1 {
		t.Fatalf("ratings lost: %+v", got.Ratings)
	}
}

// Corrupted storage must look like a first run, not fail.
func TestCorruptedStorageYieldsEmptyOverlay(t *testing.T) {
	store := tempStore(t)
	if _, err := store.db.Exec(
		`INSERT INTO user_data(key,value) VALUES(?, ?), (?, ?)`,
		keyReadBooks, `{{{not json`, keyUserRatings, `[5, "wat"]`); err != nil {
		t.Fatalf("plant corruption: %v", err)
	}

	o := store.LoadOverlay()
	if len(o.ReadIDs) != 0 || len(o.Ratings) != 0 {
		t.Fatalf("corrupted storage should yield empty overlay, got %+v", o)
	}
}

// Corruption of one entry must not take the other down with it.
func TestPartialCorruptionKeepsGoodEntry(t *testing.T) {
	store := tempStore(t)
	if _, err := store.db.Exec(
		`INSERT INTO user_data(key,value) VALUES(?, ?), (?, ?)`,
		keyReadBooks, `[1, 2]`, keyUserRatings, `broken`); err != nil {
		t.Fatalf("plant corruption: %v", err)
	}

	o := store.LoadOverlay()
	if !o.ReadIDs[1] || !o.ReadIDs[2] {
		t.Fatalf("valid read ids dropped: %+v", o.ReadIDs)
	}
	if len(o.Ratings) != 0 {
		t.Fatalf("broken ratings should be empty: %+v", o.Ratings)
	}
}

func TestSaveOverlayOverwrites(t *testing.T) {
	store := tempStore(t)

	o := NewOverlay()
	o.ReadIDs[1] = true
	if err := store.SaveOverlay(o); err != nil {
		t.Fatalf("save: %v", err)
	}

	delete(o.ReadIDs, 1)
	o.Ratings[2] = 5
	if err := store.SaveOverlay(o); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got := store.LoadOverlay()
	if len(got.ReadIDs) != 0 {
		t.Fatalf("stale read ids after overwrite: %+v", got.ReadIDs)
	}
	if got.Ratings[2] != 5 {
		t.Fatalf("ratings not written: %+v", got.Ratings)
	}
}
