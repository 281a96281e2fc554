package db

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "predictions.db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecentPredictions(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		err := store.SavePrediction(PredictionRecord{
			ID:              id,
			OrbitalPeriod:   365.25,
			TransitDuration: 1.5,
			PlanetaryRadius: 2.2,
			RawLabel:        "CONFIRMED",
			Category:        "Confirmed Planet",
			Confidence:      0.75,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.RecentPredictions(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	// Newest first.
	if records[0].ID != "third" || records[2].ID != "first" {
		t.Fatalf("unexpected order: %q, %q, %q", records[0].ID, records[1].ID, records[2].ID)
	}

	rec := records[0]
	if rec.OrbitalPeriod != 365.25 || rec.TransitDuration != 1.5 || rec.PlanetaryRadius != 2.2 {
		t.Fatalf("unexpected features: %+v", rec)
	}
	if rec.RawLabel != "CONFIRMED" || rec.Category != "Confirmed Planet" || rec.Confidence != 0.75 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.CreatedAt.Unix() != base.Add(2*time.Minute).Unix() {
		t.Fatalf("unexpected timestamp: %v", rec.CreatedAt)
	}
}

func TestRecentPredictionsLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.SavePrediction(PredictionRecord{
			ID:              string(rune('a' + i)),
			OrbitalPeriod:   1,
			TransitDuration: 1,
			PlanetaryRadius: 1,
			Category:        "Candidate Planet",
			CreatedAt:       base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.RecentPredictions(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "e" {
		t.Fatalf("expected newest record first, got %q", records[0].ID)
	}
}

func TestSavePredictionWithoutRawLabel(t *testing.T) {
	store := openTestStore(t)

	err := store.SavePrediction(PredictionRecord{
		ID:              "degraded",
		OrbitalPeriod:   1,
		TransitDuration: 1,
		PlanetaryRadius: 1,
		Category:        "Candidate Planet",
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := store.RecentPredictions(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].RawLabel != "" {
		t.Fatalf("expected empty raw label, got %q", records[0].RawLabel)
	}
}

func TestRecentPredictionsEmpty(t *testing.T) {
	store := openTestStore(t)
	records, err := store.RecentPredictions(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestStoreNilSafety(t *testing.T) {
	var store *Store
	if err := store.SavePrediction(PredictionRecord{}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := store.RecentPredictions(1); err == nil {
		t.Fatal("expected error for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
