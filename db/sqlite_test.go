package db

import (
	"os"
	"path/filepath"
	"testing"

	"homeval/ml"
	"homeval/property"
)

func TestSaveAndQueryPredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeval.db")
	if err := InitDB(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close()

	record := property.Record{
		PropertyType:    "House",
		Bedrooms:        4,
		KitchenEquipped: true,
		State:           "As new",
		Facades:         3,
		SwimmingPool:    true,
		Region:          "Flanders",
		Municipality:    "Antwerpen",
		LivingArea:      240,
		TerraceArea:     30,
		GardenArea:      200,
	}
	prediction := ml.Prediction{Price: 485000, Low: 460000, High: 512000}

	if err := SavePrediction(record, prediction, "€485 000.00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := SavePrediction(record, ml.Prediction{Price: 300000, Low: 290000, High: 310000}, "€300 000.00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := QueryRecent(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	latest := entries[0]
	if latest.Price != 300000 {
		t.Fatalf("expected newest entry first, got price %v", latest.Price)
	}
	if latest.Record != record {
		t.Fatalf("record round trip mismatch: %+v", latest.Record)
	}
	if latest.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
}

func TestInitDBCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "homeval.db")
	if err := InitDB(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file at %s: %v", path, err)
	}
}

func TestQueryRecentLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homeval.db")
	if err := InitDB(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer Close()

	record := property.Record{
		PropertyType: "Apartment", Bedrooms: 1, State: "Good", Facades: 2,
		Region: "Brussel", Municipality: "Brussel", LivingArea: 45,
	}
	for i := 0; i < 5; i++ {
		if err := SavePrediction(record, ml.Prediction{Price: float64(100000 + i)}, "€"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := QueryRecent(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}
