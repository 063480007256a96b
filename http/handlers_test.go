package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homeval/db"
	"homeval/ml"
	"homeval/property"
)

func TestHandleHealth(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestHandleSchema(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/schema", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var payload struct {
		Fields         []property.Field    `json:"fields"`
		Municipalities map[string][]string `json:"municipalities"`
		FeatureOrder   []string            `json:"feature_order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(payload.Fields) != len(property.Fields()) {
		t.Fatalf("expected %d fields, got %d", len(property.Fields()), len(payload.Fields))
	}
	if len(payload.FeatureOrder) != len(ml.FeatureNames()) {
		t.Fatalf("unexpected feature order length: %d", len(payload.FeatureOrder))
	}
	if len(payload.Municipalities["Wallonia"]) != 5 {
		t.Fatalf("unexpected Wallonia municipalities: %v", payload.Municipalities["Wallonia"])
	}
}

func TestHandleHistory(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	queryHistory = func(limit int) ([]db.HistoryEntry, error) {
		if limit != 5 {
			t.Fatalf("expected limit 5, got %d", limit)
		}
		return []db.HistoryEntry{
			{ID: 1, Price: 320000, FormattedPrice: "€320 000.00"},
		}, nil
	}
	defer func() { queryHistory = db.QueryRecent }()

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Entries []db.HistoryEntry `json:"entries"`
		Count   int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Count != 1 || payload.Entries[0].Price != 320000 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHandleIndex(t *testing.T) {
	mux := http.NewServeMux()
	RegisterHandlers(mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Property Price Predictor") {
		t.Fatal("expected page title in body")
	}
	for _, field := range property.Fields() {
		if !strings.Contains(body, field.Name) {
			t.Fatalf("form is missing field %q", field.Name)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{300000, "€300 000.00"},
		{1234567.5, "€1 234 567.50"},
		{950.4, "€950.40"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}
