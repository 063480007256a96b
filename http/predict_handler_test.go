package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homeval/db"
	"homeval/ml"
	"homeval/property"
)

type fakePredictor struct {
	prediction ml.Prediction
	err        error
	lastVector []float64
}

func (f *fakePredictor) Predict(vector []float64) (ml.Prediction, error) {
	f.lastVector = vector
	if f.err != nil {
		return ml.Prediction{}, f.err
	}
	return f.prediction, nil
}

func validBody() string {
	return `{
		"property_type": "Apartment",
		"bedrooms": 3,
		"kitchen_equipped": true,
		"state": "Good",
		"facades": 2,
		"swimming_pool": false,
		"region": "Brussel",
		"municipality": "Brussel",
		"living_area": 120,
		"terrace_area": 10,
		"garden_area": 0
	}`
}

func setupPredictTest(t *testing.T, p PricePredictor) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	SetPredictor(p)
	savePrediction = func(record property.Record, prediction ml.Prediction, formatted string) error {
		return nil
	}
	queryHistory = func(limit int) ([]db.HistoryEntry, error) {
		return []db.HistoryEntry{}, nil
	}
	t.Cleanup(func() {
		SetPredictor(nil)
		savePrediction = db.SavePrediction
		queryHistory = db.QueryRecent
	})
	return mux
}

func TestHandlePredict(t *testing.T) {
	fake := &fakePredictor{prediction: ml.Prediction{Price: 285000, Low: 270000, High: 301000}}
	mux := setupPredictTest(t, fake)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody()))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["price"].(float64) != 285000 {
		t.Fatalf("unexpected price: %v", payload["price"])
	}
	if payload["price"].(float64) <= 0 {
		t.Fatalf("expected positive price")
	}
	if !strings.HasPrefix(payload["formatted_price"].(string), "€") {
		t.Fatalf("unexpected formatted price: %v", payload["formatted_price"])
	}
	if payload["size_category"].(string) != "Regular House" {
		t.Fatalf("unexpected size category: %v", payload["size_category"])
	}
	if len(fake.lastVector) != len(ml.FeatureNames()) {
		t.Fatalf("predictor received %d features, want %d", len(fake.lastVector), len(ml.FeatureNames()))
	}
}

func TestHandlePredictValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(map[string]interface{})
		wantField string
	}{
		{
			name:      "negative bedrooms",
			mutate:    func(raw map[string]interface{}) { raw["bedrooms"] = -1 },
			wantField: "bedrooms",
		},
		{
			name:      "missing living area",
			mutate:    func(raw map[string]interface{}) { delete(raw, "living_area") },
			wantField: "living_area",
		},
		{
			name:      "unknown municipality",
			mutate:    func(raw map[string]interface{}) { raw["municipality"] = "Atlantis" },
			wantField: "municipality",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupPredictTest(t, &fakePredictor{prediction: ml.Prediction{Price: 1}})

			var raw map[string]interface{}
			if err := json.Unmarshal([]byte(validBody()), &raw); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(raw)
			body, _ := json.Marshal(raw)

			req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(string(body)))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var payload map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if payload["field"] != tt.wantField {
				t.Fatalf("expected field %q, got %q", tt.wantField, payload["field"])
			}
		})
	}
}

func TestHandlePredictModelFailure(t *testing.T) {
	mux := setupPredictTest(t, &fakePredictor{err: &ml.ModelInvocationError{Err: errors.New("boom")}})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody()))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestHandlePredictWithoutModel(t *testing.T) {
	mux := setupPredictTest(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(validBody()))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHandlePredictBadBody(t *testing.T) {
	mux := setupPredictTest(t, &fakePredictor{})

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
