package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"homeval/db"
	"homeval/logging"
	"homeval/ml"
	"homeval/monitoring"
	"homeval/property"
)

// PricePredictor is the narrow view the handlers need of the predictor
// adapter.
type PricePredictor interface {
	Predict(vector []float64) (ml.Prediction, error)
}

var (
	encoder   = ml.NewEncoder()
	predictor PricePredictor
	feed      *monitoring.FeedHub

	// Overridable in tests so handlers run without a database.
	savePrediction = db.SavePrediction
	queryHistory   = db.QueryRecent
)

// SetPredictor installs the loaded model's adapter. Until it is called
// prediction requests answer 503.
func SetPredictor(p PricePredictor) {
	predictor = p
}

// SetFeed installs the live feed hub. Optional.
func SetFeed(h *monitoring.FeedHub) {
	feed = h
}

func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", handlePredict)
	mux.HandleFunc("GET /api/history", handleHistory)
	mux.HandleFunc("GET /api/ws/feed", handleFeed)
	mux.HandleFunc("GET /{$}", handleIndex)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// handleSchema describes the form fields so clients can render and
// pre-validate the form without hardcoding the schema.
func handleSchema(w http.ResponseWriter, r *http.Request) {
	municipalities := make(map[string][]string)
	for _, region := range property.Regions() {
		municipalities[region] = property.Municipalities(region)
	}
	respondJSON(w, map[string]interface{}{
		"fields":         property.Fields(),
		"municipalities": municipalities,
		"feature_order":  ml.FeatureNames(),
	})
}

// predictResponse is the success payload of POST /api/predict.
type predictResponse struct {
	Price          float64         `json:"price"`
	PriceLow       float64         `json:"price_low"`
	PriceHigh      float64         `json:"price_high"`
	FormattedPrice string          `json:"formatted_price"`
	SizeCategory   string          `json:"size_category"`
	Record         property.Record `json:"record"`
	Timestamp      time.Time       `json:"timestamp"`
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "", "request body must be a JSON object")
		return
	}

	record, err := property.Collect(raw)
	if err != nil {
		var verr *property.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Field, verr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	vector, err := encoder.Encode(record)
	if err != nil {
		var eerr *ml.EncodingError
		if errors.As(err, &eerr) {
			respondError(w, http.StatusBadRequest, eerr.Field, eerr.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "", err.Error())
		return
	}

	if predictor == nil {
		respondError(w, http.StatusServiceUnavailable, "", "no model loaded")
		return
	}
	prediction, err := predictor.Predict(vector)
	if err != nil {
		logging.L().Error("prediction failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "", "the model failed to produce a prediction")
		return
	}

	formatted := FormatPrice(prediction.Price)
	category := property.SizeCategory(record.LivingArea)
	now := time.Now().UTC()

	// History and the live feed are best-effort; their failures never
	// fail the request itself.
	if err := savePrediction(record, prediction, formatted); err != nil {
		logging.L().Warn("failed to record prediction history", zap.Error(err))
	}
	if feed != nil {
		feed.Publish(monitoring.PredictionEvent{
			Record:         record,
			Price:          prediction.Price,
			FormattedPrice: formatted,
			SizeCategory:   category,
			Timestamp:      now,
		})
	}

	respondJSON(w, predictResponse{
		Price:          prediction.Price,
		PriceLow:       prediction.Low,
		PriceHigh:      prediction.High,
		FormattedPrice: formatted,
		SizeCategory:   category,
		Record:         record,
		Timestamp:      now,
	})
}

func handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 200 {
		limit = 200
	}

	entries, err := queryHistory(limit)
	if err != nil {
		logging.L().Error("history query failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "", "failed to load history")
		return
	}
	respondJSON(w, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

func handleFeed(w http.ResponseWriter, r *http.Request) {
	if feed == nil {
		respondError(w, http.StatusServiceUnavailable, "", "live feed not enabled")
		return
	}
	feed.HandleWS(w, r)
}
