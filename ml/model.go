package ml

// Prediction is the model output for one request. Low and High bound the
// spread of the individual trees; Price is the ensemble estimate.
type Prediction struct {
	Price float64 `json:"price"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
}

// PriceModel is the contract the loaded artifact satisfies. The model is
// read-only after loading and safe to share across requests.
type PriceModel interface {
	Predict(vector []float64) (Prediction, error)
	FeatureNames() []string
}
