package ml

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ModelInvocationError wraps failures inside the model itself, as opposed
// to bad input. Handlers surface it as a general failure, not a field
// error.
type ModelInvocationError struct {
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// Predictor wraps the loaded model behind a single Predict call. It owns
// no state beyond the model reference and a bounded cache of recent
// results; encoding is deterministic, so identical vectors may share a
// cached prediction. The model reference can be swapped by Reload while
// requests are in flight.
type Predictor struct {
	mu    sync.RWMutex
	model PriceModel
	cache *lru.Cache[string, Prediction]
}

func NewPredictor(model PriceModel, cacheSize int) (*Predictor, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, Prediction](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Predictor{model: model, cache: cache}, nil
}

// Predict returns the price for one encoded vector.
func (p *Predictor) Predict(vector []float64) (Prediction, error) {
	p.mu.RLock()
	model := p.model
	p.mu.RUnlock()
	if model == nil {
		return Prediction{}, &ModelInvocationError{Err: fmt.Errorf("no model loaded")}
	}

	key := cacheKey(vector)
	if cached, ok := p.cache.Get(key); ok {
		return cached, nil
	}

	prediction, err := model.Predict(vector)
	if err != nil {
		return Prediction{}, &ModelInvocationError{Err: err}
	}
	p.cache.Add(key, prediction)
	return prediction, nil
}

// Reload swaps the model and drops cached results from the old one.
func (p *Predictor) Reload(model PriceModel) {
	p.mu.Lock()
	p.model = model
	p.mu.Unlock()
	p.cache.Purge()
}

// FeatureNames reports the loaded model's expected layout, or nil when no
// model is loaded.
func (p *Predictor) FeatureNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.model == nil {
		return nil
	}
	return p.model.FeatureNames()
}

func cacheKey(vector []float64) string {
	var b strings.Builder
	for i, value := range vector {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	}
	return b.String()
}
