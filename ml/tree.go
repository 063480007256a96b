package ml

import (
	"errors"
	"fmt"
	"math"
)

// TreeNode is one node of a flattened regression tree. Children are
// indices into the tree's node slice; leaves carry the predicted value in
// the model's target space.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// RegressionTree evaluates a single flattened tree.
type RegressionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *RegressionTree) Predict(vector []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.New("tree has no nodes")
	}
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(vector) {
			return 0, fmt.Errorf("feature index %d out of range", node.FeatureIdx)
		}
		if vector[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
}

// TreeEnsemble is the in-memory form of a model artifact: a set of
// regression trees averaged in the target space, with the training-time
// feature layout and target transform recorded alongside.
type TreeEnsemble struct {
	Name            string           `json:"name"`
	ModelType       string           `json:"model_type"`
	TrainedAt       string           `json:"trained_at,omitempty"`
	Features        []string         `json:"feature_names"`
	TargetTransform string           `json:"target_transform"`
	Trees           []RegressionTree `json:"trees"`
}

func (m *TreeEnsemble) FeatureNames() []string {
	return append([]string(nil), m.Features...)
}

// Predict averages the trees and inverts the target transform. The vector
// must match the artifact's declared feature layout exactly.
func (m *TreeEnsemble) Predict(vector []float64) (Prediction, error) {
	if len(m.Trees) == 0 {
		return Prediction{}, errors.New("model has no trees")
	}
	if len(vector) != len(m.Features) {
		return Prediction{}, fmt.Errorf("expected %d features, got %d", len(m.Features), len(vector))
	}

	sum := 0.0
	low := math.MaxFloat64
	high := -math.MaxFloat64
	for i := range m.Trees {
		value, err := m.Trees[i].Predict(vector)
		if err != nil {
			return Prediction{}, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += value
		if value < low {
			low = value
		}
		if value > high {
			high = value
		}
	}
	mean := sum / float64(len(m.Trees))

	price, err := m.invertTarget(mean)
	if err != nil {
		return Prediction{}, err
	}
	lowPrice, err := m.invertTarget(low)
	if err != nil {
		return Prediction{}, err
	}
	highPrice, err := m.invertTarget(high)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Price: price, Low: lowPrice, High: highPrice}, nil
}

func (m *TreeEnsemble) invertTarget(value float64) (float64, error) {
	switch m.TargetTransform {
	case "", "none":
		return value, nil
	case "log1p":
		// Training targets were log1p(price); undo it here.
		return math.Expm1(value), nil
	default:
		return 0, fmt.Errorf("unsupported target transform %q", m.TargetTransform)
	}
}
