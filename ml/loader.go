package ml

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LoadModel reads a model artifact from disk and returns an evaluator
// for it. Only tree ensembles are supported.
func LoadModel(path string) (PriceModel, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact TreeEnsemble
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	switch artifact.ModelType {
	case "tree_ensemble":
	default:
		return nil, fmt.Errorf("unsupported model type %q", artifact.ModelType)
	}
	want := FeatureNames()
	if len(artifact.Features) != len(want) {
		return nil, fmt.Errorf("model artifact declares %d features, expected %d", len(artifact.Features), len(want))
	}
	// The encoder emits columns in a fixed order; an artifact trained on a
	// different layout would mismap every feature, so the order must match.
	for i, name := range artifact.Features {
		if name != want[i] {
			return nil, fmt.Errorf("model artifact feature %d is %q, expected %q", i, name, want[i])
		}
	}
	if len(artifact.Trees) == 0 {
		return nil, fmt.Errorf("model artifact contains no trees")
	}
	return &artifact, nil
}

// EnsureModel downloads the artifact to path when it does not exist yet.
// A URL is optional; without one a missing file is an error at load time.
func EnsureModel(url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: unexpected status %s", resp.Status)
	}

	// Write to a temp file first so a failed download never leaves a
	// truncated artifact behind.
	tmp, err := os.CreateTemp(filepath.Dir(path), "model-*.json")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
