// Package riskmodel loads a fixed-coefficient model artifact and performs
// logistic scoring of vital-sign readings.
package riskmodel

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Labels produced by Score.
const (
	LabelHigh   = "high"
	LabelNormal = "normal"
)

// ArtifactError reports a missing or malformed model artifact. It is raised
// only at load time; a loaded model cannot fail to score.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("model artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// FeatureSource supplies named measurements to Score. Features the source
// does not know contribute zero.
type FeatureSource interface {
	Feature(name string) (float64, bool)
}

// Model is a loaded artifact. It is read-only after Load and safe to share
// across concurrent evaluations without locking.
type Model struct {
	version   string
	intercept float64
	weights   map[string]float64
	threshold float64
}

// artifact is the on-disk JSON shape. Pointers distinguish absent keys from
// zero values so absent keys can take their documented defaults. Unknown
// top-level keys are ignored.
type artifact struct {
	Version   *string            `json:"version"`
	Intercept *float64           `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
	Threshold *float64           `json:"threshold"`
}

// Load reads and validates a model artifact. Missing keys default to:
// version "unknown", intercept 0.0, weights empty, threshold 0.5.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path is from trusted config, not user input
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &ArtifactError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	m := &Model{
		version:   "unknown",
		intercept: 0.0,
		weights:   make(map[string]float64, len(a.Weights)),
		threshold: 0.5,
	}
	if a.Version != nil {
		m.version = *a.Version
	}
	if a.Intercept != nil {
		m.intercept = *a.Intercept
	}
	for name, w := range a.Weights {
		m.weights[name] = w
	}
	if a.Threshold != nil {
		m.threshold = *a.Threshold
	}

	if m.threshold < 0 || m.threshold > 1 {
		return nil, &ArtifactError{Path: path, Err: fmt.Errorf("threshold %v out of range [0,1]", m.threshold)}
	}

	return m, nil
}

// Version reports the artifact version string.
func (m *Model) Version() string { return m.version }

// Threshold reports the decision threshold.
func (m *Model) Threshold() float64 { return m.threshold }

// Score computes the risk probability and binary label for the given
// features: z = intercept + sum(weight[f] * feature(f)) over the artifact's
// declared weight keys, probability = logistic(z). Features absent from the
// source contribute zero, never an error.
func (m *Model) Score(features FeatureSource) (prob float64, label string) {
	z := m.intercept
	for name, weight := range m.weights {
		v, _ := features.Feature(name)
		z += weight * v
	}
	prob = logistic(z)
	label = LabelNormal
	if prob >= m.threshold {
		label = LabelHigh
	}
	return prob, label
}

// logistic computes 1/(1+e^-z) without overflowing for large |z|. The result
// lands in [0,1] by construction.
func logistic(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
