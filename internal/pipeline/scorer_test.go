package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sentinelcare/pulse/internal/riskmodel"
)

func loadTestModel(t *testing.T) *riskmodel.Model {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	artifact := `{
		"version": "test-lr-1",
		"intercept": -3.0,
		"weights": {
			"heart_rate": 0.03,
			"respiratory_rate": 0.05,
			"systolic_bp": -0.02,
			"diastolic_bp": -0.02,
			"spo2": -0.03,
			"temperature_c": 0.1
		},
		"threshold": 0.5
	}`
	if err := os.WriteFile(path, []byte(artifact), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	m, err := riskmodel.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return m
}

func TestModelScorer(t *testing.T) {
	t.Parallel()

	scorer := NewModelScorer(loadTestModel(t))

	a, err := scorer.Score(context.Background(), abnormalReading())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if a.RiskLabel != riskmodel.LabelHigh {
		t.Errorf("RiskLabel = %q, want %q", a.RiskLabel, riskmodel.LabelHigh)
	}
	if a.PatientID != "p-1" {
		t.Errorf("PatientID = %q, want p-1", a.PatientID)
	}
	if a.ModelVersion != "test-lr-1" {
		t.Errorf("ModelVersion = %q, want test-lr-1", a.ModelVersion)
	}
	if a.RiskScore <= 0 || a.RiskScore >= 1 {
		t.Errorf("RiskScore = %v, want within (0,1)", a.RiskScore)
	}

	b, err := scorer.Score(context.Background(), stableReading())
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if b.RiskLabel != riskmodel.LabelNormal {
		t.Errorf("RiskLabel = %q, want %q", b.RiskLabel, riskmodel.LabelNormal)
	}
	if b.RiskScore >= a.RiskScore {
		t.Errorf("stable score %v not below abnormal score %v", b.RiskScore, a.RiskScore)
	}
}
