package pipeline

import (
	"context"
	"time"

	"github.com/sentinelcare/pulse/internal/riskmodel"
	"github.com/sentinelcare/pulse/internal/vitals"
)

// ModelScorer scores readings against the in-process risk model. It is
// stateless and never fails once the model is loaded.
type ModelScorer struct {
	model *riskmodel.Model
}

// NewModelScorer wraps a loaded model as a Scorer.
func NewModelScorer(model *riskmodel.Model) *ModelScorer {
	return &ModelScorer{model: model}
}

// Score implements Scorer.
func (s *ModelScorer) Score(_ context.Context, r *vitals.Reading) (*Assessment, error) {
	prob, label := s.model.Score(r)
	return &Assessment{
		PatientID:    r.PatientID,
		RiskScore:    prob,
		RiskLabel:    label,
		ModelVersion: s.model.Version(),
		GeneratedAt:  time.Now().UTC(),
	}, nil
}
