package pipeline

import (
	"context"
	"fmt"

	"github.com/sentinelcare/pulse/internal/vitals"
)

// CollabError carries a collaborator's HTTP status and response body so a
// fatal stage failure surfaces to the caller unchanged.
type CollabError struct {
	Collaborator string
	StatusCode   int
	Body         string
}

func (e *CollabError) Error() string {
	return fmt.Sprintf("%s collaborator returned %d: %s", e.Collaborator, e.StatusCode, e.Body)
}

// VitalsSource produces and records readings on behalf of the vitals
// collaborator.
type VitalsSource interface {
	ProduceSynthetic(ctx context.Context, patientID, riskHint, deviceID string) (*vitals.Reading, error)
	Record(ctx context.Context, r *vitals.Reading) error
}

// Scorer produces a risk assessment for a reading. The in-process model
// scorer never fails; a remote scorer surfaces its error through the same
// fatal pass-through policy as reading acquisition.
type Scorer interface {
	Score(ctx context.Context, r *vitals.Reading) (*Assessment, error)
}

// AlertStore owns alerts once created. A Create failure is the accepted-loss
// outcome: the alert is dropped, never retried or queued.
type AlertStore interface {
	Create(ctx context.Context, a *Alert) (*Alert, error)
}

// AuditSink receives best-effort audit records. Implementations must never
// block the caller; loss under collaborator unavailability is accepted.
type AuditSink interface {
	Record(action, subject, actorRole, detail string)
}
