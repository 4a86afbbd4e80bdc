package pipeline

import (
	"time"

	"github.com/sentinelcare/pulse/internal/rules"
	"github.com/sentinelcare/pulse/internal/vitals"
)

// Status tracks how an evaluation run terminated.
type Status string

const (
	// StatusCompleted means all fatal stages succeeded; the run produced an
	// assessment even if best-effort stages failed along the way.
	StatusCompleted Status = "completed"

	// StatusAborted means reading acquisition or scoring failed.
	StatusAborted Status = "aborted"
)

// Assessment is the model's verdict on one reading. Derived, never mutated
// after creation.
type Assessment struct {
	PatientID    string    `json:"patient_id"`
	RiskScore    float64   `json:"risk_score"`
	RiskLabel    string    `json:"risk_label"`
	ModelVersion string    `json:"model_version"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Verdict is the reconciled severity and its human-readable reasons.
// A severity of none always carries an empty reason list.
type Verdict struct {
	Severity rules.Severity `json:"severity"`
	Reasons  []string       `json:"reasons,omitempty"`
}

// Alert is raised once per run that reaches a non-none verdict. Ownership
// passes to the alert store collaborator as soon as Create is called.
type Alert struct {
	AlertID     string    `json:"alert_id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name,omitempty"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result is the caller-visible outcome of one completed run. Alert is nil
// both when no alert was warranted and when alert submission failed; the two
// are indistinguishable by design.
type Result struct {
	Reading    *vitals.Reading `json:"reading"`
	Assessment *Assessment     `json:"assessment"`
	Verdict    Verdict         `json:"verdict"`
	Alert      *Alert          `json:"alert,omitempty"`
}

// Run is the stored record of a finished evaluation.
type Run struct {
	ID           string         `json:"id"`
	PatientID    string         `json:"patient_id"`
	Status       Status         `json:"status"`
	Severity     rules.Severity `json:"severity"`
	RiskScore    float64        `json:"risk_score"`
	RiskLabel    string         `json:"risk_label"`
	ModelVersion string         `json:"model_version"`
	AlertID      string         `json:"alert_id,omitempty"`
	Error        string         `json:"error,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  time.Time      `json:"completed_at,omitempty"`
	Duration     float64        `json:"duration_seconds,omitempty"`
}
