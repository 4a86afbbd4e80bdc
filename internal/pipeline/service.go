package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/sentinelcare/pulse/internal/rules"
	"github.com/sentinelcare/pulse/internal/vitals"
)

// EvaluateRequest is one "evaluate a patient now" invocation.
type EvaluateRequest struct {
	PatientID string
	RiskHint  string
	DeviceID  string

	// Reading, when set, is the caller-supplied reading; acquisition from
	// the vitals collaborator is skipped.
	Reading *vitals.Reading

	// PatientName is an optional display name carried onto alerts.
	PatientName string

	// Subject and ActorRole identify who triggered the run, for audit.
	Subject   string
	ActorRole string
}

// Service sequences one evaluation run: acquire reading, score, reconcile,
// conditionally alert, audit, record. Acquisition and scoring are fatal
// stages; alerting and audit are best-effort. There is no retry of fatal
// stages, the caller owns retry policy.
type Service struct {
	vitals  VitalsSource
	scorer  Scorer
	alerts  AlertStore
	audit   AuditSink
	store   Store
	logger  log.Logger
	metrics *Metrics
}

// NewService creates a new pipeline service. audit may be nil (audit
// disabled); metrics may be nil (unobserved).
func NewService(vitalsSrc VitalsSource, scorer Scorer, alerts AlertStore, audit AuditSink, store Store, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		vitals:  vitalsSrc,
		scorer:  scorer,
		alerts:  alerts,
		audit:   audit,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Evaluate runs the full pipeline for one patient. On a fatal stage failure
// it returns the collaborator's error unchanged; best-effort stage failures
// never surface here.
func (s *Service) Evaluate(ctx context.Context, req *EvaluateRequest) (*Result, error) {
	start := time.Now()
	runID := ulid.Make().String()
	L := s.logger.With("run_id", runID, "patient_id", req.PatientID)

	run := &Run{
		ID:        runID,
		PatientID: req.PatientID,
		CreatedAt: start.UTC(),
	}

	// Stage 1: acquire reading. Fatal on failure.
	reading := req.Reading
	if reading == nil {
		stageStart := time.Now()
		r, err := s.vitals.ProduceSynthetic(ctx, req.PatientID, req.RiskHint, req.DeviceID)
		s.metrics.observeStage("acquire", time.Since(stageStart).Seconds())
		if err != nil {
			return nil, s.abort(ctx, L, run, start, "acquire", err)
		}
		reading = r
	}

	// Stage 2: score. Fatal on failure.
	stageStart := time.Now()
	assessment, err := s.scorer.Score(ctx, reading)
	s.metrics.observeStage("score", time.Since(stageStart).Seconds())
	if err != nil {
		return nil, s.abort(ctx, L, run, start, "score", err)
	}
	s.metrics.observeScore(assessment.RiskScore)

	// Stage 3: evaluate bands and reconcile severities. Pure, cannot fail.
	finding := rules.Evaluate(reading)
	verdict := Reconcile(assessment.RiskLabel, finding)

	// Stage 4: conditional alert. Best-effort: a failure here drops the
	// alert and the run still completes.
	var created *Alert
	if verdict.Severity != rules.SeverityNone {
		alert := &Alert{
			AlertID:     ulid.Make().String(),
			PatientID:   req.PatientID,
			PatientName: req.PatientName,
			Severity:    string(verdict.Severity),
			Message:     verdict.Message(),
			CreatedAt:   time.Now().UTC(),
		}
		stageStart = time.Now()
		out, err := s.alerts.Create(ctx, alert)
		s.metrics.observeStage("alert", time.Since(stageStart).Seconds())
		if err != nil {
			L.Error(ctx, err, "alert submission failed, alert dropped",
				"severity", verdict.Severity,
			)
			s.metrics.incAlertDropped()
		} else {
			created = out
			s.metrics.incAlert(string(verdict.Severity))
		}
	}

	// Stage 5: audit, best-effort and non-blocking.
	if s.audit != nil {
		s.audit.Record("evaluate_run", req.Subject, req.ActorRole,
			fmt.Sprintf("patient=%s; severity=%s", req.PatientID, verdict.Severity))
	}

	run.Status = StatusCompleted
	run.Severity = verdict.Severity
	run.RiskScore = assessment.RiskScore
	run.RiskLabel = assessment.RiskLabel
	run.ModelVersion = assessment.ModelVersion
	if created != nil {
		run.AlertID = created.AlertID
	}
	run.CompletedAt = time.Now().UTC()
	run.Duration = time.Since(start).Seconds()
	s.record(ctx, L, run)
	s.metrics.observeRun(StatusCompleted, run.Duration)

	L.Info(ctx, "evaluation complete",
		"severity", verdict.Severity,
		"risk_score", assessment.RiskScore,
		"risk_label", assessment.RiskLabel,
		"alerted", created != nil,
		"duration", run.Duration,
	)

	return &Result{
		Reading:    reading,
		Assessment: assessment,
		Verdict:    verdict,
		Alert:      created,
	}, nil
}

// IngestReading validates and forwards a caller-supplied reading to the
// vitals collaborator, then audits the ingestion.
func (s *Service) IngestReading(ctx context.Context, r *vitals.Reading, subject, actorRole string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.vitals.Record(ctx, r); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Record("vitals_ingest", subject, actorRole,
			fmt.Sprintf("patient=%s; device=%s", r.PatientID, r.DeviceID))
	}
	return nil
}

// Get retrieves a run record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Run, bool, error) {
	return s.store.Get(ctx, id)
}

// LatestByPatient retrieves the most recent run record for a patient.
func (s *Service) LatestByPatient(ctx context.Context, patientID string) (*Run, bool, error) {
	return s.store.LatestByPatient(ctx, patientID)
}

// abort records a fatal stage failure and returns the collaborator's error
// unchanged so the HTTP layer can surface its status and message verbatim.
func (s *Service) abort(ctx context.Context, L log.Logger, run *Run, start time.Time, stage string, err error) error {
	run.Status = StatusAborted
	run.Error = err.Error()
	run.CompletedAt = time.Now().UTC()
	run.Duration = time.Since(start).Seconds()
	s.record(ctx, L, run)
	s.metrics.observeRun(StatusAborted, run.Duration)
	L.Error(ctx, err, "evaluation aborted", "stage", stage)
	return err
}

// record persists a run record best-effort. A store failure never alters
// the caller-visible outcome.
func (s *Service) record(ctx context.Context, L log.Logger, run *Run) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, run); err != nil {
		L.Error(ctx, err, "failed to record evaluation run")
	}
}
