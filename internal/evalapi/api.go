// Package evalapi exposes the evaluation pipeline over HTTP.
package evalapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/sentinelcare/pulse/internal/pipeline"
	"github.com/sentinelcare/pulse/internal/vitals"
)

// PipelineService defines the business operations evalapi needs.
type PipelineService interface {
	Evaluate(ctx context.Context, req *pipeline.EvaluateRequest) (*pipeline.Result, error)
	IngestReading(ctx context.Context, r *vitals.Reading, subject, actorRole string) error
	Get(ctx context.Context, id string) (*pipeline.Run, bool, error)
	LatestByPatient(ctx context.Context, patientID string) (*pipeline.Run, bool, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger log.Logger
	svc    PipelineService
}

// New creates a new API handler.
func New(logger log.Logger, svc PipelineService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("pipeline service is required"))
	}
	return &API{
		logger: logger,
		svc:    svc,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluations", a.handleEvaluate)
		r.Get("/evaluations/{id}", a.handleGetRun)
		r.Get("/patients/{patientID}/evaluations/latest", a.handleLatestRun)
		r.Post("/vitals", a.handleIngestVitals)
	})
}

func (a *API) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("pulse.run.id", id))

	run, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get run record", "id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	span.SetAttributes(attribute.String("pulse.run.status", string(run.Status)))

	writeJSON(w, http.StatusOK, run)
}

func (a *API) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("pulse.patient.id", patientID))

	run, ok, err := a.svc.LatestByPatient(r.Context(), patientID)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get latest run", "patient_id", patientID)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeFatalError maps a fatal pipeline error to the HTTP response: a
// collaborator rejection surfaces with its original status and body, a
// transport failure as 502.
func writeFatalError(w http.ResponseWriter, err error) {
	var ce *pipeline.CollabError
	if errors.As(err, &ce) {
		writeError(w, ce.StatusCode, ce.Body)
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
