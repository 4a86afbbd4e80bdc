package evalapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sentinelcare/pulse/internal/authmw"
	"github.com/sentinelcare/pulse/internal/pipeline"
	"github.com/sentinelcare/pulse/internal/vitals"
)

func validRiskHint(hint string) bool {
	switch hint {
	case "normal", "moderate", "high":
		return true
	default:
		return false
	}
}

func (a *API) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	riskHint := r.URL.Query().Get("risk")
	if riskHint == "" {
		riskHint = "normal"
	}
	if !validRiskHint(riskHint) {
		writeError(w, http.StatusUnprocessableEntity, "risk must be one of normal, moderate, high")
		return
	}

	// An optional JSON body supplies the reading directly; otherwise the
	// pipeline requests a synthetic one from the vitals collaborator.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var reading *vitals.Reading
	if len(bytes.TrimSpace(body)) > 0 {
		var rd vitals.Reading
		if err := json.Unmarshal(body, &rd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if rd.PatientID == "" {
			rd.PatientID = patientID
		}
		if err := rd.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		patientID = rd.PatientID
		reading = &rd
	}

	if patientID == "" {
		writeError(w, http.StatusUnprocessableEntity, "patient_id is required")
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("pulse.patient.id", patientID),
		attribute.String("pulse.risk_hint", riskHint),
	)

	actor := authmw.ActorFromContext(r.Context())

	result, err := a.svc.Evaluate(r.Context(), &pipeline.EvaluateRequest{
		PatientID: patientID,
		RiskHint:  riskHint,
		DeviceID:  actor.Subject,
		Reading:   reading,
		Subject:   actor.Subject,
		ActorRole: actor.Role,
	})
	if err != nil {
		a.logger.Error(r.Context(), err, "evaluation failed", "patient_id", patientID)
		writeFatalError(w, err)
		return
	}

	span.SetAttributes(attribute.String("pulse.verdict.severity", string(result.Verdict.Severity)))

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleIngestVitals(w http.ResponseWriter, r *http.Request) {
	var reading vitals.Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := reading.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	actor := authmw.ActorFromContext(r.Context())

	if err := a.svc.IngestReading(r.Context(), &reading, actor.Subject, actor.Role); err != nil {
		a.logger.Error(r.Context(), err, "vitals ingest failed", "patient_id", reading.PatientID)
		writeFatalError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
