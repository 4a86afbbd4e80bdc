package vitalsclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentinelcare/pulse/internal/pipeline"
	"github.com/sentinelcare/pulse/internal/vitals"
)

func TestProduceSynthetic(t *testing.T) {
	t.Parallel()

	want := vitals.Reading{
		PatientID:       "p-1",
		HeartRate:       128,
		RespiratoryRate: 27,
		SystolicBP:      84,
		DiastolicBP:     48,
		SpO2:            87,
		TemperatureC:    39.4,
		DeviceID:        "monitor-7",
		RecordedAt:      time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/vitals/generate" {
			t.Errorf("path = %q, want /vitals/generate", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("patient_id") != "p-1" {
			t.Errorf("patient_id = %q, want p-1", q.Get("patient_id"))
		}
		if q.Get("risk") != "high" {
			t.Errorf("risk = %q, want high", q.Get("risk"))
		}
		if q.Get("device_id") != "monitor-7" {
			t.Errorf("device_id = %q, want monitor-7", q.Get("device_id"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.ProduceSynthetic(context.Background(), "p-1", "high", "monitor-7")
	if err != nil {
		t.Fatalf("ProduceSynthetic() error = %v", err)
	}
	if got.PatientID != want.PatientID || got.HeartRate != want.HeartRate || got.SpO2 != want.SpO2 {
		t.Errorf("reading = %+v, want %+v", got, want)
	}
}

func TestProduceSynthetic_OmitsEmptyDeviceID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("device_id") {
			t.Error("device_id present, want omitted")
		}
		_ = json.NewEncoder(w).Encode(vitals.Reading{PatientID: "p-1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ProduceSynthetic(context.Background(), "p-1", "normal", ""); err != nil {
		t.Fatalf("ProduceSynthetic() error = %v", err)
	}
}

func TestProduceSynthetic_CollaboratorRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"unknown patient"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ProduceSynthetic(context.Background(), "p-x", "normal", "")

	var ce *pipeline.CollabError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CollabError", err)
	}
	if ce.Collaborator != "vitals" {
		t.Errorf("Collaborator = %q, want vitals", ce.Collaborator)
	}
	if ce.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", ce.StatusCode, http.StatusNotFound)
	}
}

func TestProduceSynthetic_TransportFailure(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1")
	_, err := c.ProduceSynthetic(context.Background(), "p-1", "normal", "")
	if err == nil {
		t.Fatal("error = nil, want transport error")
	}
	var ce *pipeline.CollabError
	if errors.As(err, &ce) {
		t.Errorf("error = CollabError, want plain transport error")
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	var got vitals.Reading
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/vitals" {
			t.Errorf("path = %q, want /vitals", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL)
	r := &vitals.Reading{PatientID: "p-1", HeartRate: 82, DeviceID: "monitor-3"}
	if err := c.Record(context.Background(), r); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got.PatientID != "p-1" || got.DeviceID != "monitor-3" {
		t.Errorf("received reading = %+v, want %+v", got, r)
	}
}

func TestRecord_CollaboratorRejection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"validation failed"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Record(context.Background(), &vitals.Reading{PatientID: "p-1"})

	var ce *pipeline.CollabError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want CollabError", err)
	}
	if ce.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want %d", ce.StatusCode, http.StatusUnprocessableEntity)
	}
}
