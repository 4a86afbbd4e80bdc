// Package memstore provides an in-memory implementation of pipeline.Store.
package memstore

import (
	"context"
	"sync"

	"github.com/sentinelcare/pulse/internal/pipeline"
)

// Store holds run records in memory. Suitable for dev/testing.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]*pipeline.Run // run ID -> record
	latest map[string]string        // patient ID -> most recent run ID
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		runs:   make(map[string]*pipeline.Run),
		latest: make(map[string]string),
	}
}

// Get retrieves a run record by its ID. Returns a copy.
func (s *Store) Get(_ context.Context, id string) (*pipeline.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

// LatestByPatient retrieves the most recently stored run for a patient.
// Returns a copy.
func (s *Store) LatestByPatient(_ context.Context, patientID string) (*pipeline.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.latest[patientID]
	if !ok {
		return nil, false, nil
	}
	r := s.runs[id]
	cp := *r
	return &cp, true, nil
}

// Put stores a copy of the run record.
func (s *Store) Put(_ context.Context, r *pipeline.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.runs[r.ID] = &cp
	s.latest[r.PatientID] = r.ID
	return nil
}
