package pipeline

import "context"

// Store is the persistence interface for evaluation run records. Run records
// are written best-effort after a run finishes; they are outcome history,
// not intermediate pipeline state.
type Store interface {
	Get(ctx context.Context, id string) (*Run, bool, error)
	LatestByPatient(ctx context.Context, patientID string) (*Run, bool, error)
	Put(ctx context.Context, run *Run) error
}
