package sweepstore

import (
	"context"
	"time"

	"github.com/maeri-project/timeloop/pkg/errors"
)

// Status is a sweep run's lifecycle state.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one sweep over a single (workload, mapping, arch) digest's
// flattened (splitting_id, packing_id) space.
type Run struct {
	ID                  string
	Digest              string
	SplittingCandidates uint64
	PackingCandidates   uint64
	Status              Status
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Total returns the number of (splitting_id, packing_id) pairs in the run.
func (r *Run) Total() uint64 {
	return r.SplittingCandidates * r.PackingCandidates
}

// DecodeIndex turns a flattened claim index into the (splitting_id,
// packing_id) pair it names, splitting_id varying slower than
// packing_id — the same row-major order legalize.Legal callers enumerate
// in by hand when not using a Store.
func (r *Run) DecodeIndex(index uint64) (splittingID, packingID uint64) {
	return index / r.PackingCandidates, index % r.PackingCandidates
}

// Store coordinates claims against one or more Runs. Implementations
// must make ClaimNext safe for concurrent callers across the full set of
// workers sharing a run, including callers in different processes for
// the Redis and Mongo backends.
type Store interface {
	// CreateRun registers a new run over digest's candidate space and
	// returns it with a generated ID and StatusRunning.
	CreateRun(ctx context.Context, digest string, splittingCandidates, packingCandidates uint64) (*Run, error)

	// GetRun looks up a run by ID.
	GetRun(ctx context.Context, runID string) (*Run, error)

	// ClaimNext atomically reserves the next unclaimed index in runID's
	// candidate space and returns the (splitting_id, packing_id) pair it
	// decodes to. done is true once every index has been claimed.
	ClaimNext(ctx context.Context, runID string) (splittingID, packingID uint64, done bool, err error)

	// Claimed returns how many indices have been claimed so far.
	Claimed(ctx context.Context, runID string) (uint64, error)

	// SetStatus updates a run's lifecycle state.
	SetStatus(ctx context.Context, runID string, status Status) error

	// Close releases any resources the backend holds open.
	Close() error
}

// ErrNotFound is returned by GetRun when no run with the given ID exists.
var ErrNotFound = errors.New(errors.ErrCodeInternal, "sweepstore: run not found")
