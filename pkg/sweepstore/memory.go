package sweepstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store, useful for tests and for a sweep
// confined to goroutines within a single run of the driver.
type MemoryStore struct {
	mu     sync.Mutex
	runs   map[string]*Run
	claims map[string]uint64
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:   make(map[string]*Run),
		claims: make(map[string]uint64),
	}
}

func (s *MemoryStore) CreateRun(ctx context.Context, digest string, splittingCandidates, packingCandidates uint64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	run := &Run{
		ID:                  uuid.NewString(),
		Digest:              digest,
		SplittingCandidates: splittingCandidates,
		PackingCandidates:   packingCandidates,
		Status:              StatusRunning,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.runs[run.ID] = run
	s.claims[run.ID] = 0
	return run, nil
}

func (s *MemoryStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *run
	return &copied, nil
}

func (s *MemoryStore) ClaimNext(ctx context.Context, runID string) (splittingID, packingID uint64, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return 0, 0, false, ErrNotFound
	}
	claimed := s.claims[runID]
	if claimed >= run.Total() {
		return 0, 0, true, nil
	}
	s.claims[runID] = claimed + 1
	run.UpdatedAt = time.Now()
	splittingID, packingID = run.DecodeIndex(claimed)
	return splittingID, packingID, false, nil
}

func (s *MemoryStore) Claimed(ctx context.Context, runID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return 0, ErrNotFound
	}
	return s.claims[runID], nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, runID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return ErrNotFound
	}
	run.Status = status
	run.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
