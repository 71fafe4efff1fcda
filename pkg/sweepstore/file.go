package sweepstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// runFile is the on-disk shape of a Run plus its claim cursor.
type runFile struct {
	Run
	Claimed uint64 `json:"claimed"`
}

// FileStore is a file-based Store for a single CLI process driving a
// sweep, mirroring the teacher's session.FileStore one-JSON-file-per-
// record layout.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
}

// NewFileStore creates a file-based sweepstore rooted at baseDir,
// creating it if necessary.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create sweepstore dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) runPath(runID string) string {
	return filepath.Join(s.baseDir, runID+".json")
}

func (s *FileStore) readLocked(runID string) (*runFile, error) {
	data, err := os.ReadFile(s.runPath(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read run file: %w", err)
	}
	var rf runFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse run file: %w", err)
	}
	return &rf, nil
}

func (s *FileStore) writeLocked(rf *runFile) error {
	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run file: %w", err)
	}
	return os.WriteFile(s.runPath(rf.Run.ID), data, 0644)
}

func (s *FileStore) CreateRun(ctx context.Context, digest string, splittingCandidates, packingCandidates uint64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	rf := &runFile{
		Run: Run{
			ID:                  uuid.NewString(),
			Digest:              digest,
			SplittingCandidates: splittingCandidates,
			PackingCandidates:   packingCandidates,
			Status:              StatusRunning,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
	}
	if err := s.writeLocked(rf); err != nil {
		return nil, err
	}
	run := rf.Run
	return &run, nil
}

func (s *FileStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rf, err := s.readLocked(runID)
	if err != nil {
		return nil, err
	}
	run := rf.Run
	return &run, nil
}

func (s *FileStore) ClaimNext(ctx context.Context, runID string) (splittingID, packingID uint64, done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rf, err := s.readLocked(runID)
	if err != nil {
		return 0, 0, false, err
	}
	if rf.Claimed >= rf.Run.Total() {
		return 0, 0, true, nil
	}
	index := rf.Claimed
	rf.Claimed++
	rf.Run.UpdatedAt = time.Now()
	if err := s.writeLocked(rf); err != nil {
		return 0, 0, false, err
	}
	splittingID, packingID = rf.Run.DecodeIndex(index)
	return splittingID, packingID, false, nil
}

func (s *FileStore) Claimed(ctx context.Context, runID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rf, err := s.readLocked(runID)
	if err != nil {
		return 0, err
	}
	return rf.Claimed, nil
}

func (s *FileStore) SetStatus(ctx context.Context, runID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rf, err := s.readLocked(runID)
	if err != nil {
		return err
	}
	rf.Run.Status = status
	rf.Run.UpdatedAt = time.Now()
	return s.writeLocked(rf)
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
