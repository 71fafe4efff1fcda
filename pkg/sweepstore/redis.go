package sweepstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore coordinates claims across machines using INCR for the
// atomic claim counter — the same operation a rate limiter would use,
// repurposed here to hand out one sweep index per call exactly once.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore dials addr and returns a Store backed by it.
func NewRedisStore(addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) metaKey(runID string) string  { return "sweepstore:run:" + runID }
func (s *RedisStore) claimKey(runID string) string { return "sweepstore:claimed:" + runID }

func (s *RedisStore) CreateRun(ctx context.Context, digest string, splittingCandidates, packingCandidates uint64) (*Run, error) {
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
	data, err := json.Marshal(run)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.metaKey(run.ID), data, 0).Err(); err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, s.claimKey(run.ID), 0, 0).Err(); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *RedisStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	data, err := s.client.Get(ctx, s.metaKey(runID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *RedisStore) ClaimNext(ctx context.Context, runID string) (splittingID, packingID uint64, done bool, err error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return 0, 0, false, err
	}
	next, err := s.client.Incr(ctx, s.claimKey(runID)).Result()
	if err != nil {
		return 0, 0, false, err
	}
	index := uint64(next) - 1
	if index >= run.Total() {
		return 0, 0, true, nil
	}
	splittingID, packingID = run.DecodeIndex(index)
	return splittingID, packingID, false, nil
}

func (s *RedisStore) Claimed(ctx context.Context, runID string) (uint64, error) {
	n, err := s.client.Get(ctx, s.claimKey(runID)).Uint64()
	if err == redis.Nil {
		return 0, ErrNotFound
	}
	return n, err
}

func (s *RedisStore) SetStatus(ctx context.Context, runID string, status Status) error {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	run.Status = status
	run.UpdatedAt = time.Now()
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.metaKey(runID), data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
