package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// voteTTL bounds how long a submission's vote set lives without retraction.
const voteTTL = 72 * time.Hour

// VoteStore counts distinct negative signals per submission. Voters are
// recorded by pseudonym so repeat signals from the same member do not
// inflate the count.
type VoteStore interface {
	// Add records a vote and returns the distinct voter count.
	Add(ctx context.Context, communityID string, submissionID uint, voter string) (int, error)
	// Clear drops the vote set for a submission.
	Clear(ctx context.Context, communityID string, submissionID uint) error
}

func voteKey(communityID string, submissionID uint) string {
	return fmt.Sprintf("votes/%s/%d", communityID, submissionID)
}

// RedisVoteStore keeps vote sets in Redis so counts survive restarts and are
// shared between instances.
type RedisVoteStore struct {
	client *redis.Client
}

// NewRedisVoteStore creates a Redis-backed vote store.
func NewRedisVoteStore(client *redis.Client) *RedisVoteStore {
	return &RedisVoteStore{client: client}
}

func (s *RedisVoteStore) Add(ctx context.Context, communityID string, submissionID uint, voter string) (int, error) {
	key := voteKey(communityID, submissionID)

	// single round-trip: record the voter, refresh the TTL, read the count
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, key, voter)
	pipe.Expire(ctx, key, voteTTL)
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

func (s *RedisVoteStore) Clear(ctx context.Context, communityID string, submissionID uint) error {
	return s.client.Del(ctx, voteKey(communityID, submissionID)).Err()
}

// MemoryVoteStore is a process-local VoteStore for tests and single-instance
// deployments without Redis.
type MemoryVoteStore struct {
	mu    sync.Mutex
	votes map[string]map[string]struct{}
}

// NewMemoryVoteStore creates an in-memory vote store.
func NewMemoryVoteStore() *MemoryVoteStore {
	return &MemoryVoteStore{votes: make(map[string]map[string]struct{})}
}

func (s *MemoryVoteStore) Add(_ context.Context, communityID string, submissionID uint, voter string) (int, error) {
	key := voteKey(communityID, submissionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.votes[key]
	if !ok {
		set = make(map[string]struct{})
		s.votes[key] = set
	}
	set[voter] = struct{}{}
	return len(set), nil
}

func (s *MemoryVoteStore) Clear(_ context.Context, communityID string, submissionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, voteKey(communityID, submissionID))
	return nil
}
