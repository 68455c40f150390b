// Package lock provides per-match locking for settlement runs.
//
// The lock is an in-process fast path only: it stops two goroutines in the
// same process from both opening a settlement transaction for one match.
// Cross-process correctness rests on the database-side settlement guard,
// which survives restarts and concurrent workers.
package lock

import "sync"

// matchMutex wraps a mutex stored per match ID.
type matchMutex struct {
	mu sync.Mutex
}

// MatchLock provides per-match locking.
type MatchLock struct {
	locks sync.Map // map[int64]*matchMutex
}

// NewMatchLock creates a new MatchLock instance.
func NewMatchLock() *MatchLock {
	return &MatchLock{}
}

// getLock retrieves or creates a mutex for the given match ID.
func (ml *MatchLock) getLock(matchID int64) *matchMutex {
	if v, ok := ml.locks.Load(matchID); ok {
		return v.(*matchMutex)
	}

	// LoadOrStore handles the race where two goroutines create the lock
	actual, _ := ml.locks.LoadOrStore(matchID, &matchMutex{})
	return actual.(*matchMutex)
}

// Lock acquires the lock for a match.
func (ml *MatchLock) Lock(matchID int64) {
	ml.getLock(matchID).mu.Lock()
}

// Unlock releases the lock for a match.
func (ml *MatchLock) Unlock(matchID int64) {
	if v, ok := ml.locks.Load(matchID); ok {
		v.(*matchMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (ml *MatchLock) TryLock(matchID int64) bool {
	return ml.getLock(matchID).mu.TryLock()
}

// WithLock executes a function while holding the match's lock.
func (ml *MatchLock) WithLock(matchID int64, fn func() error) error {
	ml.Lock(matchID)
	defer ml.Unlock(matchID)
	return fn()
}
