// Package lock provides per-match locking for settlement runs.
// Property-based tests for settlement serialization within one process.
package lock

import (
	"sync"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentSettlementSerializationProperty tests that concurrent
// settlement attempts on the same match serialize their critical sections:
// the final aggregate equals sequential execution of all operations.
func TestConcurrentSettlementSerializationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		matchID := rapid.Int64Range(1, 1000000).Draw(t, "matchID")

		deltas := make([]int64, numOps)
		var expected int64
		for i := 0; i < numOps; i++ {
			deltas[i] = rapid.Int64Range(0, 500).Draw(t, "delta")
			expected += deltas[i]
		}

		ml := NewMatchLock()
		var total int64

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, d := range deltas {
			go func(delta int64) {
				defer wg.Done()
				ml.Lock(matchID)
				defer ml.Unlock(matchID)
				// read-modify-write, racy without the lock
				total += delta
			}(d)
		}
		wg.Wait()

		if total != expected {
			t.Fatalf("total mismatch with locking: expected %d, got %d (numOps=%d)",
				expected, total, numOps)
		}
	})
}

// TestMultipleMatchesIndependentLocksProperty tests that locks for different
// matches are independent and settlements may run fully in parallel.
func TestMultipleMatchesIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numMatches := rapid.IntRange(2, 10).Draw(t, "numMatches")
		opsPerMatch := rapid.IntRange(5, 20).Draw(t, "opsPerMatch")

		ml := NewMatchLock()

		totals := make(map[int64]*int64)
		for i := 0; i < numMatches; i++ {
			var v int64
			totals[int64(i+1)] = &v
		}

		var wg sync.WaitGroup
		wg.Add(numMatches * opsPerMatch)
		for matchID := int64(1); matchID <= int64(numMatches); matchID++ {
			for j := 0; j < opsPerMatch; j++ {
				go func(id int64) {
					defer wg.Done()
					ml.Lock(id)
					defer ml.Unlock(id)
					*totals[id] += 10
				}(matchID)
			}
		}
		wg.Wait()

		for matchID := int64(1); matchID <= int64(numMatches); matchID++ {
			want := int64(opsPerMatch) * 10
			if *totals[matchID] != want {
				t.Fatalf("match %d total mismatch: expected %d, got %d",
					matchID, want, *totals[matchID])
			}
		}
	})
}

// TestTryLockSingleWinnerProperty tests that simultaneous TryLock attempts
// admit at least one caller and leave the lock free afterwards.
func TestTryLockSingleWinnerProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		matchID := rapid.Int64Range(1, 1000000).Draw(t, "matchID")
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		ml := NewMatchLock()

		var successCount atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)

		startCh := make(chan struct{})
		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				<-startCh
				if ml.TryLock(matchID) {
					successCount.Add(1)
					ml.Unlock(matchID)
				}
			}()
		}
		close(startCh)
		wg.Wait()

		if successCount.Load() < 1 {
			t.Fatalf("at least one TryLock should succeed, got %d successes", successCount.Load())
		}

		if !ml.TryLock(matchID) {
			t.Fatal("lock should be available after all attempts complete")
		}
		ml.Unlock(matchID)
	})
}

// TestLockUnlockSymmetryProperty tests that every Lock has a corresponding Unlock.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		matchID := rapid.Int64Range(1, 1000000).Draw(t, "matchID")
		numCycles := rapid.IntRange(1, 50).Draw(t, "numCycles")

		ml := NewMatchLock()

		for i := 0; i < numCycles; i++ {
			ml.Lock(matchID)
			ml.Unlock(matchID)
		}

		if !ml.TryLock(matchID) {
			t.Fatal("lock should be available after symmetric lock/unlock cycles")
		}
		ml.Unlock(matchID)
	})
}
