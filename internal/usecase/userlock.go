package usecase

import "sync"

// userLocks serializes subscription writes per user id. Entries are
// ref-counted and removed once the last holder releases, so the map does
// not grow with the user population.
//
// The critical section deliberately spans the billing call: holding the
// lock across a slow external call trades single-user throughput for the
// at-most-one-active-subscription invariant.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the per-user lock is held and returns the release func.
func (l *userLocks) lock(userID string) (unlock func()) {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*userLock)
	}
	e := l.locks[userID]
	if e == nil {
		e = &userLock{}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
