package game

import "sync"

// teamLocks serializes submissions per team. Two teammates submitting from
// two devices at once would otherwise race the read-modify-write of the
// team's progress record and the later write would clobber the earlier one.
type teamLocks struct {
	mu    sync.Mutex
	locks map[string]*teamLock
}

type teamLock struct {
	mu   sync.Mutex
	refs int
}

func newTeamLocks() *teamLocks {
	return &teamLocks{locks: make(map[string]*teamLock)}
}

// Lock acquires the lock for teamID and returns the release func. Entries
// are reference counted so the map doesn't grow with every team ever seen.
func (l *teamLocks) Lock(teamID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[teamID]
	if !ok {
		entry = &teamLock{}
		l.locks[teamID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, teamID)
		}
		l.mu.Unlock()
	}
}
