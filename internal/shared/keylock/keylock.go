// Package keylock provides per-key mutual exclusion. Settlement uses it to
// serialize concurrent webhook deliveries for the same order code while
// letting distinct orders proceed independently.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock is a set of named mutexes. The zero value is not usable; use New.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *KeyLock {
	return &KeyLock{
		entries: make(map[string]*entry),
	}
}

// Lock acquires the mutex for key, blocking until it is available, and
// returns the unlock function. Entries are reference counted so the map does
// not grow with the number of distinct keys ever seen.
func (l *KeyLock) Lock(key string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
