// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package storage

import "sync"

// Locker serialises read-modify-write cycles per profile within one process.
// Writers from other processes are not coordinated.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*profileLock
}

type profileLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates an empty Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*profileLock)}
}

// Lock blocks until profile is free and returns its unlock function.
//
//	unlock := locker.Lock(profile)
//	defer unlock()
func (l *Locker) Lock(profile string) func() {
	l.mu.Lock()
	pl, ok := l.locks[profile]
	if !ok {
		pl = &profileLock{}
		l.locks[profile] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, profile)
		}
		l.mu.Unlock()
	}
}

// Held returns how many profiles currently have waiters or holders.
func (l *Locker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
