package service

import (
	"sync"

	"github.com/google/uuid"
)

const globalScopeKey = "global"

// CajaLocker serializes balance-mutating operations per register scope.
// Every write path that reads the last movement and appends a new one
// (manual movements, sales, debt payments) must hold the scope's lock for
// the whole read-modify-write, otherwise two concurrent writers can read
// the same prior balance and silently lose an update.
//
// Reads (saldo, history, cortes) never take these locks: movements are
// immutable once written.
type CajaLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCajaLocker() *CajaLocker {
	return &CajaLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given scope (nil = global) and returns the
// unlock function.
func (l *CajaLocker) Lock(cajaID *uuid.UUID) func() {
	key := globalScopeKey
	if cajaID != nil {
		key = cajaID.String()
	}

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
