package service

import (
	"math/rand"
	"sync"
)

// structureLocks hands out one mutex per structure id. Every mutating
// structure operation holds its structure's mutex for the full
// read-modify-write, so availableSlots and slot statuses never interleave.
type structureLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStructureLocks() *structureLocks {
	return &structureLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *structureLocks) forStructure(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// SystemRand draws from math/rand's shared source, which is safe for
// concurrent use.
type SystemRand struct{}

func (SystemRand) Float64() float64 { return rand.Float64() }
