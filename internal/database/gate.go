package database

import "sync"

// Gate keeps database snapshots from observing a half-applied sale.
// Commits hold it shared and may overlap each other; a snapshot holds it
// exclusively and therefore waits for in-flight commits to finish, while
// new commits wait for the snapshot.
type Gate struct {
	mu sync.RWMutex
}

func NewGate() *Gate { return &Gate{} }

// BeginCommit marks a sale commit as in flight.
func (g *Gate) BeginCommit() { g.mu.RLock() }

// EndCommit releases the commit's hold on the gate.
func (g *Gate) EndCommit() { g.mu.RUnlock() }

// BeginSnapshot blocks until no commit is in flight and then holds off
// new commits until EndSnapshot.
func (g *Gate) BeginSnapshot() { g.mu.Lock() }

// EndSnapshot lets commits proceed again.
func (g *Gate) EndSnapshot() { g.mu.Unlock() }
