package raffle

import "sync"

// NameLocks hands out one mutex per raffle name. Every multi-step
// sequence that must be atomic for a raffle takes the name's lock: a
// draw, and the watcher's mark-archived-then-evict. Sharing one table
// between both paths is what keeps an archive from slipping into the
// middle of a draw.
type NameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewNameLocks() *NameLocks {
	return &NameLocks{locks: map[string]*sync.Mutex{}}
}

// Lock acquires the lock for name and returns its release function.
// Locks for distinct names are independent.
func (n *NameLocks) Lock(name string) func() {
	n.mu.Lock()
	l, ok := n.locks[name]
	if !ok {
		l = &sync.Mutex{}
		n.locks[name] = l
	}
	n.mu.Unlock()
	l.Lock()
	return l.Unlock
}
