package portfolioLock

import (
	"sync"

	"github.com/google/uuid"
)

// Locks serializes writers of one portfolio inside the process.
// Writers of different portfolios never wait for each other.
type Locks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*entry
}

type entry struct {
	mu      sync.Mutex
	waiters int
}

func New() *Locks {
	return &Locks{locks: make(map[uuid.UUID]*entry)}
}

// Lock blocks until the portfolio is free and returns the function releasing it.
func (l *Locks) Lock(portfolioID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[portfolioID]
	if !ok {
		e = &entry{}
		l.locks[portfolioID] = e
	}
	e.waiters++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.waiters--
			if e.waiters == 0 {
				delete(l.locks, portfolioID)
			}
			l.mu.Unlock()
		})
	}
}
