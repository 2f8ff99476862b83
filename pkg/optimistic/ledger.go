// Package optimistic keeps a client-side view that applies commands before
// the server confirms them and drops them again when the server refuses.
//
//	l := optimistic.New(state)
//	id := l.Begin("mark paid", apply)
//	if err := send(); err != nil {
//	    l.Revert(id)
//	} else {
//	    l.Confirm(id)
//	}
package optimistic

import "sync"

// Command is a pending change. Apply must return a new value and leave its
// argument untouched.
type Command[S any] struct {
	ID    uint64
	Label string
	Apply func(S) S
}

type Ledger[S any] struct {
	mu        sync.Mutex
	confirmed S
	pending   []Command[S]
	next      uint64
}

func New[S any](snapshot S) *Ledger[S] {
	return &Ledger[S]{confirmed: snapshot}
}

// Begin records a pending command and returns its id.
func (l *Ledger[S]) Begin(label string, apply func(S) S) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.pending = append(l.pending, Command[S]{ID: l.next, Label: label, Apply: apply})
	return l.next
}

// Confirm folds the command into the confirmed state. It reports false when
// id is not pending.
func (l *Ledger[S]) Confirm(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cmd, ok := l.take(id)
	if ok {
		l.confirmed = cmd.Apply(l.confirmed)
	}
	return ok
}

// Revert drops the command. The projection no longer reflects it.
func (l *Ledger[S]) Revert(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.take(id)
	return ok
}

// Rebase replaces the confirmed state with a fresh server snapshot; pending
// commands stay queued on top of it.
func (l *Ledger[S]) Rebase(snapshot S) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed = snapshot
}

// Projection is the confirmed state with every pending command applied in
// submission order.
func (l *Ledger[S]) Projection() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.confirmed
	for _, c := range l.pending {
		s = c.Apply(s)
	}
	return s
}

func (l *Ledger[S]) Confirmed() S {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.confirmed
}

// Pending lists the labels of unconfirmed commands, oldest first.
func (l *Ledger[S]) Pending() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.pending))
	for _, c := range l.pending {
		out = append(out, c.Label)
	}
	return out
}

// take removes id from pending; caller holds mu.
func (l *Ledger[S]) take(id uint64) (Command[S], bool) {
	for i, c := range l.pending {
		if c.ID == id {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return c, true
		}
	}
	return Command[S]{}, false
}
