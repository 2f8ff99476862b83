package optimistic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct{ paid, total int }

func add(n int) func(counter) counter {
	return func(c counter) counter {
		c.paid += n
		return c
	}
}

func TestProjectionAppliesPendingInOrder(t *testing.T) {
	l := New(counter{total: 3})
	a := l.Begin("a", add(1))
	l.Begin("b", add(1))

	assert.Equal(t, counter{paid: 2, total: 3}, l.Projection())
	assert.Equal(t, counter{total: 3}, l.Confirmed())
	assert.Equal(t, []string{"a", "b"}, l.Pending())

	assert.True(t, l.Confirm(a))
	assert.False(t, l.Confirm(a), "already folded")
	assert.Equal(t, counter{paid: 1, total: 3}, l.Confirmed())
	assert.Equal(t, counter{paid: 2, total: 3}, l.Projection())
}

func TestRevertRollsBackTheView(t *testing.T) {
	l := New(counter{})
	id := l.Begin("fails", add(5))
	assert.Equal(t, 5, l.Projection().paid)

	assert.True(t, l.Revert(id))
	assert.Zero(t, l.Projection().paid)
	assert.Empty(t, l.Pending())
	assert.False(t, l.Revert(id))
}

func TestRebaseKeepsPending(t *testing.T) {
	l := New(counter{})
	l.Begin("local", add(1))
	l.Rebase(counter{paid: 10})
	assert.Equal(t, 11, l.Projection().paid)
}

func TestConcurrentUse(t *testing.T) {
	l := New(counter{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := l.Begin("x", add(1))
			if i%2 == 0 {
				l.Confirm(id)
			} else {
				l.Revert(id)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 25, l.Projection().paid)
	assert.Empty(t, l.Pending())
}
