package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush_AssignsUniqueIDsInOrder(t *testing.T) {
	q := NewQueue(10)

	a := q.Push("added to cart", LevelSuccess, DefaultDuration)
	b := q.Push("out of stock", LevelError, DefaultDuration)

	assert.NotEqual(t, a, b)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "added to cart", active[0].Message)
	assert.Equal(t, "out of stock", active[1].Message)
}

func TestDismiss_Idempotent(t *testing.T) {
	q := NewQueue(10)

	id := q.Push("hello", LevelInfo, DefaultDuration)
	q.Dismiss(id)
	q.Dismiss(id)
	q.Dismiss("toast-never-existed")

	assert.Empty(t, q.Active())
}

func TestActive_PrunesExpired(t *testing.T) {
	q := NewQueue(10)
	current := time.Now()
	q.now = func() time.Time { return current }

	q.Push("short lived", LevelInfo, time.Second)
	sticky := q.Push("sticky", LevelError, 0)

	current = current.Add(2 * time.Second)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, sticky, active[0].ID)
}

func TestPush_EvictsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)

	q.Push("one", LevelInfo, 0)
	q.Push("two", LevelInfo, 0)
	q.Push("three", LevelInfo, 0)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "two", active[0].Message)
	assert.Equal(t, "three", active[1].Message)
}
