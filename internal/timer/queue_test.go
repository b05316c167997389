package timer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satellabs/ewrange/internal/timer"
)

func TestScheduleFiresAtOrAfterDelay(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	fired := false
	q.Schedule(0, 100, func() { fired = true })

	q.Advance(50)
	assert.False(fired, "task should not fire before its delay elapses")

	q.Advance(100)
	assert.True(fired, "task should fire once nowMs reaches fireAt")
}

func TestCancelPreventsFiring(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	fired := false
	h := q.Schedule(0, 100, func() { fired = true })
	h.Cancel()

	q.Advance(1000)
	assert.False(fired, "a cancelled task must never fire")
}

func TestCancelOnAlreadyFiredIsNoop(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	count := 0
	h := q.Schedule(0, 10, func() { count++ })

	q.Advance(10)
	assert.Equal(1, count)

	h.Cancel() // cancelling after firing must not un-fire or double-fire
	q.Advance(1000)
	assert.Equal(1, count)
}

func TestCancelOnNilHandleIsNoop(t *testing.T) {
	var h *timer.Handle
	assert.NotPanics(t, func() { h.Cancel() })
}

func TestAdvanceFiresInAscendingOrder(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	var order []int

	q.Schedule(0, 300, func() { order = append(order, 3) })
	q.Schedule(0, 100, func() { order = append(order, 1) })
	q.Schedule(0, 200, func() { order = append(order, 2) })

	q.Advance(1000)
	assert.Equal([]int{1, 2, 3}, order)
}

func TestAdvanceOnlyRunsDueTasks(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	ran := map[string]bool{}

	q.Schedule(0, 50, func() { ran["a"] = true })
	q.Schedule(0, 500, func() { ran["b"] = true })

	q.Advance(100)
	assert.True(ran["a"])
	assert.False(ran["b"])

	q.Advance(500)
	assert.True(ran["b"])
}

func TestLenReflectsPendingTasks(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	assert.Equal(0, q.Len())

	q.Schedule(0, 100, func() {})
	q.Schedule(0, 200, func() {})
	assert.Equal(2, q.Len())

	q.Advance(100)
	assert.Equal(1, q.Len())
}

func TestScheduleCoalesceByCancellingPrevious(t *testing.T) {
	assert := assert.New(t)
	q := timer.NewQueue()
	count := 0

	var handle *timer.Handle
	reschedule := func(now int64) {
		handle.Cancel()
		handle = q.Schedule(now, 100, func() { count++ })
	}

	reschedule(0)
	reschedule(10)
	reschedule(20)

	q.Advance(1000)
	assert.Equal(1, count, "only the last scheduled task in a coalesced chain should fire")
}
