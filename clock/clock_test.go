package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock_Now(t *testing.T) {
	c := &RealClock{}

	before := time.Now()
	actual := c.Now()
	after := time.Now()

	assert.False(t, actual.Before(before.Truncate(time.Second)), "RealClock.Now() earlier than expected")
	assert.False(t, actual.After(after), "RealClock.Now() later than expected")
	assert.Equal(t, time.UTC, actual.Location())
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	c := NewFakeClock(start)

	t.Run("returns fixed time", func(t *testing.T) {
		assert.True(t, c.Now().Equal(start))
		time.Sleep(time.Millisecond)
		assert.True(t, c.Now().Equal(start))
	})

	t.Run("set moves the clock", func(t *testing.T) {
		next := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		c.Set(next)
		assert.True(t, c.Now().Equal(next))
	})

	t.Run("advance accumulates", func(t *testing.T) {
		c.Set(start)
		c.Advance(24 * time.Hour)
		c.Advance(-time.Hour)
		assert.True(t, c.Now().Equal(start.Add(23*time.Hour)))
	})
}
