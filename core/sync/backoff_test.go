package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_DelayDoublesUpToMax(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 30 * time.Second, MaxAttempts: 10}

	assert.Equal(t, 1*time.Second, b.Delay(1))
	assert.Equal(t, 2*time.Second, b.Delay(2))
	assert.Equal(t, 4*time.Second, b.Delay(3))
	assert.Equal(t, 8*time.Second, b.Delay(4))
	assert.Equal(t, 16*time.Second, b.Delay(5))
	assert.Equal(t, 30*time.Second, b.Delay(6), "caps at Max, never 32s")
	assert.Equal(t, 30*time.Second, b.Delay(20))
}

func TestBackoff_OutOfRangeAttemptUsesBase(t *testing.T) {
	b := Backoff{Base: time.Second, Max: 30 * time.Second, MaxAttempts: 3}

	assert.Equal(t, time.Second, b.Delay(0))
	assert.Equal(t, time.Second, b.Delay(-5))
}

func TestDefaultBackoff(t *testing.T) {
	b := DefaultBackoff()

	assert.Equal(t, time.Second, b.Base)
	assert.Equal(t, 30*time.Second, b.Max)
	assert.Equal(t, 3, b.MaxAttempts)
}
