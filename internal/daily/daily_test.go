package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))
	assert.Equal(t, "2025-03-09", DateKey(ts))
}

func TestTargetDeterministicAndInRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		d := start.AddDate(0, 0, i)
		got := Target(d, "salt", 1, 100)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, 100)
		assert.Equal(t, got, Target(d, "salt", 1, 100), "same date, same target")
	}
}

func TestTargetDegenerateRange(t *testing.T) {
	d := time.Now()
	assert.Equal(t, 7, Target(d, "salt", 7, 7))
	assert.Equal(t, 7, Target(d, "salt", 7, 3))
}
