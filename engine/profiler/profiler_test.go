package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickReportsPerInterval(t *testing.T) {
	start := time.Unix(1000, 0)
	clock := start
	p := NewProfiler()
	p.lastTime = start
	p.now = func() time.Time { return clock }

	for i := range 9 {
		clock = start.Add(time.Duration(i+1) * 100 * time.Millisecond)
		_, ok := p.Tick(4)
		require.False(t, ok)
	}

	clock = start.Add(time.Second)
	report, ok := p.Tick(14)
	require.True(t, ok)
	assert.InDelta(t, 10, report.FPS, 1e-9)
	assert.InDelta(t, 5, report.DrawsPerFrame, 1e-9)
	assert.Positive(t, report.SysMB)

	clock = clock.Add(10 * time.Millisecond)
	_, ok = p.Tick(1)
	assert.False(t, ok, "counters restart after a report")
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
	p.SetInterval(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
}
