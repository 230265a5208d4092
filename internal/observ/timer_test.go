package observ_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifile/internal/observ"
)

func TestTimer_BeginEnd(t *testing.T) {
	timer := observ.NewTimer()
	idx := timer.Begin("collect")
	timer.End(idx, "3 files")
	timer.End(42, "ignored")

	report := timer.Report()
	require.Len(t, report.Phases, 1)
	assert.Equal(t, "collect", report.Phases[0].Name)
	assert.Equal(t, "3 files", report.Phases[0].Note)
	assert.Equal(t, report.Phases[0].DurationMS, report.TotalMS)
}

func TestTimer_AddIsConcurrentAndExcludedFromTotal(t *testing.T) {
	timer := observ.NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.Add("normalize", time.Millisecond)
		}()
	}
	wg.Wait()

	report := timer.Report()
	require.Len(t, report.Phases, 1)
	assert.Equal(t, 8, report.Phases[0].Count)
	assert.InDelta(t, 8.0, report.Phases[0].DurationMS, 0.001)
	assert.Zero(t, report.TotalMS)
	assert.Contains(t, timer.Summary(), "(8 files)")
}

func TestTimer_Empty(t *testing.T) {
	assert.Equal(t, observ.Report{}, observ.NewTimer().Report())
	var nilTimer *observ.Timer
	nilTimer.Add("x", time.Second)
}
