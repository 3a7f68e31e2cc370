package executor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGoroutineExecutor(t *testing.T) {
	ex := NewGoroutineExecutor()

	var n atomic.Int32
	for range 10 {
		ex.Execute(func() {
			n.Add(1)
		})
	}

	assert.NoError(t, ex.Close())
	assert.Equal(t, int32(10), n.Load())

	// after Close, commands run on the caller's goroutine.
	ran := false
	ex.Execute(func() {
		ran = true
	})
	assert.True(t, ran)
}

func TestNewGoroutineExecutor_Concurrent(t *testing.T) {
	ex := NewGoroutineExecutor()
	defer ex.Close()

	// both commands must be running at the same time for the barrier to be released.
	var wg sync.WaitGroup
	wg.Add(2)
	done := make(chan struct{}, 2)
	for range 2 {
		ex.Execute(func() {
			wg.Done()
			wg.Wait()
			done <- struct{}{}
		})
	}

	<-done
	<-done
}

func TestNewCallerRunOnRejectExecutor(t *testing.T) {
	tests := []struct {
		name string
		n    int
	}{
		{name: "caller runs", n: 0},
		{name: "one worker", n: 1},
		{name: "four workers", n: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewCallerRunOnRejectExecutor(tt.n)

			var n atomic.Int32
			for range 100 {
				ex.Execute(func() {
					n.Add(1)
				})
			}

			assert.NoError(t, ex.Close())
			assert.Equal(t, int32(100), n.Load())
		})
	}
}

func TestNewCallerRunOnRejectExecutor_CallerRuns(t *testing.T) {
	ex := NewCallerRunOnRejectExecutor(0)

	ran := false
	ex.Execute(func() {
		ran = true
	})

	// with no workers, Execute returns only after the command has run.
	assert.True(t, ran)
	assert.NoError(t, ex.Close())
}
