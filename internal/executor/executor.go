// Package executor abstracts how tasks are scheduled so that callers can swap asynchronous execution for synchronous
// execution in tests.
package executor

import (
	"io"
	"sync"
)

// Executor is inspired by Java Executor that abstracts submitting a task and executing it.
type Executor interface {
	// Execute executes the given command, possibly on another goroutine.
	Execute(func())
}

// ExecuteCloser adds io.Closer to Executor.
//
// Close waits for all submitted commands to finish.
type ExecuteCloser interface {
	Executor
	io.Closer
}

// NewGoroutineExecutor returns a new Executor that executes each command on its own goroutine.
//
// Commands submitted after Close are executed on the caller's goroutine.
func NewGoroutineExecutor() ExecuteCloser {
	return &goroutineExecutor{}
}

type goroutineExecutor struct {
	wg sync.WaitGroup

	// mu guards closed.
	mu     sync.Mutex
	closed bool
}

func (ex *goroutineExecutor) Execute(f func()) {
	ex.mu.Lock()
	if ex.closed {
		ex.mu.Unlock()
		f()
		return
	}

	ex.wg.Add(1)
	ex.mu.Unlock()

	go func() {
		defer ex.wg.Done()
		f()
	}()
}

func (ex *goroutineExecutor) Close() error {
	ex.mu.Lock()
	ex.closed = true
	ex.mu.Unlock()

	ex.wg.Wait()
	return nil
}

// NewCallerRunOnRejectExecutor returns a new Executor with n workers that will execute the command on the same
// goroutine as caller if all workers are busy.
//
// If n is 0, every command is executed on the caller's goroutine.
func NewCallerRunOnRejectExecutor(n int) ExecuteCloser {
	if n <= 0 {
		return callerRunExecutor{}
	}

	ex := &callerRunOnRejectExecutor{inputs: make(chan func())}
	ex.wg.Add(n)
	for range n {
		go func() {
			defer ex.wg.Done()

			for f := range ex.inputs {
				f()
			}
		}()
	}

	return ex
}

type callerRunOnRejectExecutor struct {
	inputs chan func()
	wg     sync.WaitGroup

	// mu guards closed.
	mu     sync.Mutex
	closed bool
}

func (ex *callerRunOnRejectExecutor) Execute(f func()) {
	ex.mu.Lock()
	if ex.closed {
		ex.mu.Unlock()
		f()
		return
	}

	select {
	case ex.inputs <- f:
		ex.mu.Unlock()
	default:
		ex.mu.Unlock()
		f()
	}
}

func (ex *callerRunOnRejectExecutor) Close() error {
	ex.mu.Lock()
	if !ex.closed {
		ex.closed = true
		close(ex.inputs)
	}
	ex.mu.Unlock()

	ex.wg.Wait()
	return nil
}

type callerRunExecutor struct {
}

func (ex callerRunExecutor) Execute(f func()) {
	f()
}

func (ex callerRunExecutor) Close() error {
	return nil
}
