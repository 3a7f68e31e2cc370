package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyengg/arcnav/archive"
)

var (
	// ErrNotLoaded is returned by operations that require an archive to have been loaded.
	ErrNotLoaded = errors.New("no archive loaded")

	// ErrNoSelection is returned by ExtractSelected and DeleteSelected if no visible node is selected.
	ErrNoSelection = errors.New("no entries selected")
)

// Op identifies the kind of operation of a Request.
type Op int

const (
	OpLoad Op = iota + 1
	OpExtractAll
	OpExtractSelected
	OpAddFiles
	OpDeleteEntries
	OpTest
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpExtractAll:
		return "extract all"
	case OpExtractSelected:
		return "extract selected"
	case OpAddFiles:
		return "add files"
	case OpDeleteEntries:
		return "delete entries"
	case OpTest:
		return "test"
	default:
		return "unknown"
	}
}

// Request describes one operation against the loaded archive.
//
// Use the constructor functions (LoadRequest, ExtractAllRequest, etc.) rather than populating the fields directly.
type Request struct {
	Op Op
	// Path is the archive to load for OpLoad.
	Path string
	// Destination is the directory to extract to for OpExtractAll and OpExtractSelected.
	Destination string
	// Paths are the archive paths for OpExtractSelected and OpDeleteEntries.
	Paths []string
	// SourcePaths are the local files and directories for OpAddFiles.
	SourcePaths []string
}

func LoadRequest(path string) Request {
	return Request{Op: OpLoad, Path: path}
}

func ExtractAllRequest(destination string) Request {
	return Request{Op: OpExtractAll, Destination: destination}
}

func ExtractSelectedRequest(paths []string, destination string) Request {
	return Request{Op: OpExtractSelected, Paths: paths, Destination: destination}
}

func AddFilesRequest(sourcePaths []string) Request {
	return Request{Op: OpAddFiles, SourcePaths: sourcePaths}
}

func DeleteEntriesRequest(paths []string) Request {
	return Request{Op: OpDeleteEntries, Paths: paths}
}

func TestRequest() Request {
	return Request{Op: OpTest}
}

// StatusKind is the lifecycle state of an operation.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusRunning
	StatusCompleted
	StatusCancelled
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Status is the observable state of the current (or most recent) operation.
type Status struct {
	Kind       StatusKind
	Generation uint64
	Operation  Op
	// Text is a human-readable description such as "extracting a/b.txt (42%)" or the error message.
	Text         string
	CurrentEntry string
	// Percentage is between 0 and 100 and never decreases within one operation.
	Percentage float64
	// Err is non-nil only if Kind is StatusFailed or StatusCancelled.
	Err error
}

// Result is the outcome of a Task.
type Result struct {
	Op         Op
	Generation uint64
	// Kind is one of StatusCompleted, StatusCancelled or StatusFailed.
	Kind StatusKind
	// OK is the result of OpTest: true if the archive passed the integrity test.
	OK  bool
	Err error
}

// Task is the handle of a submitted operation.
type Task struct {
	gen    uint64
	req    Request
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Generation returns the generation number assigned to the task when it was submitted, 0 if it was rejected up front.
func (t *Task) Generation() uint64 {
	return t.gen
}

// Request returns the request of the task.
func (t *Task) Request() Request {
	return t.req
}

// Cancel requests cancellation of the task. It does not wait for the task to terminate.
func (t *Task) Cancel() {
	t.cancel()
}

// Done returns a channel that is closed when the task terminates.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task terminates and returns its result.
func (t *Task) Wait() Result {
	<-t.done
	return t.result
}

// ErrorKind classifies the errors of operations.
type ErrorKind int

const (
	NoError ErrorKind = iota
	// Cancelled means the operation was interrupted by a newer request or an explicit cancel.
	Cancelled
	// InvalidFormat means the file is not a recognised or parseable archive.
	InvalidFormat
	// UnsupportedOperation means the archive's format does not support the requested mutation.
	UnsupportedOperation
	// IoFailure is any other error.
	IoFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "no error"
	case Cancelled:
		return "cancelled"
	case InvalidFormat:
		return "invalid format"
	case UnsupportedOperation:
		return "unsupported operation"
	default:
		return "I/O failure"
	}
}

// Classify returns the ErrorKind of the given error.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return NoError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Cancelled
	case errors.Is(err, archive.ErrInvalidFormat):
		return InvalidFormat
	case errors.Is(err, archive.ErrUnsupportedOperation):
		return UnsupportedOperation
	default:
		return IoFailure
	}
}

// errSuperseded is the cause of the cancellation of a task that was superseded by a newer one.
type errSuperseded struct {
	gen uint64
}

func (e errSuperseded) Error() string {
	return fmt.Sprintf("superseded by operation %d", e.gen)
}

func (e errSuperseded) Unwrap() error {
	return context.Canceled
}
