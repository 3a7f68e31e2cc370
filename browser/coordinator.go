// Package browser presents the flat listing of an archive as a navigable directory hierarchy and serialises the
// operations against that archive.
//
// A Coordinator owns the loaded Snapshot, the navigation State and the single in-flight operation. Every new
// operation is assigned the next generation number and cancels the previous one; progress and results from a
// superseded generation are discarded.
package browser

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/nguyengg/arcnav/archive"
	"github.com/nguyengg/arcnav/internal/executor"
	"golang.org/x/time/rate"
)

// Options customises Coordinator.
type Options struct {
	// Executor runs the operations.
	//
	// Default to an executor that runs every operation on its own goroutine. Use a caller-runs executor to make
	// every method that returns a Task block until the Task is done.
	Executor executor.Executor

	// Logger logs the start and end of every operation as well as throttled progress.
	//
	// Default to a logger that discards everything.
	Logger *log.Logger

	// ProgressInterval is the minimum interval between two progress log lines.
	//
	// Default to DefaultProgressInterval.
	ProgressInterval time.Duration
}

// DefaultProgressInterval is the default value for Options.ProgressInterval.
const DefaultProgressInterval = 5 * time.Second

// Coordinator runs at most one operation at a time against one archive.
//
// Coordinator is safe for concurrent use.
type Coordinator struct {
	svc   archive.Service
	opts  Options
	store store
	state State
	obs   observers

	// mu guards gen, current and status.
	mu      sync.Mutex
	gen     uint64
	current *Task
	status  Status
}

// New returns a new Coordinator using the given Service.
func New(svc archive.Service, optFns ...func(*Options)) *Coordinator {
	opts := Options{
		ProgressInterval: DefaultProgressInterval,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Executor == nil {
		opts.Executor = executor.NewGoroutineExecutor()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	return &Coordinator{svc: svc, opts: opts}
}

// Subscribe registers fn to receive events.
//
// Events are delivered on a separate goroutine, one at a time, in the order they happen. The returned function
// unregisters fn.
func (c *Coordinator) Subscribe(fn func(Event)) (unsubscribe func()) {
	return c.obs.subscribe(fn)
}

// Snapshot returns the currently loaded snapshot, nil if no archive has been loaded.
func (c *Coordinator) Snapshot() *Snapshot {
	return c.store.load()
}

// Aggregate returns the statistics of the loaded archive.
func (c *Coordinator) Aggregate() Aggregate {
	if snap := c.store.load(); snap != nil {
		return snap.Aggregate
	}

	return Aggregate{}
}

// Status returns the status of the current or most recent operation.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) Dir() string {
	return c.state.Dir()
}

func (c *Coordinator) Nodes() []Node {
	return c.state.Nodes()
}

func (c *Coordinator) Selected() []string {
	return c.state.Selected()
}

// Navigate moves into the directory represented by the given node (or its parent for the parent link).
//
// Returns false if the node is a file.
func (c *Coordinator) Navigate(n Node) bool {
	if !c.state.Navigate(n) {
		return false
	}

	c.obs.publish(Event{Kind: NodeActivated, Path: c.state.Dir()})
	return true
}

// NavigateTo moves into the given directory, falling back to the root if it does not exist.
func (c *Coordinator) NavigateTo(dir string) bool {
	ok := c.state.NavigateTo(dir)
	c.obs.publish(Event{Kind: NodeActivated, Path: c.state.Dir()})
	return ok
}

func (c *Coordinator) Toggle(path string) bool {
	return c.selectionChanged(c.state.Toggle(path))
}

func (c *Coordinator) SetSelected(path string, selected bool) bool {
	return c.selectionChanged(c.state.SetSelected(path, selected))
}

func (c *Coordinator) SelectAll() bool {
	return c.selectionChanged(c.state.SelectAll())
}

func (c *Coordinator) SelectNone() bool {
	return c.selectionChanged(c.state.SelectNone())
}

func (c *Coordinator) selectionChanged(changed bool) bool {
	if changed {
		c.obs.publish(Event{Kind: SelectionChanged})
	}

	return changed
}

// Load lists the entries of the archive at path and replaces the loaded snapshot, moving to the root.
//
// The task fails with an error wrapping archive.ErrInvalidFormat if the file is not an archive. The previous snapshot
// is retained if the task does not succeed.
func (c *Coordinator) Load(ctx context.Context, path string) *Task {
	return c.Submit(ctx, LoadRequest(path))
}

// Reload is Load with the path of the currently loaded archive.
func (c *Coordinator) Reload(ctx context.Context) *Task {
	var path string
	if snap := c.store.load(); snap != nil {
		path = snap.Path
	}

	return c.Submit(ctx, LoadRequest(path))
}

// ExtractAll extracts the entire archive to the destination directory.
func (c *Coordinator) ExtractAll(ctx context.Context, destination string) *Task {
	return c.Submit(ctx, ExtractAllRequest(destination))
}

// ExtractSelected extracts the selected nodes to the destination directory.
//
// A selected directory also extracts all of its descendants. The task fails with ErrNoSelection if nothing is
// selected.
func (c *Coordinator) ExtractSelected(ctx context.Context, destination string) *Task {
	return c.Submit(ctx, ExtractSelectedRequest(c.state.Selected(), destination))
}

// ExtractPaths is a variant of ExtractSelected that extracts the given archive paths instead of the selection.
func (c *Coordinator) ExtractPaths(ctx context.Context, paths []string, destination string) *Task {
	return c.Submit(ctx, ExtractSelectedRequest(paths, destination))
}

// AddFiles adds the local files and directories to the root of the archive, then reloads it.
//
// The task fails with an error wrapping archive.ErrUnsupportedOperation without calling the Service if the archive's
// format does not support adding files.
func (c *Coordinator) AddFiles(ctx context.Context, sourcePaths []string) *Task {
	return c.Submit(ctx, AddFilesRequest(sourcePaths))
}

// DeleteEntries removes the given archive paths, then reloads the archive.
//
// If the current directory no longer exists afterward, the navigation falls back to the root.
func (c *Coordinator) DeleteEntries(ctx context.Context, paths []string) *Task {
	return c.Submit(ctx, DeleteEntriesRequest(paths))
}

// DeleteSelected is a variant of DeleteEntries that removes the selected nodes.
func (c *Coordinator) DeleteSelected(ctx context.Context) *Task {
	return c.Submit(ctx, DeleteEntriesRequest(c.state.Selected()))
}

// Test verifies the integrity of the archive. Result.OK is true if the archive passed.
func (c *Coordinator) Test(ctx context.Context) *Task {
	return c.Submit(ctx, TestRequest())
}

// Cancel requests cancellation of the in-flight operation if there is one.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()

	if t != nil {
		t.Cancel()
	}
}

// Submit cancels the in-flight operation and schedules the request to run after it has terminated.
//
// A request that can be rejected up front, such as adding files to an archive that does not support it, fails
// immediately without a new generation and without affecting the in-flight operation.
func (c *Coordinator) Submit(ctx context.Context, req Request) *Task {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if err := c.reject(req); err != nil {
		t := &Task{req: req, ctx: ctx, cancel: cancel, done: make(chan struct{})}
		status := Status{Kind: StatusFailed, Operation: req.Op, Text: err.Error(), Err: err}
		if c.current == nil {
			c.status = status
		}
		c.obs.publish(Event{Kind: OperationFailed, Status: status})
		c.mu.Unlock()

		c.opts.Logger.Printf("%s rejected: %v", req.Op, err)
		t.complete(Result{Op: req.Op, Kind: StatusFailed, Err: err})
		return t
	}

	c.gen++
	t := &Task{gen: c.gen, req: req, ctx: ctx, cancel: cancel, done: make(chan struct{})}
	prev := c.current
	c.current = t
	if prev != nil {
		// a superseded task always ends as cancelled so observers are told now.
		c.obs.publish(Event{Kind: OperationCancelled, Status: Status{
			Kind:       StatusCancelled,
			Generation: prev.gen,
			Operation:  prev.req.Op,
			Text:       "cancelled " + prev.req.Op.String(),
			Err:        errSuperseded{t.gen},
		}})
	}
	c.status = Status{Kind: StatusRunning, Generation: t.gen, Operation: req.Op, Text: req.Op.String()}
	c.obs.publish(Event{Kind: OperationStarted, Status: c.status})
	c.mu.Unlock()

	if prev != nil {
		prev.Cancel()
		c.opts.Logger.Printf("[%d] cancelled by [%d]", prev.gen, t.gen)
	}

	c.opts.Logger.Printf("[%d] start %s", t.gen, req.Op)

	c.opts.Executor.Execute(func() {
		if prev != nil {
			<-prev.done
		}

		o, err := c.run(t)
		c.finish(t, o, err)
	})

	return t
}

// reject returns a non-nil error if the request can never succeed against the loaded snapshot.
//
// Nothing is rejected while a load is in flight since the snapshot is about to change. Must be called with c.mu held.
func (c *Coordinator) reject(req Request) error {
	if c.current != nil && c.current.req.Op == OpLoad {
		return nil
	}

	snap := c.store.load()
	if snap == nil {
		return nil
	}

	switch req.Op {
	case OpAddFiles:
		if !snap.Capabilities.Add {
			return fmt.Errorf("add files to %s archive: %w", snap.Capabilities.Format, archive.ErrUnsupportedOperation)
		}
	case OpDeleteEntries:
		if !snap.Capabilities.Delete {
			return fmt.Errorf("delete from %s archive: %w", snap.Capabilities.Format, archive.ErrUnsupportedOperation)
		}
		if len(req.Paths) == 0 {
			return ErrNoSelection
		}
	case OpExtractSelected:
		if len(req.Paths) == 0 {
			return ErrNoSelection
		}
	}

	return nil
}

// outcome is what run produces in addition to the error.
type outcome struct {
	// snap is the new snapshot to apply.
	snap *Snapshot
	// reset is true if navigation should move to the root after applying snap.
	reset bool
	// ok is the result of OpTest.
	ok bool
}

// run executes the task's request; it must not modify any state of the Coordinator.
func (c *Coordinator) run(t *Task) (outcome, error) {
	ctx, req := t.ctx, t.req

	if err := ctx.Err(); err != nil {
		return outcome{}, err
	}

	if req.Op == OpLoad {
		if req.Path == "" {
			return outcome{}, ErrNotLoaded
		}

		snap, err := c.list(ctx, req.Path, nil)
		return outcome{snap: snap, reset: true}, err
	}

	snap := c.store.load()
	if snap == nil {
		return outcome{}, ErrNotLoaded
	}

	progress := c.progress(t)

	switch req.Op {
	case OpExtractAll:
		if err := c.svc.ExtractAll(ctx, snap.Path, req.Destination, progress); err != nil {
			return outcome{}, fmt.Errorf(`extract "%s" error: %w`, snap.Path, err)
		}

		return outcome{}, nil

	case OpExtractSelected:
		if len(req.Paths) == 0 {
			return outcome{}, ErrNoSelection
		}

		if err := c.svc.ExtractEntries(ctx, snap.Path, req.Paths, req.Destination, progress); err != nil {
			return outcome{}, fmt.Errorf(`extract from "%s" error: %w`, snap.Path, err)
		}

		return outcome{}, nil

	case OpAddFiles:
		if !snap.Capabilities.Add {
			return outcome{}, fmt.Errorf("add files to %s archive: %w", snap.Capabilities.Format, archive.ErrUnsupportedOperation)
		}

		if err := c.svc.AddToArchive(ctx, snap.Path, req.SourcePaths, progress); err != nil {
			return outcome{}, fmt.Errorf(`add to "%s" error: %w`, snap.Path, err)
		}

		// the archive has changed on disk so the listing must be refreshed even if cancellation came too late.
		return c.refresh(context.WithoutCancel(ctx), snap)

	case OpDeleteEntries:
		if !snap.Capabilities.Delete {
			return outcome{}, fmt.Errorf("delete from %s archive: %w", snap.Capabilities.Format, archive.ErrUnsupportedOperation)
		}
		if len(req.Paths) == 0 {
			return outcome{}, ErrNoSelection
		}

		if err := c.svc.DeleteEntries(ctx, snap.Path, req.Paths); err != nil {
			return outcome{}, fmt.Errorf(`delete from "%s" error: %w`, snap.Path, err)
		}

		return c.refresh(context.WithoutCancel(ctx), snap)

	case OpTest:
		ok, err := c.svc.TestArchive(ctx, snap.Path)
		if err != nil {
			return outcome{}, fmt.Errorf(`test "%s" error: %w`, snap.Path, err)
		}

		return outcome{ok: ok}, nil

	default:
		return outcome{}, fmt.Errorf("unknown operation %d", req.Op)
	}
}

// refresh lists the archive again after a mutation.
func (c *Coordinator) refresh(ctx context.Context, prev *Snapshot) (outcome, error) {
	snap, err := c.list(ctx, prev.Path, &prev.Capabilities)
	if err != nil {
		return outcome{}, fmt.Errorf("reload error: %w", err)
	}

	return outcome{snap: snap}, nil
}

// list creates a new Snapshot of the archive at path.
//
// If caps is nil, the file is verified to be an archive and its capabilities are retrieved from the Service.
func (c *Coordinator) list(ctx context.Context, path string, caps *archive.Capabilities) (*Snapshot, error) {
	if caps == nil {
		switch ok, err := c.svc.IsArchive(ctx, path); {
		case err != nil:
			return nil, fmt.Errorf(`detect format of "%s" error: %w`, path, err)
		case !ok:
			return nil, fmt.Errorf(`"%s" is not an archive: %w`, path, archive.ErrInvalidFormat)
		}

		v, err := c.svc.Capabilities(ctx, path)
		if err != nil {
			return nil, fmt.Errorf(`get capabilities of "%s" error: %w`, path, err)
		}
		caps = &v
	}

	entries, err := c.svc.ListEntries(ctx, path)
	if err != nil {
		return nil, fmt.Errorf(`list "%s" error: %w`, path, err)
	}

	return NewSnapshot(path, entries, *caps), nil
}

// progress returns the ProgressFunc for the given task.
//
// Reports are dropped once the task is no longer the current generation, and the percentage is clamped so that it
// never decreases.
func (c *Coordinator) progress(t *Task) archive.ProgressFunc {
	sometimes := rate.Sometimes{Interval: c.opts.ProgressInterval}

	return func(p archive.Progress) {
		c.mu.Lock()
		if t.gen != c.gen || c.status.Kind != StatusRunning {
			c.mu.Unlock()
			return
		}

		c.status.CurrentEntry = p.CurrentEntry
		c.status.Percentage = min(max(p.Percentage, c.status.Percentage), 100)
		c.status.Text = fmt.Sprintf("%s %s (%.0f%%)", t.req.Op, p.CurrentEntry, c.status.Percentage)
		status := c.status
		c.obs.publish(Event{Kind: OperationProgress, Status: status})
		c.mu.Unlock()

		sometimes.Do(func() {
			c.opts.Logger.Printf("[%d] %s", t.gen, status.Text)
		})
	}
}

// finish records the result of the task.
//
// A superseded task is always reported as cancelled even if the Service call succeeded. Its outcome is discarded
// unless it is the listing of an archive that it has modified, which must replace the stale snapshot before the next
// task runs.
func (c *Coordinator) finish(t *Task, o outcome, err error) {
	res := Result{Op: t.req.Op, Generation: t.gen, OK: o.ok, Err: err}

	c.mu.Lock()
	if t.gen != c.gen {
		res.Kind, res.OK = StatusCancelled, false
		if res.Err == nil || Classify(res.Err) != Cancelled {
			res.Err = errSuperseded{c.gen}
		}

		if o.snap != nil && !o.reset {
			c.store.swap(o.snap)
			if !c.state.Refresh(o.snap) {
				c.opts.Logger.Printf("[%d] directory no longer exists, moved to root", t.gen)
			}
			c.obs.publish(Event{Kind: NodeActivated, Path: c.state.Dir()})
		}
		c.mu.Unlock()

		c.opts.Logger.Printf("[%d] %s superseded", t.gen, t.req.Op)
		t.complete(res)
		return
	}

	var events []Event
	switch Classify(err) {
	case NoError:
		res.Kind = StatusCompleted
		c.status = Status{Kind: StatusCompleted, Generation: t.gen, Operation: t.req.Op, Text: "done " + t.req.Op.String(), Percentage: 100}

		if o.snap != nil {
			c.store.swap(o.snap)

			if o.reset {
				c.state.Reset(o.snap)
				events = append(events, Event{Kind: ArchiveLoaded, Path: o.snap.Path})
			} else if !c.state.Refresh(o.snap) {
				c.opts.Logger.Printf("[%d] directory no longer exists, moved to root", t.gen)
			}
			events = append(events, Event{Kind: NodeActivated, Path: c.state.Dir()})
		}
		if t.req.Op == OpTest && !o.ok {
			c.status.Text = "archive is corrupted"
		}

		events = append(events, Event{Kind: OperationCompleted, Status: c.status})
		c.opts.Logger.Printf("[%d] %s", t.gen, c.status.Text)

	case Cancelled:
		res.Kind = StatusCancelled
		c.status = Status{Kind: StatusCancelled, Generation: t.gen, Operation: t.req.Op, Text: "cancelled " + t.req.Op.String(), Err: err}
		events = append(events, Event{Kind: OperationCancelled, Status: c.status})
		c.opts.Logger.Printf("[%d] %s", t.gen, c.status.Text)

	default:
		res.Kind = StatusFailed
		c.status = Status{Kind: StatusFailed, Generation: t.gen, Operation: t.req.Op, Text: err.Error(), Err: err}
		events = append(events, Event{Kind: OperationFailed, Status: c.status})
		c.opts.Logger.Printf("[%d] %s error: %v", t.gen, t.req.Op, err)
	}

	c.current = nil
	c.obs.publish(events...)
	c.mu.Unlock()

	t.complete(res)
}

// Wait blocks until the in-flight operation, if any, has terminated.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	t := c.current
	c.mu.Unlock()

	if t != nil {
		<-t.done
	}
}

// Close cancels the in-flight operation and waits for it to terminate.
//
// If the executor implements io.Closer, it is closed as well.
func (c *Coordinator) Close() error {
	c.Cancel()
	c.Wait()

	if closer, ok := c.opts.Executor.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func (t *Task) complete(res Result) {
	t.result = res
	t.cancel()
	close(t.done)
}
