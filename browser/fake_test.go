package browser

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/nguyengg/arcnav/archive"
	"github.com/nguyengg/arcnav/internal/executor"
)

// fakeService is an in-memory archive.Service.
type fakeService struct {
	mu      sync.Mutex
	entries []archive.Entry
	caps    archive.Capabilities
	notArc  bool
	listErr error
	opErr   error
	testOK  bool
	calls   []string
	paths   [][]string

	// reports are sent to the ProgressFunc of long-running operations before they block on gate.
	reports []archive.Progress
	// started, if non-nil, receives a value when a long-running operation has sent its reports.
	started chan struct{}
	// gate, if non-nil, blocks long-running operations until it is closed or the context is cancelled.
	gate chan struct{}
	// ignoreCancel makes long-running operations wait for gate even if the context is cancelled.
	ignoreCancel bool
	// lateReports are sent after the context has been cancelled.
	lateReports []archive.Progress
}

var _ archive.Service = &fakeService{}

func (s *fakeService) record(name string, paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	s.paths = append(s.paths, paths)
}

func (s *fakeService) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

func (s *fakeService) IsArchive(_ context.Context, _ string) (bool, error) {
	s.record("IsArchive", nil)
	return !s.notArc, nil
}

func (s *fakeService) Capabilities(_ context.Context, _ string) (archive.Capabilities, error) {
	s.record("Capabilities", nil)
	return s.caps, nil
}

func (s *fakeService) ListEntries(ctx context.Context, _ string) ([]archive.Entry, error) {
	s.record("ListEntries", nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.listErr != nil {
		return nil, s.listErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries), nil
}

func (s *fakeService) ExtractAll(ctx context.Context, _, destination string, progress archive.ProgressFunc) error {
	s.record("ExtractAll", []string{destination})
	return s.block(ctx, progress)
}

func (s *fakeService) ExtractEntries(ctx context.Context, _ string, entryPaths []string, _ string, progress archive.ProgressFunc) error {
	s.record("ExtractEntries", entryPaths)
	return s.block(ctx, progress)
}

func (s *fakeService) AddToArchive(ctx context.Context, _ string, sourcePaths []string, progress archive.ProgressFunc) error {
	s.record("AddToArchive", sourcePaths)
	if err := s.block(ctx, progress); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range sourcePaths {
		s.entries = append(s.entries, archive.Entry{Path: p, Name: p, Size: 1, CompressedSize: 1})
	}

	return nil
}

func (s *fakeService) DeleteEntries(ctx context.Context, _ string, entryPaths []string) error {
	s.record("DeleteEntries", entryPaths)
	if err := s.block(ctx, nil); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.DeleteFunc(s.entries, func(e archive.Entry) bool {
		for _, p := range entryPaths {
			if e.Path == p || strings.HasPrefix(e.Path, p+"/") {
				return true
			}
		}

		return false
	})

	return nil
}

func (s *fakeService) TestArchive(ctx context.Context, _ string) (bool, error) {
	s.record("TestArchive", nil)
	if err := s.block(ctx, nil); err != nil {
		return false, err
	}

	return s.testOK, nil
}

// block sends the reports, then waits on gate, then returns opErr.
func (s *fakeService) block(ctx context.Context, progress archive.ProgressFunc) error {
	if progress != nil {
		for _, p := range s.reports {
			progress(p)
		}
	}

	if s.started != nil {
		s.started <- struct{}{}
	}

	if s.gate != nil {
		if s.ignoreCancel {
			<-s.gate
		} else {
			select {
			case <-s.gate:
			case <-ctx.Done():
				if progress != nil {
					for _, p := range s.lateReports {
						progress(p)
					}
				}

				return ctx.Err()
			}
		}
	}

	if err := ctx.Err(); err != nil && !s.ignoreCancel {
		return err
	}

	return s.opErr
}

// scenarioEntries is the listing of the archive used by the scenarios:
//
//	a/b.txt size=10 packed=4
//	a/      directory
//	c.txt   size=20 packed=20
func scenarioEntries() []archive.Entry {
	return []archive.Entry{
		{Path: "a/b.txt", Name: "b.txt", Size: 10, CompressedSize: 4, CompressionRatio: 0.4},
		{Path: "a", Name: "a", IsDir: true},
		{Path: "c.txt", Name: "c.txt", Size: 20, CompressedSize: 20, CompressionRatio: 1},
	}
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events waits for pending events to be delivered and returns all events received so far.
func (r *recorder) Events(c *Coordinator) []Event {
	c.obs.wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// kinds returns the kinds of the given events.
func kinds(events []Event) []EventKind {
	ks := make([]EventKind, 0, len(events))
	for _, ev := range events {
		ks = append(ks, ev.Kind)
	}

	return ks
}

// newSyncCoordinator creates a Coordinator that runs every operation on the caller's goroutine, and a recorder of its
// events.
func newSyncCoordinator(t *testing.T, svc archive.Service) (*Coordinator, *recorder) {
	t.Helper()

	c := New(svc, func(opts *Options) {
		opts.Executor = executor.NewCallerRunOnRejectExecutor(0)
	})
	r := &recorder{}
	unsubscribe := c.Subscribe(r.record)
	t.Cleanup(unsubscribe)

	return c, r
}

// newAsyncCoordinator creates a Coordinator that runs every operation on its own goroutine.
func newAsyncCoordinator(t *testing.T, svc archive.Service) (*Coordinator, *recorder) {
	t.Helper()

	c := New(svc)
	t.Cleanup(func() {
		_ = c.Close()
	})

	r := &recorder{}
	unsubscribe := c.Subscribe(r.record)
	t.Cleanup(unsubscribe)

	return c, r
}
