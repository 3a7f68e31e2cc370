package browser

import (
	"sync"
)

// EventKind identifies the kind of Event.
type EventKind int

const (
	// ArchiveLoaded is emitted when Load or Reload succeeds. Event.Path is the archive path.
	ArchiveLoaded EventKind = iota + 1
	// NodeActivated is emitted when the current directory changes. Event.Path is the new directory.
	NodeActivated
	// SelectionChanged is emitted when the selection of the visible nodes changes.
	SelectionChanged
	// OperationStarted is emitted when a new operation is submitted.
	OperationStarted
	// OperationProgress is emitted for every progress report of the current operation.
	OperationProgress
	// OperationCompleted is emitted when the current operation succeeds.
	OperationCompleted
	// OperationCancelled is emitted when the current operation is cancelled.
	OperationCancelled
	// OperationFailed is emitted when the current operation fails.
	OperationFailed
)

func (k EventKind) String() string {
	switch k {
	case ArchiveLoaded:
		return "ArchiveLoaded"
	case NodeActivated:
		return "NodeActivated"
	case SelectionChanged:
		return "SelectionChanged"
	case OperationStarted:
		return "OperationStarted"
	case OperationProgress:
		return "OperationProgress"
	case OperationCompleted:
		return "OperationCompleted"
	case OperationCancelled:
		return "OperationCancelled"
	case OperationFailed:
		return "OperationFailed"
	default:
		return "Unknown"
	}
}

// Event is delivered to the observers registered with Coordinator.Subscribe.
type Event struct {
	Kind EventKind
	// Path is the archive path for ArchiveLoaded, the new directory for NodeActivated.
	Path string
	// Status is the status of the operation for the Operation* kinds.
	Status Status
}

// observers delivers events to subscribers on a separate goroutine in the order the events were published.
//
// Because delivery is asynchronous, observers may freely call back into the Coordinator.
type observers struct {
	mu       sync.Mutex
	subs     []subscriber
	nextID   int
	queue    []Event
	draining bool
	idle     *sync.Cond
}

type subscriber struct {
	id int
	fn func(Event)
}

func (o *observers) subscribe(fn func(Event)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// publish queues the events for delivery.
func (o *observers) publish(events ...Event) {
	if len(events) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.subs) == 0 {
		return
	}

	o.queue = append(o.queue, events...)
	if !o.draining {
		o.draining = true
		go o.drain()
	}
}

// drain delivers queued events until the queue is empty.
func (o *observers) drain() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for len(o.queue) != 0 {
		ev := o.queue[0]
		o.queue = o.queue[1:]
		subs := o.subs

		o.mu.Unlock()
		for _, s := range subs {
			s.fn(ev)
		}
		o.mu.Lock()
	}

	o.draining = false
	if o.idle != nil {
		o.idle.Broadcast()
	}
}

// wait blocks until all queued events have been delivered.
func (o *observers) wait() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.idle == nil {
		o.idle = sync.NewCond(&o.mu)
	}
	for o.draining {
		o.idle.Wait()
	}
}
