package archive

// progressTracker computes the percentage of an operation from the number of bytes processed, or the number of
// entries processed if the total number of bytes is zero.
type progressTracker struct {
	fn      ProgressFunc
	n       int
	total   int64
	count   int
	written int64
	last    float64
}

func newProgressTracker(fn ProgressFunc, n int, total int64) *progressTracker {
	return &progressTracker{fn: fn, n: n, total: total}
}

// start reports that the named entry is being processed.
func (t *progressTracker) start(name string) {
	t.report(name)
}

// advance marks the current entry as done with the given number of bytes.
func (t *progressTracker) advance(name string, size int64) {
	t.count++
	t.written += size
	t.report(name)
}

// finish reports 100% with the last entry name.
func (t *progressTracker) finish(name string) {
	t.count, t.written = t.n, t.total
	t.report(name)
}

func (t *progressTracker) report(name string) {
	if t.fn == nil {
		return
	}

	var p float64
	switch {
	case t.total > 0:
		p = float64(t.written) / float64(t.total) * 100
	case t.n > 0:
		p = float64(t.count) / float64(t.n) * 100
	default:
		p = 100
	}

	// written can exceed total if the container under-reported sizes.
	p = min(max(p, t.last), 100)
	t.last = p

	t.fn(Progress{CurrentEntry: name, Percentage: p})
}
