package reconcile

import (
	"sort"
	"sync"
	"time"
)

// DefaultDebounce is the delay used for live-edit re-checks
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces repeated triggers per key. Only the latest function
// registered for a key runs, once the key has been quiet for the delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingCall
	gen     uint64
	stopped bool
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
	gen   uint64
}

// NewDebouncer creates a debouncer; a non-positive delay uses DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingCall),
	}
}

// Trigger schedules fn for key, replacing anything already scheduled for it
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if call, ok := d.pending[key]; ok {
		call.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[key] = &pendingCall{
		fn:    fn,
		gen:   gen,
		timer: time.AfterFunc(d.delay, func() { d.fire(key, gen) }),
	}
}

func (d *Debouncer) fire(key string, gen uint64) {
	d.mu.Lock()
	call, ok := d.pending[key]
	// a newer trigger replaced this one after its timer had already fired
	if !ok || call.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	call.fn()
}

// Flush runs every pending call now, in key order
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	calls := make([]func(), 0, len(keys))
	for _, k := range keys {
		call := d.pending[k]
		call.timer.Stop()
		calls = append(calls, call.fn)
		delete(d.pending, k)
	}
	d.mu.Unlock()

	for _, fn := range calls {
		fn()
	}
}

// Pending returns the number of scheduled keys
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop drops pending calls and ignores later triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for k, call := range d.pending {
		call.timer.Stop()
		delete(d.pending, k)
	}
}
