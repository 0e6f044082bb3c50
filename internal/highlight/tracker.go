package highlight

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval approximates one display frame at 60 Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameClock delivers frame ticks.
type FrameClock interface {
	Frames() <-chan time.Time
	Stop()
}

type tickerClock struct {
	ticker *time.Ticker
}

// NewTickerClock returns a FrameClock backed by time.Ticker.
func NewTickerClock(interval time.Duration) FrameClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &tickerClock{ticker: time.NewTicker(interval)}
}

func (c *tickerClock) Frames() <-chan time.Time { return c.ticker.C }
func (c *tickerClock) Stop()                    { c.ticker.Stop() }

// Tracker recomputes the highlight state at most once per frame, however many
// scroll or resize events arrive in between.
type Tracker struct {
	opts  Options
	clock FrameClock

	mu     sync.Mutex
	layout Layout
	latest Viewport
	state  State

	scheduled    atomic.Bool
	computations atomic.Uint64

	remove    func()
	out       chan State
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTracker listens on d until Close. A nil clock uses a 60 Hz ticker.
func NewTracker(d *Dispatcher, l Layout, opts Options, clock FrameClock) *Tracker {
	if clock == nil {
		clock = NewTickerClock(DefaultFrameInterval)
	}
	t := &Tracker{
		layout: l,
		opts:   opts,
		clock:  clock,
		state:  Initial,
		out:    make(chan State, 1),
		done:   make(chan struct{}),
	}
	t.remove = d.Listen(t.handle)

	t.wg.Add(1)
	go t.run()
	return t
}

func (t *Tracker) handle(ev Event) {
	t.mu.Lock()
	t.latest = ev.Viewport
	if ev.Layout != nil {
		t.layout = *ev.Layout
	}
	t.mu.Unlock()
	// Only the first event of a frame flips the flag; the rest coalesce.
	t.scheduled.Store(true)
}

func (t *Tracker) run() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case <-t.clock.Frames():
			if !t.scheduled.CompareAndSwap(true, false) {
				continue
			}
			t.publish(t.frame())
		}
	}
}

func (t *Tracker) frame() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = Compute(t.state, t.latest, t.layout, t.opts)
	t.computations.Add(1)
	return t.state
}

// publish keeps only the newest state for slow readers.
func (t *Tracker) publish(s State) {
	select {
	case t.out <- s:
	default:
		select {
		case <-t.out:
		default:
		}
		t.out <- s
	}
}

// States delivers computed states, dropping stale ones a reader missed. The
// channel is closed by Close.
func (t *Tracker) States() <-chan State {
	return t.out
}

// State returns the most recently computed state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Computations returns how many frames actually ran Compute.
func (t *Tracker) Computations() uint64 {
	return t.computations.Load()
}

// Close deregisters the listener and stops the frame loop. It is safe to call
// more than once.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.remove()
		close(t.done)
		t.wg.Wait()
		t.clock.Stop()
		close(t.out)
	})
}
