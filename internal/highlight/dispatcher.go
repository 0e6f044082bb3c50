package highlight

import "sync"

type EventType int

const (
	Scroll EventType = iota
	Resize
)

func (t EventType) String() string {
	switch t {
	case Scroll:
		return "scroll"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event carries the viewport as observed when a scroll or resize happened.
// A resize may also carry the layout measured after reflow; nil keeps the
// previous one.
type Event struct {
	Type     EventType `json:"type"`
	Viewport Viewport  `json:"viewport"`
	Layout   *Layout   `json:"layout,omitempty"`
}

// Dispatcher fans scroll and resize events out to registered listeners.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Event)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[int]func(Event))}
}

// Listen registers fn and returns the function that removes it. Calling
// remove more than once is harmless.
func (d *Dispatcher) Listen(fn func(Event)) (remove func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// Dispatch delivers ev to every listener synchronously.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	fns := make([]func(Event), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
