package site

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/highlight"
)

// viewIdleTimeout is how long a view session may go without events or an
// open stream before it is swept.
const viewIdleTimeout = 10 * time.Minute

// viewSweepInterval is how often RunMaintenance looks for idle views.
const viewSweepInterval = time.Minute

var (
	errTooManyViews    = errors.New("too many open views")
	errViewNotFound    = errors.New("view not found")
	errAlreadyStreamed = errors.New("view already has an open stream")
)

// view is one mounted journey page: its measurements, the listener registry
// it feeds and the tracker coalescing its events.
type view struct {
	id         string
	dispatcher *highlight.Dispatcher
	tracker    *highlight.Tracker

	mu        sync.Mutex
	lastSeen  time.Time
	streaming bool
}

func (v *view) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

// attach marks the view as having an open stream. Only one stream may read a
// view's states.
func (v *view) attach() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.streaming {
		return false
	}
	v.streaming = true
	return true
}

func (v *view) detach(now time.Time) {
	v.mu.Lock()
	v.streaming = false
	v.lastSeen = now
	v.mu.Unlock()
}

// idle reports whether the view has had neither events nor an open stream
// since cutoff.
func (v *view) idle(cutoff time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.streaming && v.lastSeen.Before(cutoff)
}

type viewRegistry struct {
	max   int
	opts  highlight.Options
	clock func() highlight.FrameClock
	now   func() time.Time

	mu    sync.Mutex
	views map[string]*view
}

func newViewRegistry(limit int, opts highlight.Options, clock func() highlight.FrameClock, now func() time.Time) *viewRegistry {
	return &viewRegistry{
		max:   limit,
		opts:  opts,
		clock: clock,
		now:   now,
		views: make(map[string]*view),
	}
}

func (r *viewRegistry) Create(l highlight.Layout) (*view, error) {
	r.Sweep(viewIdleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) >= r.max {
		return nil, errTooManyViews
	}

	d := highlight.NewDispatcher()
	v := &view{
		id:         uuid.NewString(),
		dispatcher: d,
		tracker:    highlight.NewTracker(d, l, r.opts, r.clock()),
		lastSeen:   r.now(),
	}
	r.views[v.id] = v
	return v, nil
}

func (r *viewRegistry) Get(id string) (*view, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok {
		return nil, errViewNotFound
	}
	return v, nil
}

// Remove unmounts a view: its listener is deregistered and its frame loop
// stopped.
func (r *viewRegistry) Remove(id string) bool {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		v.tracker.Close()
	}
	return ok
}

// Sweep removes views idle for longer than maxIdle. Views with an open
// stream are never idle.
func (r *viewRegistry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	var stale []*view
	for id, v := range r.views {
		if v.idle(cutoff) {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.tracker.Close()
	}
	return len(stale)
}

func (r *viewRegistry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*view)
	r.mu.Unlock()

	for _, v := range views {
		v.tracker.Close()
	}
}

func (r *viewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (s *Server) handleCreateView(c *gin.Context) {
	var layout highlight.Layout
	if err := c.ShouldBindJSON(&layout); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := s.views.Create(layout)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	s.logger.Debug("View opened", zap.String("view", v.id), zap.Int("rows", len(layout.Rows)))
	c.JSON(http.StatusCreated, gin.H{
		"id":     v.id,
		"stream": "/api/journey/views/" + v.id + "/stream",
		"state":  highlight.Initial,
	})
}

func (s *Server) handleViewEvent(c *gin.Context) {
	v, err := s.views.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var ev highlight.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v.touch(s.now())
	v.dispatcher.Dispatch(ev)
	c.Status(http.StatusAccepted)
}

// handleViewStream pushes coalesced states as server-sent events. Closing the
// stream unmounts the view.
func (s *Server) handleViewStream(c *gin.Context) {
	v, err := s.views.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !v.attach() {
		c.JSON(http.StatusConflict, gin.H{"error": errAlreadyStreamed.Error()})
		return
	}
	defer s.views.Remove(v.id)
	defer v.detach(s.now())

	counter := s.currentJourney().journey
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case state, ok := <-v.tracker.States():
			if !ok {
				return false
			}
			v.touch(s.now())
			c.SSEvent("state", gin.H{
				"state":   state,
				"counter": counter.Counter(state.ActiveIndex),
			})
			return true
		}
	})
	s.logger.Debug("View stream closed", zap.String("view", v.id))
}

func (s *Server) handleDeleteView(c *gin.Context) {
	if !s.views.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": errViewNotFound.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
