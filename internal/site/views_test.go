package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunshen/portfolio/internal/config"
	"github.com/chunshen/portfolio/internal/highlight"
)

const viewLayout = `{
	"container_top": 900,
	"track_height": 1200,
	"rows": [{"top": 1000, "bottom": 1400}, {"top": 1500, "bottom": 1900}]
}`

// streamRecorder lets gin's Stream run against a recorder.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func openView(t *testing.T, env *testEnv) (string, *manualClock) {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/journey/views", viewLayout)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID     string          `json:"id"`
		Stream string          `json:"stream"`
		State  highlight.State `json:"state"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, "/api/journey/views/"+resp.ID+"/stream", resp.Stream)
	assert.Equal(t, highlight.Initial, resp.State)
	return resp.ID, env.lastClock(t)
}

func scrollTo(t *testing.T, env *testEnv, id string, y float64) {
	t.Helper()
	ev := highlight.Event{
		Type:     highlight.Scroll,
		Viewport: highlight.Viewport{ScrollY: y, Width: 1280, Height: 800},
	}
	w := env.do(t, http.MethodPost, "/api/journey/views/"+id+"/events", ev)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
}

func TestViewCoalescesEvents(t *testing.T) {
	env := newTestEnv(t, nil)
	id, clock := openView(t, env)

	v, err := env.srv.views.Get(id)
	require.NoError(t, err)

	for _, y := range []float64{100, 400, 700, 1100} {
		scrollTo(t, env, id, y)
	}
	clock.tick()

	select {
	case s := <-v.tracker.States():
		// cursor = 1100 + 400 lands on the second row
		assert.Equal(t, 2, s.ActiveIndex)
		assert.InDelta(t, 600, s.Offset, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("no state published")
	}
	assert.Equal(t, uint64(1), v.tracker.Computations())
}

func TestViewStream(t *testing.T) {
	env := newTestEnv(t, nil)
	id, clock := openView(t, env)

	v, err := env.srv.views.Get(id)
	require.NoError(t, err)
	scrollTo(t, env, id, 800)
	clock.tick()
	// Closing the tracker leaves the computed state buffered and then ends
	// the stream.
	v.tracker.Close()

	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	req := httptest.NewRequest(http.MethodGet, "/api/journey/views/"+id+"/stream", nil)
	env.srv.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "event:state")
	assert.Contains(t, body, `"active_index":1`)
	assert.Contains(t, body, `"counter":"01 / 02"`)
	assert.Equal(t, 0, env.srv.views.Len(), "closing the stream unmounts the view")
}

func TestViewDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	id, _ := openView(t, env)
	assert.Equal(t, 1, env.srv.views.Len())

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/journey/views/"+id, nil).Code)
	assert.Equal(t, 0, env.srv.views.Len())

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/journey/views/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/journey/views/"+id+"/events", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/journey/views/"+id+"/stream", nil).Code)
}

func TestViewLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config, _ *Options) { c.Highlight.MaxViews = 1 })
	openView(t, env)

	w := env.do(t, http.MethodPost, "/api/journey/views", viewLayout)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestViewRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/journey/views", `[`).Code)

	id, _ := openView(t, env)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/journey/views/"+id+"/events", `{"type": "x"`).Code)
}

func TestViewSweep(t *testing.T) {
	env := newTestEnv(t, nil)
	openView(t, env)
	id, _ := openView(t, env)

	env.setNow(env.Now().Add(viewIdleTimeout / 2))
	scrollTo(t, env, id, 100)

	env.setNow(env.Now().Add(viewIdleTimeout/2 + time.Second))
	assert.Equal(t, 1, env.srv.views.Sweep(viewIdleTimeout))
	_, err := env.srv.views.Get(id)
	assert.NoError(t, err, "recently active view survives")
}

func TestCloseUnmountsViews(t *testing.T) {
	env := newTestEnv(t, nil)
	openView(t, env)
	openView(t, env)

	env.srv.Close()
	assert.Equal(t, 0, env.srv.views.Len())
}

func streaming(v *view) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.streaming
}

func TestOpenStreamKeepsViewAlive(t *testing.T) {
	env := newTestEnv(t, nil)
	id, _ := openView(t, env)
	v, err := env.srv.views.Get(id)
	require.NoError(t, err)

	rec := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest(http.MethodGet, "/api/journey/views/"+id+"/stream", nil)
		env.srv.Handler().ServeHTTP(rec, req)
	}()
	require.Eventually(t, func() bool { return streaming(v) }, 2*time.Second, 5*time.Millisecond)

	// a reader who does not scroll for a long while keeps the view
	env.setNow(env.Now().Add(viewIdleTimeout + time.Minute))
	assert.Equal(t, 0, env.srv.views.Sweep(viewIdleTimeout))
	scrollTo(t, env, id, 800)

	// one stream per view
	w := env.do(t, http.MethodGet, "/api/journey/views/"+id+"/stream", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/journey/views/"+id, nil).Code)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after delete")
	}
	assert.Equal(t, 0, env.srv.views.Len())
}

func TestMaintenanceSweepsIdleViews(t *testing.T) {
	env := newTestEnv(t, nil)
	openView(t, env)
	env.srv.sweepInterval = 5 * time.Millisecond
	env.setNow(env.Now().Add(viewIdleTimeout + time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.srv.RunMaintenance(ctx) }()

	assert.Eventually(t, func() bool { return env.srv.views.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestViewResizeUpdatesLayout(t *testing.T) {
	env := newTestEnv(t, nil)
	id, clock := openView(t, env)
	v, err := env.srv.views.Get(id)
	require.NoError(t, err)

	// on a narrow screen the rows stack and a card lands under the beam
	narrow := highlight.Layout{
		ContainerTop: 900,
		TrackHeight:  2400,
		Rows:         []*highlight.Rect{{Top: 1000, Bottom: 1100}, {Top: 1150, Bottom: 1600}},
		Cards:        []*highlight.Rect{{Top: 1180, Bottom: 1260}},
	}
	ev := highlight.Event{
		Type:     highlight.Resize,
		Viewport: highlight.Viewport{ScrollY: 800, Width: 400, Height: 800},
		Layout:   &narrow,
	}
	w := env.do(t, http.MethodPost, "/api/journey/views/"+id+"/events", ev)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	clock.tick()

	select {
	case s := <-v.tracker.States():
		assert.Equal(t, 2, s.ActiveIndex)
		assert.Equal(t, 0.0, s.Opacity)
	case <-time.After(2 * time.Second):
		t.Fatal("no state published")
	}
}
