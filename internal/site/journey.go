package site

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/content"
	"github.com/chunshen/portfolio/internal/highlight"
	"github.com/chunshen/portfolio/internal/timeline"
)

// journeyView is the journey derived from one snapshot.
type journeyView struct {
	version uint64
	journey timeline.Journey
	rows    []milestoneRow
}

// milestoneRow is one rendered row: the milestone, its labels and the events
// attributed to it.
type milestoneRow struct {
	content.Milestone
	Index      int             `json:"index"`
	StartLabel string          `json:"start_label"`
	EndLabel   string          `json:"end_label"`
	Events     []content.Event `json:"events,omitempty"`
}

func (s *Server) buildJourney(snap *content.Snapshot) *journeyView {
	now := content.NewYearMonth(s.now())
	j := timeline.Build(snap.Dataset, now)

	rows := make([]milestoneRow, j.Len())
	for i, m := range j.Milestones {
		rows[i] = milestoneRow{
			Milestone:  m,
			Index:      i + 1,
			StartLabel: m.StartDate.Format(),
			EndLabel:   m.EndDate.Format(),
		}
		if j.HasEvents(i) {
			rows[i].Events = j.Events[i]
		}
	}

	if len(j.Unassigned) > 0 {
		s.logger.Debug("Events outside every milestone are hidden",
			zap.Int("count", len(j.Unassigned)), zap.Uint64("version", snap.Version))
	}
	return &journeyView{version: snap.Version, journey: j, rows: rows}
}

// currentJourney returns the derived journey, rebuilding it only when the
// calendar month has moved on since it was built.
func (s *Server) currentJourney() *journeyView {
	jv := s.journey.Load()
	if jv != nil && jv.journey.Now == content.NewYearMonth(s.now()) {
		return jv
	}
	fresh := s.buildJourney(s.content.Current())
	if s.journey.CompareAndSwap(jv, fresh) {
		return fresh
	}
	return s.journey.Load()
}

func (s *Server) handleJourney(c *gin.Context) {
	jv := s.currentJourney()
	c.JSON(http.StatusOK, gin.H{
		"version":    jv.version,
		"now":        jv.journey.Now,
		"counter":    jv.journey.Counter(0),
		"milestones": jv.rows,
	})
}

type highlightRequest struct {
	Previous *highlight.State   `json:"previous"`
	Viewport highlight.Viewport `json:"viewport"`
	Layout   highlight.Layout   `json:"layout"`
}

// handleHighlight runs one stateless computation for clients that keep the
// previous state themselves.
func (s *Server) handleHighlight(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	prev := highlight.Initial
	if req.Previous != nil {
		prev = *req.Previous
	}
	state := highlight.Compute(prev, req.Viewport, req.Layout, s.highlightOptions())
	c.JSON(http.StatusOK, gin.H{
		"state":   state,
		"counter": s.currentJourney().journey.Counter(state.ActiveIndex),
	})
}
