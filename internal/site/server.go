// Package site serves the portfolio pages, the journey API and the admin
// area over gin.
package site

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/config"
	"github.com/chunshen/portfolio/internal/contact"
	"github.com/chunshen/portfolio/internal/content"
	"github.com/chunshen/portfolio/internal/highlight"
	"github.com/chunshen/portfolio/internal/logging"
	"github.com/chunshen/portfolio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options collects the server's collaborators.
type Options struct {
	Config  config.Config
	Content *content.Store
	DB      *store.Store
	// Relay delivers contact messages. Nil means visitors get a mailto: link.
	Relay  contact.Relay
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Clock builds the frame clock for each view session. Defaults to a
	// ticker at Config.Highlight.FrameInterval.
	Clock func() highlight.FrameClock
}

// Server is the HTTP application.
type Server struct {
	cfg     config.Config
	content *content.Store
	db      *store.Store
	relay   contact.Relay
	logger  *zap.Logger
	now     func() time.Time

	engine  *gin.Engine
	journey atomic.Pointer[journeyView]
	views   *viewRegistry

	sweepInterval time.Duration

	adminToken  string
	hashingSalt string

	// background visitor writes, drained by Close
	tracking sync.WaitGroup
}

func New(opts Options) (*Server, error) {
	if opts.Content == nil {
		return nil, errors.New("site: content store is required")
	}
	if opts.DB == nil {
		return nil, errors.New("site: database is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cfg := opts.Config
	if opts.Clock == nil {
		interval := cfg.Highlight.FrameInterval
		opts.Clock = func() highlight.FrameClock { return highlight.NewTickerClock(interval) }
	}

	s := &Server{
		cfg:     cfg,
		content: opts.Content,
		db:      opts.DB,
		relay:   opts.Relay,
		logger:  logging.OrNop(opts.Logger),
		now:     opts.Now,

		sweepInterval: viewSweepInterval,
	}
	s.views = newViewRegistry(cfg.Highlight.MaxViews, s.highlightOptions(), opts.Clock, opts.Now)

	var err error
	if s.adminToken, err = randomToken(); err != nil {
		return nil, err
	}
	if s.hashingSalt, err = randomToken(); err != nil {
		return nil, err
	}

	// The journey is derived once per dataset, never per request.
	s.content.Subscribe(func(snap *content.Snapshot) {
		s.journey.Store(s.buildJourney(snap))
	})

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Server) highlightOptions() highlight.Options {
	return highlight.Options{
		FadeBuffer:       s.cfg.Highlight.FadeBuffer,
		NarrowBreakpoint: s.cfg.Highlight.NarrowBreakpoint,
	}
}

func (s *Server) routes() error {
	gin.SetMode(s.cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.visitorTracking())

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	if s.cfg.Server.Static != "" {
		r.Static("/static", s.cfg.Server.Static)
	}

	r.GET("/", s.handleHome)
	r.GET("/journey", s.handleJourneyPage)
	r.GET("/portfolio", s.handlePortfolioPage)
	r.GET("/resume", s.handleResumePage)
	r.GET("/resume.pdf", s.handleResumeFile)
	r.GET("/contact-form", s.handleContactForm)
	r.POST("/contact", s.handleContact)
	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.GET("/journey", s.handleJourney)
	api.POST("/journey/highlight", s.handleHighlight)
	api.POST("/journey/views", s.handleCreateView)
	api.POST("/journey/views/:id/events", s.handleViewEvent)
	api.GET("/journey/views/:id/stream", s.handleViewStream)
	api.DELETE("/journey/views/:id", s.handleDeleteView)
	api.GET("/projects", s.handleProjects)
	api.GET("/typewriter", s.handleTypewriter)
	api.POST("/contact", s.handleContactAPI)

	s.setupAdminRoutes(r)

	s.engine = r
	return nil
}

// Handler exposes the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Close tears down every open view session and waits for pending visitor
// writes.
func (s *Server) Close() {
	s.views.CloseAll()
	s.tracking.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	snap := s.content.Current()
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"data_version": snap.Version,
		"loaded_at":    snap.LoadedAt,
		"views":        s.views.Len(),
	})
}
