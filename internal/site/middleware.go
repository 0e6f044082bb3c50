package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chunshen/portfolio/internal/store"
)

// requestLogger logs each request through zap.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", s.hashIP(c.ClientIP())),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			s.logger.Error("Request", fields...)
		case strings.HasPrefix(c.Request.URL.Path, "/api/journey/views/"):
			// scroll events arrive many times a second
			s.logger.Debug("Request", fields...)
		default:
			s.logger.Info("Request", fields...)
		}
	}
}

// hashIP keeps addresses out of storage and logs. The salt lives for the
// process lifetime, so hashes are consistent per IP until restart.
func (s *Server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(sum[:])[:16]
}

var untrackedPrefixes = []string{
	"/static/",
	"/assets/",
	"/api/",
	"/admin",
	"/favicon",
	"/privacy",
	"/healthz",
}

// visitorTracking records page views with hashed IPs. Do Not Track is
// respected.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != "GET" || c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		visit := store.VisitorMetric{
			HashedIP:  s.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: s.now(),
		}
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.RecordVisit(ctx, visit); err != nil {
				s.logger.Warn("Error recording visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// CleanupVisitors deletes visitor records older than the retention window.
func (s *Server) CleanupVisitors(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, -s.cfg.Privacy.RetentionMonths, 0)
	n, err := s.db.CleanupVisits(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Privacy cleanup removed old visitor records",
			zap.Int64("rows", n), zap.Int("retention_months", s.cfg.Privacy.RetentionMonths))
	}
	return n, nil
}

// RunMaintenance runs the retention cleanup now and then daily, and closes
// idle view sessions every sweep interval, until ctx is cancelled.
func (s *Server) RunMaintenance(ctx context.Context) error {
	cleanup := time.NewTicker(24 * time.Hour)
	defer cleanup.Stop()
	sweep := time.NewTicker(s.sweepInterval)
	defer sweep.Stop()

	s.runCleanup(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-cleanup.C:
			s.runCleanup(ctx)
		case <-sweep.C:
			if n := s.views.Sweep(viewIdleTimeout); n > 0 {
				s.logger.Debug("Closed idle views", zap.Int("views", n))
			}
		}
	}
}

func (s *Server) runCleanup(ctx context.Context) {
	if _, err := s.CleanupVisitors(ctx); err != nil {
		s.logger.Error("Privacy cleanup failed", zap.Error(err))
	}
}
