package site

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/chunshen/portfolio/internal/content"
	"github.com/chunshen/portfolio/internal/typewriter"
)

var templateFuncs = template.FuncMap{
	"pad": func(i int) string { return fmt.Sprintf("%02d", i) },
}

func (s *Server) handleHome(c *gin.Context) {
	about := s.content.Current().Dataset.About
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": about.Name,
		"about": about,
	})
}

func (s *Server) handleJourneyPage(c *gin.Context) {
	jv := s.currentJourney()
	c.HTML(http.StatusOK, "journey.html", gin.H{
		"title":   "Journey",
		"rows":    jv.rows,
		"counter": jv.journey.Counter(0),
	})
}

type projectCard struct {
	content.Project
	DateLabel string
	Style     string
	Tags      []string
}

func projectCards(projects []content.Project) []projectCard {
	cards := make([]projectCard, len(projects))
	for i, p := range projects {
		cards[i] = projectCard{
			Project: p,
			Style:   p.StatusStyle(),
			Tags:    p.Tags(),
		}
		if p.Date != "" {
			cards[i].DateLabel = p.Date.Format()
		}
	}
	return cards
}

func (s *Server) handlePortfolioPage(c *gin.Context) {
	c.HTML(http.StatusOK, "portfolio.html", gin.H{
		"title":    "Portfolio",
		"projects": projectCards(s.content.Current().Dataset.Projects),
	})
}

func (s *Server) handleProjects(c *gin.Context) {
	projects := s.content.Current().Dataset.Projects
	type entry struct {
		content.Project
		StatusStyle string   `json:"status_style"`
		Tags        []string `json:"tags"`
	}
	out := make([]entry, len(projects))
	for i, p := range projects {
		out[i] = entry{Project: p, StatusStyle: p.StatusStyle(), Tags: p.Tags()}
	}
	c.JSON(http.StatusOK, gin.H{"projects": out})
}

func (s *Server) handleResumePage(c *gin.Context) {
	_, err := os.Stat(s.cfg.Resume.Path)
	c.HTML(http.StatusOK, "resume.html", gin.H{
		"title":     "Résumé",
		"available": err == nil,
	})
}

func (s *Server) handleResumeFile(c *gin.Context) {
	if _, err := os.Stat(s.cfg.Resume.Path); errors.Is(err, os.ErrNotExist) {
		c.String(http.StatusNotFound, "resume not found")
		return
	}
	c.File(s.cfg.Resume.Path)
}

// handleTypewriter returns one full cycle of the hero line animation.
func (s *Server) handleTypewriter(c *gin.Context) {
	words := s.content.Current().Dataset.About.Words
	tw := typewriter.New(words, s.cfg.Typewriter.Speed, s.cfg.Typewriter.Pause, s.cfg.Typewriter.Loop)
	c.JSON(http.StatusOK, gin.H{
		"words":  words,
		"loop":   s.cfg.Typewriter.Loop,
		"frames": tw.Script(typewriter.CycleLength(words)),
	})
}
