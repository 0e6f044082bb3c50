package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

const (
	JourneyFile   = "journey.json"
	PortfolioFile = "portfolio.json"
	AboutFile     = "about.json"
)

type journeyFile struct {
	Academic       []Milestone `json:"Academic"`
	Work           []Milestone `json:"Work"`
	Achievements   []Event     `json:"Achievements"`
	Competitions   []Event     `json:"Competitions"`
	Participations []Event     `json:"Participations"`
	Awards         []Event     `json:"Awards"`
}

type portfolioFile struct {
	Projects []Project `json:"Projects"`
}

// Load reads the data directory. Missing files yield empty lists; files that
// exist but do not decode are errors.
func Load(dir string) (Dataset, error) {
	var ds Dataset

	var jf journeyFile
	if err := readJSON(filepath.Join(dir, JourneyFile), &jf); err != nil {
		return Dataset{}, err
	}
	ds.Academic = stampCategory(jf.Academic, CategoryAcademic)
	ds.Work = stampCategory(jf.Work, CategoryWork)
	ds.Achievements = stampKind(jf.Achievements, KindAchievement)
	ds.Competitions = stampKind(jf.Competitions, KindCompetition)
	ds.Participations = stampKind(jf.Participations, KindParticipation)
	ds.Awards = stampKind(jf.Awards, KindAward)

	var pf portfolioFile
	if err := readJSON(filepath.Join(dir, PortfolioFile), &pf); err != nil {
		return Dataset{}, err
	}
	ds.Projects = pf.Projects

	ds.About = DefaultAbout
	if err := readJSON(filepath.Join(dir, AboutFile), &ds.About); err != nil {
		return Dataset{}, err
	}

	return ds, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", filepath.Base(path), err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func stampCategory(ms []Milestone, c Category) []Milestone {
	for i := range ms {
		ms[i].Category = c
	}
	return ms
}

func stampKind(es []Event, k EventKind) []Event {
	for i := range es {
		es[i].Kind = k
	}
	return es
}
