package content

import (
	"strings"
	"time"
)

// Present marks an open-ended date range.
const Present YearMonth = "present"

// YearMonth is a "YYYY-MM" date, or Present. Malformed values are kept as-is
// and reported through Months.
type YearMonth string

// NewYearMonth formats t as a YearMonth.
func NewYearMonth(t time.Time) YearMonth {
	return YearMonth(t.Format("2006-01"))
}

// IsPresent reports whether the value is the open-ended sentinel.
func (ym YearMonth) IsPresent() bool {
	return strings.EqualFold(strings.TrimSpace(string(ym)), string(Present))
}

// Months returns the number of months since year 0, or false when the value
// is not a well-formed "YYYY-MM" date.
func (ym YearMonth) Months() (int, bool) {
	s := string(ym)
	if len(s) != 7 || s[4] != '-' {
		return 0, false
	}
	year, ok := digits(s[:4])
	if !ok {
		return 0, false
	}
	month, ok := digits(s[5:])
	if !ok || month < 1 || month > 12 {
		return 0, false
	}
	return year*12 + month - 1, true
}

// Valid reports whether the value is a well-formed date.
func (ym YearMonth) Valid() bool {
	_, ok := ym.Months()
	return ok
}

// Format renders the value for display, e.g. "Jan 2024" or "Present".
func (ym YearMonth) Format() string {
	if ym.IsPresent() {
		return "Present"
	}
	m, ok := ym.Months()
	if !ok {
		return string(ym)
	}
	return time.Date(m/12, time.Month(m%12+1), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

func digits(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Category distinguishes academic and work milestones. It only affects the
// icon shown next to a row.
type Category string

const (
	CategoryAcademic Category = "academic"
	CategoryWork     Category = "work"
)

// EventKind names the source list an event came from.
type EventKind string

const (
	KindAchievement   EventKind = "achievement"
	KindCompetition   EventKind = "competition"
	KindParticipation EventKind = "participation"
	KindAward         EventKind = "award"
)

type Points struct {
	Title   string   `json:"title,omitempty"`
	Content []string `json:"content"`
}

type Media struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Milestone is one academic or work period.
type Milestone struct {
	StartDate   YearMonth `json:"start_date"`
	EndDate     YearMonth `json:"end_date"`
	Category    Category  `json:"category"`
	Title       string    `json:"title"`
	Heading     string    `json:"heading,omitempty"`
	Description string    `json:"description,omitempty"`
	Points      Points    `json:"points"`
	Media       []Media   `json:"media,omitempty"`
}

// Ongoing reports whether the milestone has no concrete end.
func (m Milestone) Ongoing() bool {
	return m.EndDate.IsPresent()
}

// Event is an achievement, competition, participation or award.
type Event struct {
	StartDate   YearMonth `json:"start_date"`
	EndDate     YearMonth `json:"end_date,omitempty"`
	Kind        EventKind `json:"kind"`
	Title       string    `json:"title"`
	Heading     string    `json:"heading,omitempty"`
	Description string    `json:"description,omitempty"`
	Media       []Media   `json:"media,omitempty"`
}

// End returns the event's end date, falling back to its start.
func (e Event) End() YearMonth {
	if strings.TrimSpace(string(e.EndDate)) == "" {
		return e.StartDate
	}
	return e.EndDate
}

type TechStackItem struct {
	Field string   `json:"field"`
	Tech  []string `json:"tech"`
}

// Project is one portfolio entry.
type Project struct {
	Title       string          `json:"title"`
	Heading     string          `json:"heading,omitempty"`
	Description string          `json:"description"`
	Points      Points          `json:"points"`
	Media       []Media         `json:"media,omitempty"`
	Date        YearMonth       `json:"date,omitempty"`
	Status      string          `json:"status,omitempty"`
	Category    string          `json:"category,omitempty"`
	TechStack   []TechStackItem `json:"techStack"`
	SourceCode  string          `json:"sourceCode,omitempty"`
	LiveSite    string          `json:"liveSite,omitempty"`
}

// Tags flattens the tech stack in declaration order.
func (p Project) Tags() []string {
	var tags []string
	for _, item := range p.TechStack {
		tags = append(tags, item.Tech...)
	}
	return tags
}

// StatusStyle maps a project status to its badge class.
func (p Project) StatusStyle() string {
	switch strings.ToLower(strings.TrimSpace(p.Status)) {
	case "deployed":
		return "status-deployed"
	case "in progress":
		return "status-in-progress"
	case "planned":
		return "status-planned"
	case "paused":
		return "status-paused"
	default:
		return "status-default"
	}
}

// About is the profile text shown on the home page.
type About struct {
	Name  string   `json:"name"`
	Intro string   `json:"intro"`
	Words []string `json:"typewriter"`
}

// Dataset is everything loaded from the data directory. It is never mutated
// after Load returns.
type Dataset struct {
	About          About
	Academic       []Milestone
	Work           []Milestone
	Achievements   []Event
	Competitions   []Event
	Participations []Event
	Awards         []Event
	Projects       []Project
}

// Events concatenates all event lists in a fixed order.
func (d Dataset) Events() []Event {
	n := len(d.Achievements) + len(d.Competitions) + len(d.Participations) + len(d.Awards)
	events := make([]Event, 0, n)
	events = append(events, d.Achievements...)
	events = append(events, d.Competitions...)
	events = append(events, d.Participations...)
	events = append(events, d.Awards...)
	return events
}
