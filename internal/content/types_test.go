package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearMonthMonths(t *testing.T) {
	tests := []struct {
		name   string
		input  YearMonth
		want   int
		wantOK bool
	}{
		{name: "january", input: "2024-01", want: 2024 * 12, wantOK: true},
		{name: "december", input: "2023-12", want: 2023*12 + 11, wantOK: true},
		{name: "present is not a date", input: Present, wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "month out of range", input: "2024-13", wantOK: false},
		{name: "month zero", input: "2024-00", wantOK: false},
		{name: "not zero padded", input: "2024-1", wantOK: false},
		{name: "slash separator", input: "2024/01", wantOK: false},
		{name: "letters", input: "20a4-01", wantOK: false},
		{name: "full date", input: "2024-01-15", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.input.Months()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestYearMonthOrderingMatchesStringOrdering(t *testing.T) {
	a, b := YearMonth("2023-09"), YearMonth("2024-01")
	am, _ := a.Months()
	bm, _ := b.Months()
	assert.Less(t, am, bm)
	assert.Less(t, string(a), string(b))
}

func TestYearMonthFormat(t *testing.T) {
	assert.Equal(t, "Jul 2023", YearMonth("2023-07").Format())
	assert.Equal(t, "Present", YearMonth("present").Format())
	assert.Equal(t, "Present", YearMonth("Present").Format())
	assert.Equal(t, "soon", YearMonth("soon").Format())
}

func TestNewYearMonth(t *testing.T) {
	ym := NewYearMonth(time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, YearMonth("2025-03"), ym)
	assert.True(t, ym.Valid())
}

func TestEventEndDefaultsToStart(t *testing.T) {
	assert.Equal(t, YearMonth("2024-06"), Event{StartDate: "2024-06"}.End())
	assert.Equal(t, YearMonth("2024-08"), Event{StartDate: "2024-06", EndDate: "2024-08"}.End())
}

func TestProjectStatusStyle(t *testing.T) {
	tests := map[string]string{
		"Deployed":    "status-deployed",
		"in progress": "status-in-progress",
		"PLANNED":     "status-planned",
		"paused":      "status-paused",
		"archived":    "status-default",
		"":            "status-default",
	}
	for status, want := range tests {
		assert.Equal(t, want, Project{Status: status}.StatusStyle(), status)
	}
}

func TestProjectTags(t *testing.T) {
	p := Project{TechStack: []TechStackItem{
		{Field: "Frontend", Tech: []string{"React", "Tailwind"}},
		{Field: "Backend", Tech: []string{"Go"}},
	}}
	assert.Equal(t, []string{"React", "Tailwind", "Go"}, p.Tags())
	assert.Empty(t, Project{}.Tags())
}

func TestDatasetEventsOrder(t *testing.T) {
	ds := Dataset{
		Achievements:   []Event{{Title: "a"}},
		Competitions:   []Event{{Title: "c1"}, {Title: "c2"}},
		Participations: []Event{{Title: "p"}},
		Awards:         []Event{{Title: "w"}},
	}
	var titles []string
	for _, e := range ds.Events() {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"a", "c1", "c2", "p", "w"}, titles)
}
