package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chunshen/portfolio/internal/content"
	"github.com/chunshen/portfolio/internal/timeline"
)

const defaultWidth = 80

var journeyCmd = &cobra.Command{
	Use:   "journey",
	Short: "Print the merged timeline with the events attributed to each milestone",
	Args:  cobra.NoArgs,
	RunE:  runJourney,
}

func runJourney(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ds, err := content.Load(cfg.Data.Dir)
	if err != nil {
		return err
	}
	j := timeline.Build(ds, content.NewYearMonth(time.Now()))
	printJourney(cmd.OutOrStdout(), j, terminalWidth())
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return defaultWidth
	}
	return width
}

func period(m content.Milestone) string {
	return m.StartDate.Format() + " – " + m.EndDate.Format()
}

// pad left-aligns s to a display width.
func pad(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// printJourney writes one row per milestone in display order, each followed
// by its events, clipped to width columns.
func printJourney(w io.Writer, j timeline.Journey, width int) {
	if j.Len() == 0 {
		fmt.Fprintln(w, "No milestones.")
		return
	}

	periodWidth := runewidth.StringWidth("Period")
	for _, m := range j.Milestones {
		periodWidth = max(periodWidth, runewidth.StringWidth(period(m)))
	}
	const indexWidth = 4
	titleWidth := max(width-indexWidth-periodWidth-2, 10)

	line := func(s string) {
		fmt.Fprintln(w, strings.TrimRight(runewidth.Truncate(s, width, "…"), " "))
	}

	line(pad("#", indexWidth) + pad("Period", periodWidth) + "  Title")
	line(strings.Repeat("─", min(width, indexWidth+periodWidth+2+titleWidth)))
	for i, m := range j.Milestones {
		title := runewidth.Truncate(m.Title, titleWidth, "…")
		line(pad(fmt.Sprintf("%02d", i+1), indexWidth) + pad(period(m), periodWidth) + "  " + title)
		if !j.HasEvents(i) {
			continue
		}
		for _, ev := range j.Events[i] {
			line(strings.Repeat(" ", indexWidth) + "· " + pad(string(ev.Kind), 14) + pad(ev.StartDate.Format(), 10) + " " + ev.Title)
		}
	}

	fmt.Fprintf(w, "\n%d milestones", j.Len())
	if n := len(j.Unassigned); n > 0 {
		fmt.Fprintf(w, ", %d events outside every milestone", n)
	}
	fmt.Fprintln(w)
}
