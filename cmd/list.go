package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cwarden/eventscope/internal/session"
	"github.com/cwarden/eventscope/internal/timeline"
	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's events and exit",
	Long: `List the events of one day with the timeline lane each one is drawn
in, after the radius and favorites filters.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Day to list as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(listCmd)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return day, nil
}

func runList(cmd *cobra.Command, args []string) error {
	day, err := parseDay(listDate)
	if err != nil {
		return err
	}

	_, sess, err := openSession(day)
	if err != nil {
		return err
	}

	printDay(cmd.OutOrStdout(), sess, day)
	return nil
}

// printDay writes the lanes of day's visible events.
func printDay(out io.Writer, sess *session.Session, day time.Time) {
	layout := timeline.LayoutDay(timeline.EventsOn(sess.Visible(), day))

	fmt.Fprintf(out, "Events for %s:\n", day.Format(cfg.DateFormat))
	if len(layout) == 0 {
		fmt.Fprintln(out, "No events found.")
		return
	}

	for _, a := range layout {
		ev := a.Event
		timeStr := ev.Start.Format(cfg.TimeFormat) + "-" + ev.End().Format(cfg.TimeFormat)
		fmt.Fprintf(out, "  %s [lane %d/%d] %s", timeStr, a.Lane+1, a.LaneCount, ev.Title)
		if ev.Venue != "" {
			fmt.Fprintf(out, " @ %s", ev.Venue)
		}
		fmt.Fprintln(out)
	}
}
