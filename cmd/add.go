package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/spf13/cobra"
)

const addTimeLayout = "2006-01-02 15:04"

var (
	addFields event.Fields
	addStart  string
	addEnd    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an event and show the day it lands on",
	Long: `Add an event to the loaded events and print the day's timeline with it in
place. The events file is not rewritten, so the event only lasts for this run.`,
	Example: `  eventscope add --title "Open mic" --start "2025-10-03 19:00" --venue "Damen Den"`,
	RunE:    runAdd,
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addFields.Title, "title", "", "Event title (required)")
	f.StringVar(&addFields.Category, "category", "", "Event category")
	f.StringVar(&addStart, "start", "", "Start as \"YYYY-MM-DD HH:MM\" (required)")
	f.StringVar(&addEnd, "end", "", "End as \"YYYY-MM-DD HH:MM\" (default one hour after start)")
	f.StringVar(&addFields.Venue, "venue", "", "Venue name")
	f.StringVar(&addFields.Address, "address", "", "Street address")
	f.StringVar(&addFields.City, "city", "", "City")
	f.StringVar(&addFields.State, "state", "", "State")
	f.StringVar(&addFields.Zip, "zip", "", "ZIP code")
	f.StringVar(&addFields.URL, "url", "", "Event link")
	f.StringVar(&addFields.Description, "description", "", "Event description")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	fields := addFields

	start, err := time.ParseInLocation(addTimeLayout, addStart, time.Local)
	if err != nil {
		return fmt.Errorf("invalid --start %q: %w", addStart, err)
	}
	fields.Start = start
	if addEnd != "" {
		end, err := time.ParseInLocation(addTimeLayout, addEnd, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --end %q: %w", addEnd, err)
		}
		fields.End = end
	}

	_, sess, err := openSession(start)
	if err != nil {
		return err
	}

	ctx := context.Background()
	id, err := sess.Repo.InsertEvent(ctx, fields)
	if err != nil {
		return err
	}
	if err := sess.Reload(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %s (%s)\n", fields.Title, id)
	switch ev := sess.Find(id); {
	case ev == nil:
		fmt.Fprintln(out, "Hidden by the current radius or favorites filter.")
	case ev.Coordinate != nil:
		fmt.Fprintf(out, "Mapped at %.4f,%.4f\n", ev.Coordinate.Latitude, ev.Coordinate.Longitude)
	default:
		fmt.Fprintln(out, "No map location.")
	}

	printDay(out, sess, start)
	return nil
}
