package timeline

import (
	"testing"
	"time"

	"github.com/cwarden/eventscope/internal/event"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 8, 19, hour, minute, 0, 0, time.Local)
}

func dur(d time.Duration) *time.Duration {
	return &d
}

func lanesByID(assignments []Assignment) map[string]int {
	lanes := make(map[string]int)
	for _, a := range assignments {
		lanes[a.Event.ID] = a.Lane
	}
	return lanes
}

func TestLayoutDay(t *testing.T) {
	t.Run("EmptyDay", func(t *testing.T) {
		got := LayoutDay(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty, non-nil assignments, got %v", got)
		}
	})

	t.Run("StaggeredMorning", func(t *testing.T) {
		events := []event.Event{
			{ID: "nine", Start: at(9, 0), Duration: dur(time.Hour)},
			{ID: "nine-thirty", Start: at(9, 30), Duration: dur(time.Hour)},
			{ID: "ten", Start: at(10, 0), Duration: dur(time.Hour)},
		}

		got := LayoutDay(events)
		lanes := lanesByID(got)

		want := map[string]int{"nine": 0, "nine-thirty": 1, "ten": 0}
		for id, lane := range want {
			if lanes[id] != lane {
				t.Errorf("%s in lane %d, want %d", id, lanes[id], lane)
			}
		}
		for _, a := range got {
			if a.LaneCount != 2 {
				t.Errorf("%s has LaneCount %d, want 2", a.Event.ID, a.LaneCount)
			}
		}
	})

	t.Run("ThreeMutuallyOverlapping", func(t *testing.T) {
		events := []event.Event{
			{ID: "a", Start: at(14, 0), Duration: dur(2 * time.Hour)},
			{ID: "b", Start: at(14, 15), Duration: dur(2 * time.Hour)},
			{ID: "c", Start: at(14, 30)},
		}

		got := LayoutDay(events)
		seen := make(map[int]bool)
		for _, a := range got {
			if a.LaneCount != 3 {
				t.Errorf("LaneCount = %d, want 3", a.LaneCount)
			}
			if seen[a.Lane] {
				t.Errorf("lane %d reused by overlapping event %s", a.Lane, a.Event.ID)
			}
			seen[a.Lane] = true
		}
	})

	t.Run("DefaultDurationIsOneHour", func(t *testing.T) {
		events := []event.Event{
			{ID: "open", Start: at(8, 0)},
			{ID: "inside", Start: at(8, 59)},
			{ID: "after", Start: at(9, 0)},
		}

		lanes := lanesByID(LayoutDay(events))
		if lanes["open"] == lanes["inside"] {
			t.Error("event starting inside the default hour should get its own lane")
		}
		if lanes["after"] != lanes["open"] {
			t.Errorf("event starting at the default end should reuse lane 0, got %d", lanes["after"])
		}
	})

	t.Run("SortsByStartKeepingTies", func(t *testing.T) {
		events := []event.Event{
			{ID: "late", Start: at(16, 0)},
			{ID: "tie-1", Start: at(12, 0)},
			{ID: "tie-2", Start: at(12, 0)},
		}

		got := LayoutDay(events)
		order := []string{got[0].Event.ID, got[1].Event.ID, got[2].Event.ID}
		want := []string{"tie-1", "tie-2", "late"}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("order = %v, want %v", order, want)
			}
		}
		if got[0].Lane != 0 || got[1].Lane != 1 {
			t.Errorf("tied events should fill lanes in input order: %d, %d", got[0].Lane, got[1].Lane)
		}
	})

	t.Run("PointsIntoInput", func(t *testing.T) {
		events := []event.Event{{ID: "x", Start: at(7, 0)}}
		got := LayoutDay(events)
		if got[0].Event != &events[0] {
			t.Error("assignment should reference the caller's event")
		}
	})
}

func TestLayoutDayDeterministic(t *testing.T) {
	events := []event.Event{
		{ID: "1", Start: at(9, 0), Duration: dur(3 * time.Hour)},
		{ID: "2", Start: at(9, 0), Duration: dur(30 * time.Minute)},
		{ID: "3", Start: at(9, 45)},
		{ID: "4", Start: at(11, 0)},
		{ID: "5", Start: at(10, 30), Duration: dur(2 * time.Hour)},
	}

	first := lanesByID(LayoutDay(events))
	for run := 0; run < 10; run++ {
		again := lanesByID(LayoutDay(events))
		for id, lane := range first {
			if again[id] != lane {
				t.Fatalf("run %d: %s moved from lane %d to %d", run, id, lane, again[id])
			}
		}
	}
}

func TestLayoutDaySeparatesOverlaps(t *testing.T) {
	events := []event.Event{
		{ID: "1", Start: at(9, 0), Duration: dur(3 * time.Hour)},
		{ID: "2", Start: at(9, 0), Duration: dur(30 * time.Minute)},
		{ID: "3", Start: at(9, 45)},
		{ID: "4", Start: at(11, 0)},
		{ID: "5", Start: at(10, 30), Duration: dur(2 * time.Hour)},
		{ID: "6", Start: at(13, 0)},
	}

	got := LayoutDay(events)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			if Overlaps(*got[i].Event, *got[j].Event) && got[i].Lane == got[j].Lane {
				t.Errorf("%s and %s overlap but share lane %d", got[i].Event.ID, got[j].Event.ID, got[i].Lane)
			}
		}
	}

	// 10:30-11:00 has events 1, 3, 5 active; 11:00-11:30 has 1, 4, 5.
	if got[0].LaneCount != 3 {
		t.Errorf("LaneCount = %d, want 3", got[0].LaneCount)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b event.Event
		want bool
	}{
		{"touching", event.Event{Start: at(9, 0)}, event.Event{Start: at(10, 0)}, false},
		{"nested", event.Event{Start: at(9, 0), Duration: dur(3 * time.Hour)}, event.Event{Start: at(10, 0)}, true},
		{"identical", event.Event{Start: at(9, 0)}, event.Event{Start: at(9, 0)}, true},
		{"disjoint", event.Event{Start: at(9, 0), Duration: dur(15 * time.Minute)}, event.Event{Start: at(9, 30)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(a, b) = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(b, a) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventsOn(t *testing.T) {
	events := []event.Event{
		{ID: "today", Start: at(23, 30)},
		{ID: "tomorrow", Start: at(0, 0).AddDate(0, 0, 1)},
		{ID: "early", Start: at(0, 0)},
	}

	got := EventsOn(events, at(12, 0))
	if len(got) != 2 || got[0].ID != "today" || got[1].ID != "early" {
		t.Errorf("EventsOn returned %v", got)
	}
}

func TestRect(t *testing.T) {
	g := DefaultGeometry
	ev := event.Event{Start: at(9, 45)}

	tests := []struct {
		name string
		a    Assignment
		want Rect
	}{
		{"single lane", Assignment{Event: &ev, Lane: 0, LaneCount: 1}, Rect{Left: 60, Top: 360, Width: 215, Height: 35}},
		{"second of two", Assignment{Event: &ev, Lane: 1, LaneCount: 2}, Rect{Left: 170, Top: 360, Width: 105, Height: 35}},
		{"third of three", Assignment{Event: &ev, Lane: 2, LaneCount: 3}, Rect{Left: 206, Top: 360, Width: 68, Height: 35}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Rect(tt.a); got != tt.want {
				t.Errorf("Rect = %+v, want %+v", got, tt.want)
			}
		})
	}

	if g.DayHeight() != 960 {
		t.Errorf("DayHeight = %d, want 960", g.DayHeight())
	}
}

func TestEventsOnConvertsToViewZone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// 23:30 UTC is 18:30 in Chicago, still Oct 3
	events := []event.Event{{ID: "late", Start: time.Date(2025, 10, 3, 23, 30, 0, 0, time.UTC)}}
	got := EventsOn(events, time.Date(2025, 10, 3, 0, 0, 0, 0, chicago))
	if len(got) != 1 {
		t.Fatalf("expected the event on Oct 3 in Chicago, got %d", len(got))
	}
	if got[0].Start.Location() != chicago || got[0].Start.Hour() != 18 {
		t.Errorf("start = %v, want 18:30 Chicago time", got[0].Start)
	}
	if !got[0].Start.Equal(events[0].Start) {
		t.Error("conversion must keep the instant")
	}
	if top := DefaultGeometry.Rect(Assignment{Event: &got[0], LaneCount: 1}).Top; top != 18*40 {
		t.Errorf("block top = %d, want the 18:00 row", top)
	}
	if events[0].Start.Location() != time.UTC {
		t.Error("input events must not be modified")
	}
}
