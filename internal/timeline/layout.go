package timeline

import (
	"sort"
	"time"

	"github.com/cwarden/eventscope/internal/event"
)

// Assignment places one event in a lane of its day.
type Assignment struct {
	Event     *event.Event
	Lane      int
	LaneCount int // total lanes for the day, shared by every event
}

// Overlaps reports whether a and b share any instant. Events that touch
// end-to-start do not overlap.
func Overlaps(a, b event.Event) bool {
	return a.Start.Before(b.End()) && b.Start.Before(a.End())
}

// EventsOn returns the events whose start falls on day's calendar date,
// compared in day's location. The returned copies carry their start in
// that location, so Rect places them on the day's own hour rows.
func EventsOn(events []event.Event, day time.Time) []event.Event {
	y, m, d := day.Date()
	loc := day.Location()

	var out []event.Event
	for _, ev := range events {
		ey, em, ed := ev.Start.In(loc).Date()
		if ey == y && em == m && ed == d {
			ev.Start = ev.Start.In(loc)
			out = append(out, ev)
		}
	}
	return out
}

// LayoutDay partitions one day's events into overlap-free lanes using
// first-fit: events are visited in start order (ties keep input order)
// and each goes into the first lane holding nothing that overlaps it.
// Assignments come back in that visiting order and point into events.
func LayoutDay(events []event.Event) []Assignment {
	if len(events) == 0 {
		return []Assignment{}
	}

	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return events[order[i]].Start.Before(events[order[j]].Start)
	})

	var lanes [][]int
	laneOf := make([]int, len(events))

	for _, idx := range order {
		placed := false
		for l, lane := range lanes {
			if !laneConflicts(events, lane, idx) {
				lanes[l] = append(lanes[l], idx)
				laneOf[idx] = l
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, []int{idx})
			laneOf[idx] = len(lanes) - 1
		}
	}

	out := make([]Assignment, 0, len(events))
	for _, idx := range order {
		out = append(out, Assignment{
			Event:     &events[idx],
			Lane:      laneOf[idx],
			LaneCount: len(lanes),
		})
	}
	return out
}

func laneConflicts(events []event.Event, lane []int, idx int) bool {
	for _, other := range lane {
		if Overlaps(events[other], events[idx]) {
			return true
		}
	}
	return false
}
