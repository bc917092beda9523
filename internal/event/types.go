package event

import (
	"strings"
	"time"

	"github.com/cwarden/eventscope/internal/geo"
)

// DefaultDuration is assumed for overlap math when an event has no end.
const DefaultDuration = time.Hour

type Coordinate = geo.Coordinate

type Event struct {
	ID          string
	Source      string
	Title       string
	Description string
	Category    string
	Start       time.Time
	Duration    *time.Duration // nil when the event has no explicit end
	Venue       string
	Address     string
	City        string
	State       string
	Zip         string
	URL         string
	Coordinate  *Coordinate // nil until geocoded
}

// End returns Start plus Duration, or plus DefaultDuration when unset.
func (e Event) End() time.Time {
	if e.Duration != nil {
		return e.Start.Add(*e.Duration)
	}
	return e.Start.Add(DefaultDuration)
}

// HasCoordinate reports whether the event can be placed on a map.
func (e Event) HasCoordinate() bool {
	return e.Coordinate != nil
}

// FullAddress is the geocoding query for an event without a coordinate.
func (e Event) FullAddress() string {
	var parts []string
	for _, p := range []string{e.Address, e.City, e.State + " " + e.Zip} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Category int

const (
	CategoryOther Category = iota
	CategoryMusic
	CategorySport
	CategoryAcademic
	CategoryCareer
)

var categoryKeywords = []struct {
	keyword  string
	category Category
}{
	{"music", CategoryMusic},
	{"sport", CategorySport},
	{"academic", CategoryAcademic},
	{"career", CategoryCareer},
}

// ClassifyCategory maps a free-form category label to a Category. The
// first keyword contained in the lower-cased label wins.
func ClassifyCategory(label string) Category {
	l := strings.ToLower(label)
	for _, k := range categoryKeywords {
		if strings.Contains(l, k.keyword) {
			return k.category
		}
	}
	return CategoryOther
}

func (c Category) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategorySport:
		return "sport"
	case CategoryAcademic:
		return "academic"
	case CategoryCareer:
		return "career"
	default:
		return "other"
	}
}

// Fields holds the input for Repository.InsertEvent.
type Fields struct {
	Title       string
	Category    string
	Start       time.Time
	End         time.Time
	Venue       string
	Address     string
	City        string
	State       string
	Zip         string
	URL         string
	Description string
}

// MonthRange returns the first instant of t's month and of the following month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
