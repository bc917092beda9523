package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwarden/eventscope/internal/event"
)

// File is the on-disk shape of an events file.
type File struct {
	Events    []Record         `yaml:"events"`
	Favorites []string         `yaml:"favorites,omitempty"`
	Places    map[string]Place `yaml:"places,omitempty"`
}

// Place pins an address query to a coordinate, so events listed by
// address can be mapped without a network geocoder.
type Place struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Record is one event in an events file. Times use "2006-01-02 15:04" in
// the local zone, or RFC 3339.
type Record struct {
	ID          string   `yaml:"id"`
	Source      string   `yaml:"source,omitempty"`
	Title       string   `yaml:"title"`
	Category    string   `yaml:"category,omitempty"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end,omitempty"`
	Venue       string   `yaml:"venue,omitempty"`
	Address     string   `yaml:"address,omitempty"`
	City        string   `yaml:"city,omitempty"`
	State       string   `yaml:"state,omitempty"`
	Zip         string   `yaml:"zip,omitempty"`
	URL         string   `yaml:"url,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Lat         *float64 `yaml:"lat,omitempty"`
	Lon         *float64 `yaml:"lon,omitempty"`
}

const recordTimeLayout = "2006-01-02 15:04"

// ReadFile parses an events file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return Parse(data)
}

// Parse decodes events YAML.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse events file: %w", err)
	}
	return f, nil
}

// ToEvent converts a record, validating its times.
func (r Record) ToEvent(loc *time.Location) (event.Event, error) {
	if r.ID == "" {
		return event.Event{}, fmt.Errorf("event %q: missing id", r.Title)
	}

	start, err := parseTime(r.Start, loc)
	if err != nil {
		return event.Event{}, fmt.Errorf("event %s: start: %w", r.ID, err)
	}

	ev := event.Event{
		ID:          r.ID,
		Source:      r.Source,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Start:       start,
		Venue:       r.Venue,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Zip:         r.Zip,
		URL:         r.URL,
	}

	if r.End != "" {
		end, err := parseTime(r.End, loc)
		if err != nil {
			return event.Event{}, fmt.Errorf("event %s: end: %w", r.ID, err)
		}
		if !end.After(start) {
			return event.Event{}, fmt.Errorf("event %s: end must be after start", r.ID)
		}
		d := end.Sub(start)
		ev.Duration = &d
	}

	if r.Lat != nil && r.Lon != nil {
		ev.Coordinate = &event.Coordinate{Latitude: *r.Lat, Longitude: *r.Lon}
	}

	return ev, nil
}

// parseTime reads either layout and returns the instant in loc, so an
// RFC 3339 offset never decides which calendar day or hour row an event
// lands on.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(recordTimeLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
