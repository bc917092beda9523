// Package store provides an in-memory event Repository seeded from a YAML
// events file. Favorites and inserted events live only in memory.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/geo"
	"github.com/cwarden/eventscope/internal/geocode"
	"github.com/cwarden/eventscope/internal/logger"
)

// Memory is a Repository held entirely in memory. It also resolves
// addresses from the places table of the loaded file. It is safe for
// concurrent use.
type Memory struct {
	mu        sync.RWMutex
	loc       *time.Location
	events    map[string]event.Event
	favorites map[string]bool
	places    geocode.Static
}

// NewMemory returns an empty store whose event times are reported in loc,
// or in the local zone when loc is nil.
func NewMemory(loc *time.Location) *Memory {
	if loc == nil {
		loc = time.Local
	}
	return &Memory{
		loc:       loc,
		events:    make(map[string]event.Event),
		favorites: make(map[string]bool),
		places:    geocode.Static{},
	}
}

// Open builds a Memory from an events file.
func Open(path string, loc *time.Location) (*Memory, error) {
	m := NewMemory(loc)
	if err := m.LoadFile(path); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile replaces the file-backed events with the contents of path.
// Events added with InsertEvent and favorites toggled since are kept.
func (m *Memory) LoadFile(path string) error {
	f, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("error loading events from %s: %w", path, err)
	}
	return m.Load(f)
}

// Load replaces the file-backed events with f. A record that fails to
// convert is skipped and logged.
func (m *Memory) Load(f File) error {
	loaded := make(map[string]event.Event, len(f.Events))
	for _, r := range f.Events {
		ev, err := r.ToEvent(m.loc)
		if err != nil {
			logger.L().Warn("skipping event record", "err", err)
			continue
		}
		if _, dup := loaded[ev.ID]; dup {
			logger.L().Warn("duplicate event id", "id", ev.ID)
			continue
		}
		loaded[ev.ID] = ev
	}

	pinned := make(map[string]event.Coordinate, len(f.Places))
	for query, p := range f.Places {
		c := geo.Coordinate{Latitude: p.Lat, Longitude: p.Lon}
		if err := geo.ValidCoordinate(c); err != nil {
			logger.L().Warn("skipping place", "query", query, "err", err)
			continue
		}
		pinned[query] = c
	}
	places := geocode.NewStatic(pinned)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.places = places
	for id, ev := range m.events {
		if ev.Source == insertedSource {
			if _, clash := loaded[id]; !clash {
				loaded[id] = ev
			}
		}
	}
	m.events = loaded
	for _, id := range f.Favorites {
		m.favorites[id] = true
	}

	logger.L().Debug("events loaded", "count", len(loaded), "favorites", len(m.favorites), "places", places.Len())
	return nil
}

const insertedSource = "local"

func (m *Memory) ListEvents(_ context.Context, start, end time.Time) ([]event.Event, error) {
	return m.list(start, end, false), nil
}

func (m *Memory) ListFavorites(_ context.Context, start, end time.Time) ([]event.Event, error) {
	return m.list(start, end, true), nil
}

func (m *Memory) list(start, end time.Time, favoritesOnly bool) []event.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []event.Event
	for id, ev := range m.events {
		if favoritesOnly && !m.favorites[id] {
			continue
		}
		if ev.Start.Before(start) || !ev.Start.Before(end) {
			continue
		}
		out = append(out, clone(ev))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *Memory) IsFavorite(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.events[id]; !ok {
		return false, fmt.Errorf("event %s: %w", id, event.ErrNotFound)
	}
	return m.favorites[id], nil
}

func (m *Memory) ToggleFavorite(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, event.ErrNotFound)
	}
	if m.favorites[id] {
		delete(m.favorites, id)
	} else {
		m.favorites[id] = true
	}
	return nil
}

// InsertEvent adds an event with a generated ID. Inserted events have no
// coordinate until a caller geocodes them.
func (m *Memory) InsertEvent(_ context.Context, f event.Fields) (string, error) {
	if strings.TrimSpace(f.Title) == "" {
		return "", fmt.Errorf("insert: title is required")
	}
	if f.Start.IsZero() {
		return "", fmt.Errorf("insert: start is required")
	}

	ev := event.Event{
		ID:          uuid.NewString(),
		Source:      insertedSource,
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		Category:    strings.TrimSpace(f.Category),
		Start:       f.Start.In(m.loc),
		Venue:       f.Venue,
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		Zip:         f.Zip,
		URL:         f.URL,
	}
	if !f.End.IsZero() {
		if !f.End.After(f.Start) {
			return "", fmt.Errorf("insert: end must be after start")
		}
		d := f.End.Sub(f.Start)
		ev.Duration = &d
	}

	m.mu.Lock()
	m.events[ev.ID] = ev
	m.mu.Unlock()

	logger.L().Info("event inserted", "id", ev.ID, "title", ev.Title)
	return ev.ID, nil
}

// Resolve implements event.Geocoder from the places table of the last
// loaded file.
func (m *Memory) Resolve(ctx context.Context, query string) (event.Coordinate, error) {
	m.mu.RLock()
	places := m.places
	m.mu.RUnlock()
	return places.Resolve(ctx, query)
}

// clone detaches an event's pointer fields from the stored copy.
func clone(ev event.Event) event.Event {
	if ev.Duration != nil {
		d := *ev.Duration
		ev.Duration = &d
	}
	if ev.Coordinate != nil {
		c := *ev.Coordinate
		ev.Coordinate = &c
	}
	return ev
}
