// Package session holds the mutable browsing state of one user: search
// center, radius, favorites-only mode and the month being shown. It feeds
// that state explicitly into the radius filter, the radius ring and map
// clustering.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cwarden/eventscope/internal/cluster"
	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/geo"
	"github.com/cwarden/eventscope/internal/logger"
	"github.com/cwarden/eventscope/internal/radius"
)

// ErrLocationNotFound is returned when an address cannot be geocoded.
var ErrLocationNotFound = errors.New("location not found")

// DefaultCenter is the Loyola Lake Shore Campus.
var DefaultCenter = geo.Coordinate{Latitude: 41.9975, Longitude: -87.6586}

// Session is one user's browsing state over a Repository. It is not safe
// for concurrent use; the UI mutates it only from its update loop.
type Session struct {
	Repo     event.Repository
	Geocoder event.Geocoder

	Center        geo.Coordinate
	CenterName    string
	RadiusMiles   float64
	FavoritesOnly bool
	Month         time.Time

	// ClusterPixels overrides cluster.Threshold when positive.
	ClusterPixels float64
	// Transitive switches to single-link clustering.
	Transitive bool

	visible []event.Event
}

// New returns a session centered on DefaultCenter with no radius limit,
// showing the current month.
func New(repo event.Repository, g event.Geocoder) *Session {
	return &Session{
		Repo:       repo,
		Geocoder:   g,
		Center:     DefaultCenter,
		CenterName: "LUC Lake Shore Campus",
		Month:      time.Now(),
	}
}

// Reload queries the repository for the session's month, geocodes events
// that have an address but no coordinate, and applies the radius filter.
func (s *Session) Reload(ctx context.Context) error {
	start, end := event.MonthRange(s.Month)

	var (
		events []event.Event
		err    error
	)
	if s.FavoritesOnly {
		events, err = s.Repo.ListFavorites(ctx, start, end)
	} else {
		events, err = s.Repo.ListEvents(ctx, start, end)
	}
	if err != nil {
		return fmt.Errorf("error loading events: %w", err)
	}

	if s.Geocoder != nil {
		for i := range events {
			err := s.Locate(ctx, &events[i])
			if err != nil && !errors.Is(err, ErrLocationNotFound) {
				logger.L().Warn("geocoding failed", "id", events[i].ID, "err", err)
			}
		}
	}

	s.visible = radius.Apply(events, s.Center, s.RadiusMiles)
	logger.L().Debug("session reloaded",
		"month", start.Format("2006-01"),
		"favorites_only", s.FavoritesOnly,
		"radius_miles", s.RadiusMiles,
		"loaded", len(events),
		"visible", len(s.visible))
	return nil
}

// Visible returns the events kept by the last Reload. The slice is shared
// with the session; drag commits made through it are seen by later views.
func (s *Session) Visible() []event.Event {
	return s.visible
}

// Find returns the visible event with the given id.
func (s *Session) Find(id string) *event.Event {
	for i := range s.visible {
		if s.visible[i].ID == id {
			return &s.visible[i]
		}
	}
	return nil
}

// Ring returns the search radius outline, or nil in "All" mode.
func (s *Session) Ring() ([]geo.Coordinate, error) {
	ring, err := geo.CircleRing(s.Center, s.RadiusMiles, geo.DefaultStepDegrees)
	if err != nil || len(ring) == 0 {
		return nil, err
	}
	return ring, nil
}

// Clusters groups the visible events for the given projection.
func (s *Session) Clusters(p cluster.Projector) []cluster.Cluster {
	if s.Transitive {
		threshold := cluster.Threshold
		if s.ClusterPixels > 0 {
			threshold = s.ClusterPixels
		}
		return cluster.BuildTransitive(s.visible, p, threshold)
	}
	if s.ClusterPixels > 0 {
		return cluster.BuildWithThreshold(s.visible, p, s.ClusterPixels)
	}
	return cluster.Build(s.visible, p)
}

// SetRadius changes the radius and reloads.
func (s *Session) SetRadius(ctx context.Context, miles float64) error {
	if miles < 0 {
		miles = 0
	}
	s.RadiusMiles = miles
	return s.Reload(ctx)
}

// SetCenterFromAddress geocodes query and makes it the search center.
// The previous center is kept when the address cannot be resolved.
func (s *Session) SetCenterFromAddress(ctx context.Context, query string) error {
	c, err := s.Resolve(ctx, query)
	if err != nil {
		return err
	}
	return s.SetCenter(ctx, c, query)
}

// Resolve geocodes query without changing the session.
func (s *Session) Resolve(ctx context.Context, query string) (geo.Coordinate, error) {
	if s.Geocoder == nil {
		return geo.Coordinate{}, fmt.Errorf("%q: %w", query, ErrLocationNotFound)
	}
	c, err := s.Geocoder.Resolve(ctx, query)
	if errors.Is(err, event.ErrNotFound) {
		return geo.Coordinate{}, fmt.Errorf("%q: %w", query, ErrLocationNotFound)
	}
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if err := geo.ValidCoordinate(c); err != nil {
		return geo.Coordinate{}, err
	}
	return c, nil
}

// SetCenter moves the search center and reloads.
func (s *Session) SetCenter(ctx context.Context, c geo.Coordinate, name string) error {
	if err := geo.ValidCoordinate(c); err != nil {
		return err
	}
	s.Center = c
	s.CenterName = name
	return s.Reload(ctx)
}

// UseDefaultCenter resets the center to DefaultCenter and reloads.
func (s *Session) UseDefaultCenter(ctx context.Context) error {
	s.Center = DefaultCenter
	s.CenterName = "LUC Lake Shore Campus"
	return s.Reload(ctx)
}

// SetFavoritesOnly switches between all events and favorites.
func (s *Session) SetFavoritesOnly(ctx context.Context, on bool) error {
	s.FavoritesOnly = on
	return s.Reload(ctx)
}

// ToggleFavorite flips id's favorite flag and reloads.
func (s *Session) ToggleFavorite(ctx context.Context, id string) error {
	if err := s.Repo.ToggleFavorite(ctx, id); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// Locate fills in ev's coordinate from its address when it has none.
// Geocoding has to finish before the event can be filtered or clustered.
func (s *Session) Locate(ctx context.Context, ev *event.Event) error {
	if ev.Coordinate != nil {
		return nil
	}
	query := ev.FullAddress()
	if query == "" || s.Geocoder == nil {
		return fmt.Errorf("event %s: %w", ev.ID, ErrLocationNotFound)
	}
	c, err := s.Geocoder.Resolve(ctx, query)
	if errors.Is(err, event.ErrNotFound) {
		return fmt.Errorf("event %s: %w", ev.ID, ErrLocationNotFound)
	}
	if err != nil {
		return err
	}
	if err := geo.ValidCoordinate(c); err != nil {
		logger.L().Warn("geocoder returned an invalid coordinate", "id", ev.ID, "query", query, "err", err)
		return fmt.Errorf("event %s: %w", ev.ID, ErrLocationNotFound)
	}
	ev.Coordinate = &c
	return nil
}
