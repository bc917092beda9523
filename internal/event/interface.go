package event

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Geocoder that has no match for a query,
// and by a Repository asked about an unknown event.
var ErrNotFound = errors.New("not found")

// Repository is the event store the core reads from
type Repository interface {
	// ListEvents returns events with start <= Start < end, ordered by start time
	ListEvents(ctx context.Context, start, end time.Time) ([]Event, error)
	// ListFavorites is ListEvents restricted to the user's favorites
	ListFavorites(ctx context.Context, start, end time.Time) ([]Event, error)
	IsFavorite(ctx context.Context, id string) (bool, error)
	ToggleFavorite(ctx context.Context, id string) error
	// InsertEvent stores a new event and returns its ID
	InsertEvent(ctx context.Context, f Fields) (string, error)
}

// Geocoder resolves an address query to a coordinate
type Geocoder interface {
	// Resolve returns ErrNotFound when the query has no match
	Resolve(ctx context.Context, query string) (Coordinate, error)
}

// GeocoderFunc adapts a function to the Geocoder interface
type GeocoderFunc func(ctx context.Context, query string) (Coordinate, error)

func (f GeocoderFunc) Resolve(ctx context.Context, query string) (Coordinate, error) {
	return f(ctx, query)
}
