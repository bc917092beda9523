package geo

import (
	"errors"
	"math"
	"testing"
)

var lakeShore = Coordinate{Latitude: 41.9975, Longitude: -87.6586}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64
		tol  float64
	}{
		{
			name: "same point",
			a:    lakeShore,
			b:    lakeShore,
			want: 0,
			tol:  1e-9,
		},
		{
			name: "one degree of latitude",
			a:    Coordinate{Latitude: 40, Longitude: -87},
			b:    Coordinate{Latitude: 41, Longitude: -87},
			want: 69,
			tol:  0.69,
		},
		{
			name: "one degree of longitude on the equator",
			a:    Coordinate{Latitude: 0, Longitude: 10},
			b:    Coordinate{Latitude: 0, Longitude: 11},
			want: 69.09,
			tol:  0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Distance(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Distance returned error: %v", err)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Distance = %f, want %f ± %f", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	loop := Coordinate{Latitude: 41.8781, Longitude: -87.6298}

	ab, err := Distance(lakeShore, loop)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Distance(loop, lakeShore)
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba {
		t.Errorf("Distance not symmetric: %f vs %f", ab, ba)
	}
	if ab < 8 || ab > 9.5 {
		t.Errorf("Lake Shore to Loop should be roughly 8-9 miles, got %f", ab)
	}
}

func TestDistanceInvalidInput(t *testing.T) {
	bad := []Coordinate{
		{Latitude: math.NaN(), Longitude: 0},
		{Latitude: 0, Longitude: math.Inf(1)},
		{Latitude: math.Inf(-1), Longitude: math.NaN()},
	}

	for _, c := range bad {
		if _, err := Distance(c, lakeShore); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Distance(%v, ...) error = %v, want ErrInvalidInput", c, err)
		}
		if _, err := Distance(lakeShore, c); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Distance(..., %v) error = %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestCircleRing(t *testing.T) {
	t.Run("non-positive radius is empty", func(t *testing.T) {
		for _, r := range []float64{0, -5} {
			ring, err := CircleRing(lakeShore, r, DefaultStepDegrees)
			if err != nil {
				t.Fatalf("CircleRing(%v) error: %v", r, err)
			}
			if len(ring) != 0 {
				t.Errorf("CircleRing(%v) returned %d points, want 0", r, len(ring))
			}
		}
	})

	t.Run("ten mile ring", func(t *testing.T) {
		ring, err := CircleRing(lakeShore, 10, DefaultStepDegrees)
		if err != nil {
			t.Fatal(err)
		}
		if len(ring) != 73 {
			t.Fatalf("expected 73 points for 5 degree steps, got %d", len(ring))
		}

		first, last := ring[0], ring[len(ring)-1]
		if math.Abs(first.Latitude-last.Latitude) > 1e-9 || math.Abs(first.Longitude-last.Longitude) > 1e-9 {
			t.Errorf("ring not closed: first %v last %v", first, last)
		}

		for i, p := range ring {
			d, err := Distance(lakeShore, p)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(d-10) > 0.1 {
				t.Errorf("point %d is %f miles from center, want 10 ± 1%%", i, d)
			}
		}

		// Bearing 0 heads due north.
		if ring[0].Latitude <= lakeShore.Latitude {
			t.Errorf("first point should be north of center: %v", ring[0])
		}
	})

	t.Run("uneven step still closes", func(t *testing.T) {
		ring, err := CircleRing(lakeShore, 5, 7)
		if err != nil {
			t.Fatal(err)
		}
		if ring[0] != ring[len(ring)-1] {
			t.Errorf("ring not closed for 7 degree step")
		}
	})

	t.Run("zero step uses default", func(t *testing.T) {
		ring, err := CircleRing(lakeShore, 5, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(ring) != 73 {
			t.Errorf("expected default step to yield 73 points, got %d", len(ring))
		}
	})

	t.Run("invalid center", func(t *testing.T) {
		_, err := CircleRing(Coordinate{Latitude: math.NaN()}, 10, 5)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
