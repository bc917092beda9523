package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean Earth radius used for all distance math.
const EarthRadiusMiles = 3958.8

// DefaultStepDegrees is the bearing increment used when drawing a radius ring.
const DefaultStepDegrees = 5.0

// ErrInvalidInput is returned when a coordinate is NaN or infinite.
var ErrInvalidInput = errors.New("invalid coordinate")

// Coordinate is a decimal-degree latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.5f,%.5f", c.Latitude, c.Longitude)
}

// ValidCoordinate reports ErrInvalidInput for non-finite components.
func ValidCoordinate(c Coordinate) error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("%w: %v, %v", ErrInvalidInput, c.Latitude, c.Longitude)
	}
	return nil
}

// Distance returns the great-circle distance between a and b in miles
// using the haversine formula.
func Distance(a, b Coordinate) (float64, error) {
	if err := ValidCoordinate(a); err != nil {
		return 0, err
	}
	if err := ValidCoordinate(b); err != nil {
		return 0, err
	}

	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Latitude))*math.Cos(degreesToRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c, nil
}

// CircleRing walks bearings from 0 to 360 degrees inclusive and returns
// the destination point radiusMiles away from center for each bearing.
// The result is a closed ring: the 0 and 360 degree points coincide.
// A radius <= 0 yields an empty ring. A step <= 0 uses DefaultStepDegrees.
func CircleRing(center Coordinate, radiusMiles, stepDegrees float64) ([]Coordinate, error) {
	if err := ValidCoordinate(center); err != nil {
		return nil, err
	}
	if !finite(radiusMiles) || !finite(stepDegrees) {
		return nil, fmt.Errorf("%w: radius %v step %v", ErrInvalidInput, radiusMiles, stepDegrees)
	}
	if radiusMiles <= 0 {
		return []Coordinate{}, nil
	}
	if stepDegrees <= 0 {
		stepDegrees = DefaultStepDegrees
	}

	lat := degreesToRadians(center.Latitude)
	lon := degreesToRadians(center.Longitude)
	d := radiusMiles / EarthRadiusMiles

	steps := int(math.Floor(360/stepDegrees + 1e-9))
	ring := make([]Coordinate, 0, steps+2)
	for i := 0; i <= steps; i++ {
		ring = append(ring, destination(lat, lon, d, degreesToRadians(float64(i)*stepDegrees)))
	}
	// Steps that do not divide 360 still close the ring.
	if last := float64(steps) * stepDegrees; math.Abs(last-360) > 1e-9 {
		ring = append(ring, ring[0])
	}

	return ring, nil
}

// destination applies the spherical direct formula. All inputs are radians.
func destination(lat, lon, angular, bearing float64) Coordinate {
	lat2 := math.Asin(math.Sin(lat)*math.Cos(angular) +
		math.Cos(lat)*math.Sin(angular)*math.Cos(bearing))
	lon2 := lon + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(lat),
		math.Cos(angular)-math.Sin(lat)*math.Sin(lat2))

	return Coordinate{
		Latitude:  radiansToDegrees(lat2),
		Longitude: radiansToDegrees(lon2),
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
