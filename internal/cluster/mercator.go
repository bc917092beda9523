package cluster

import (
	"math"

	"github.com/cwarden/eventscope/internal/geo"
)

const tileSize = 256.0

// maxMercatorLat keeps the projection finite near the poles.
const maxMercatorLat = 85.05112878

// Mercator is a Web Mercator view of Width x Height pixels centered on
// Center at the given zoom level.
type Mercator struct {
	Center geo.Coordinate
	Zoom   float64
	Width  int
	Height int
}

// ToPixel returns c's position in view pixels, origin at the top left.
func (m Mercator) ToPixel(c geo.Coordinate) Point {
	p := worldPixel(c, m.Zoom)
	ctr := worldPixel(m.Center, m.Zoom)
	return Point{
		X: p.X - ctr.X + float64(m.Width)/2,
		Y: p.Y - ctr.Y + float64(m.Height)/2,
	}
}

// Contains reports whether p lies inside the view.
func (m Mercator) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(m.Width) && p.Y < float64(m.Height)
}

// Pan shifts the view center by dx, dy pixels.
func (m Mercator) Pan(dx, dy float64) Mercator {
	ctr := worldPixel(m.Center, m.Zoom)
	m.Center = fromWorldPixel(Point{X: ctr.X + dx, Y: ctr.Y + dy}, m.Zoom)
	return m
}

func worldPixel(c geo.Coordinate, zoom float64) Point {
	size := tileSize * math.Exp2(zoom)
	lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, c.Latitude))
	sin := math.Sin(lat * math.Pi / 180)

	return Point{
		X: (c.Longitude + 180) / 360 * size,
		Y: (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * size,
	}
}

func fromWorldPixel(p Point, zoom float64) geo.Coordinate {
	size := tileSize * math.Exp2(zoom)
	n := math.Pi - 2*math.Pi*p.Y/size
	return geo.Coordinate{
		Latitude:  180 / math.Pi * math.Atan(math.Sinh(n)),
		Longitude: p.X/size*360 - 180,
	}
}
