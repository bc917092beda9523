// Package cluster merges map markers whose projected screen positions lie
// close together. Clusters are rebuilt from scratch for every projection.
package cluster

import (
	"math"

	"github.com/cwarden/eventscope/internal/event"
	"github.com/cwarden/eventscope/internal/geo"
)

// Threshold is the pixel distance under which markers merge.
const Threshold = 50.0

// Point is a position in screen pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Projector maps a coordinate to its current on-screen position. The map
// view owns it and replaces it whenever zoom or center changes.
type Projector interface {
	ToPixel(c geo.Coordinate) Point
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(c geo.Coordinate) Point

func (f ProjectorFunc) ToPixel(c geo.Coordinate) Point {
	return f(c)
}

// Cluster is one map marker. Members[0] is the Representative.
type Cluster struct {
	Representative *event.Event
	Members        []*event.Event
}

// Singleton reports whether the cluster holds a single event.
func (c Cluster) Singleton() bool {
	return len(c.Members) == 1
}

// Titles lists member titles in membership order.
func (c Cluster) Titles() []string {
	titles := make([]string, len(c.Members))
	for i, m := range c.Members {
		titles[i] = m.Title
	}
	return titles
}

// Build groups events in a single pass. Each event joins the first cluster
// whose representative projects less than Threshold pixels away, otherwise
// it starts a new cluster. Events without a coordinate are skipped.
// Grouping depends on input order and is not transitive.
func Build(events []event.Event, p Projector) []Cluster {
	return BuildWithThreshold(events, p, Threshold)
}

// BuildWithThreshold is Build with a caller-chosen pixel threshold.
func BuildWithThreshold(events []event.Event, p Projector, threshold float64) []Cluster {
	var clusters []Cluster
	var anchors []Point

	for i := range events {
		ev := &events[i]
		if ev.Coordinate == nil {
			continue
		}
		pos := p.ToPixel(*ev.Coordinate)

		joined := false
		for k := range clusters {
			if pos.Dist(anchors[k]) < threshold {
				clusters[k].Members = append(clusters[k].Members, ev)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, Cluster{Representative: ev, Members: []*event.Event{ev}})
			anchors = append(anchors, pos)
		}
	}

	return clusters
}
