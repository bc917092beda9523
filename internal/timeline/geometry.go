package timeline

// Geometry holds the pixel constants of the day timeline.
type Geometry struct {
	HourHeight  int // vertical pixels per hour
	BaseOffset  int // left edge of the first lane, past the hour labels
	LaneWidth   int // width shared by all lanes
	BlockHeight int // fixed block height, unrelated to duration
	Gap         int // horizontal space trimmed from each block
}

// DefaultGeometry matches the desktop timeline: 40px hours, blocks 35px
// tall starting 60px in, 220px of lane space.
var DefaultGeometry = Geometry{
	HourHeight:  40,
	BaseOffset:  60,
	LaneWidth:   220,
	BlockHeight: 35,
	Gap:         5,
}

// Rect is a block's on-screen rectangle.
type Rect struct {
	Left, Top, Width, Height int
}

// DayHeight is the pixel height of a full 24-hour day.
func (g Geometry) DayHeight() int {
	return 24 * g.HourHeight
}

// Rect derives the block rectangle for an assignment. Only the start hour
// affects the top edge.
func (g Geometry) Rect(a Assignment) Rect {
	count := a.LaneCount
	if count < 1 {
		count = 1
	}
	laneWidth := g.LaneWidth / count

	width := laneWidth - g.Gap
	if width < 1 {
		width = 1
	}

	return Rect{
		Left:   g.BaseOffset + a.Lane*laneWidth,
		Top:    a.Event.Start.Hour() * g.HourHeight,
		Width:  width,
		Height: g.BlockHeight,
	}
}
