package ui

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"fits", "Career fair", 20, "Career fair"},
		{"exact", "Career fair", 11, "Career fair"},
		{"tail", "Homecoming parade", 10, "Homecom..."},
		{"too narrow for a tail", "Homecoming", 3, "Hom"},
		{"zero width", "Homecoming", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateText(tt.input, tt.width); got != tt.want {
				t.Errorf("truncateText(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Minute, "45m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h 30m"},
		{0, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestRadiusLabel(t *testing.T) {
	tests := []struct {
		miles float64
		want  string
	}{
		{0, "All"},
		{5, "5 miles"},
		{20, "20 miles"},
		{2.5, "2.5 miles"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := radiusLabel(tt.miles); got != tt.want {
				t.Errorf("radiusLabel(%v) = %q, want %q", tt.miles, got, tt.want)
			}
		})
	}
}

func TestTextColorFor(t *testing.T) {
	tests := []struct {
		name string
		bg   color.Color
		want color.Color
	}{
		{"yellow", lipgloss.Color("#FFD700"), lipgloss.Color("#000000")},
		{"white", lipgloss.Color("#FFFFFF"), lipgloss.Color("#000000")},
		{"navy", lipgloss.Color("#1F3A93"), lipgloss.Color("#FFFFFF")},
		{"black", lipgloss.Color("#000000"), lipgloss.Color("#FFFFFF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textColorFor(tt.bg); got != tt.want {
				t.Errorf("textColorFor(%v) = %v, want %v", tt.bg, got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skip("tzdata not available")
	}
	day := time.Date(2025, 10, 3, 0, 0, 0, 0, chicago)

	tests := []struct {
		name string
		b    time.Time
		want bool
	}{
		{"late the same evening", time.Date(2025, 10, 3, 23, 59, 0, 0, chicago), true},
		{"next morning", time.Date(2025, 10, 4, 0, 0, 0, 0, chicago), false},
		{"UTC instant on the same local day", time.Date(2025, 10, 4, 2, 0, 0, 0, time.UTC), true},
		{"UTC instant on the next local day", time.Date(2025, 10, 4, 6, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameDay(day, tt.b); got != tt.want {
				t.Errorf("sameDay(%v, %v) = %v, want %v", day, tt.b, got, tt.want)
			}
		})
	}
}

func TestEventDetails(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("j"))
	m.Update(key("f"))

	ev := m.session.Find("concert")
	details := strings.Join(m.eventDetails(*ev, 30), "\n")

	for _, want := range []string{"★ Campus concert", "09:00-10:00", "Category: music", "mi from LUC Lake Shore Campus"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}
}

func TestCategoryColor(t *testing.T) {
	m := newTestModel(t)

	concert := m.session.Find("concert")
	if got, want := m.categoryColor(*concert), lipgloss.Color(m.config.Colors["music"]); got != want {
		t.Errorf("music color = %v, want %v", got, want)
	}

	lunch := m.session.Find("lunch")
	if got, want := m.categoryColor(*lunch), lipgloss.Color(m.config.Colors["other"]); got != want {
		t.Errorf("uncategorized color = %v, want %v", got, want)
	}
}
