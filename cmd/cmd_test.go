package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

const testEvents = `
events:
  - id: concert
    title: Campus concert
    category: Music
    start: 2025-10-03 09:00
    end: 2025-10-03 10:30
    venue: Mundelein Center
    lat: 41.9990
    lon: -87.6570
  - id: talk
    title: Guest lecture
    start: 2025-10-03 10:00
    address: 1032 W Sheridan Rd
    city: Chicago
    state: IL
  - id: gallery
    title: Gallery walk
    start: 2025-10-04 17:00
    lat: 41.8781
    lon: -87.6298
favorites:
  - gallery
places:
  "1032 W Sheridan Rd, Chicago, IL":
    lat: 41.9992
    lon: -87.6575
`

// run executes the root command against a temp events file with no rc
// file in play.
func run(t *testing.T, args ...string) string {
	t.Helper()

	dir := t.TempDir()
	eventsPath := filepath.Join(dir, "events.yaml")
	if err := os.WriteFile(eventsPath, []byte(testEvents), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("EVENTSCOPE_CONFIG", "")

	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--file", eventsPath))
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestListCommand(t *testing.T) {
	out := run(t, "list", "--date", "2025-10-03", "--favorites=false", "--radius", "All")

	want := []string{
		"Events for Fri Oct 3, 2025:",
		"09:00-10:30 [lane 1/2] Campus concert @ Mundelein Center",
		"10:00-11:00 [lane 2/2] Guest lecture",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("list output missing %q:\n%s", w, out)
		}
	}
	if strings.Contains(out, "Gallery walk") {
		t.Error("list should only show the requested day")
	}
}

func TestListCommandFavorites(t *testing.T) {
	out := run(t, "list", "--date", "2025-10-03", "--favorites", "--radius", "All")
	if !strings.Contains(out, "No events found.") {
		t.Errorf("no favorites on Oct 3, got:\n%s", out)
	}
}

func TestClustersCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "campus merges",
			args: []string{"clusters", "--date", "2025-10-03", "--zoom", "13", "--radius", "All", "--favorites=false"},
			want: []string{"October 2025 around LUC Lake Shore Campus, zoom 13: 2 markers", "[2] Campus concert", "Guest lecture", "[1] Gallery walk (off map)"},
		},
		{
			name: "single-link at city scale",
			args: []string{"clusters", "--date", "2025-10-03", "--zoom", "8", "--radius", "All", "--favorites=false", "--transitive"},
			want: []string{"zoom 8: 1 markers", "[3] Campus concert"},
		},
		{
			name: "radius drops downtown",
			args: []string{"clusters", "--date", "2025-10-03", "--zoom", "13", "--radius", "5", "--favorites=false"},
			want: []string{"zoom 13: 1 markers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("clusters output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestAddCommand(t *testing.T) {
	out := run(t, "add",
		"--title", "Open mic",
		"--start", "2025-10-03 10:30",
		"--end", "2025-10-03 11:30",
		"--address", "1032 W Sheridan Rd",
		"--city", "Chicago",
		"--state", "IL",
		"--radius", "All",
		"--favorites=false")

	first, _, _ := strings.Cut(out, "\n")
	id, ok := strings.CutPrefix(first, "Added Open mic (")
	if !ok {
		t.Fatalf("unexpected first line %q", first)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(id, ")")); err != nil {
		t.Errorf("event id %q is not a UUID: %v", id, err)
	}

	want := []string{
		"Mapped at 41.9992,-87.6575",
		"Events for Fri Oct 3, 2025:",
		"Campus concert",
		"Guest lecture",
		"10:30-11:30 [lane",
		"] Open mic",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("add output missing %q:\n%s", w, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	if out != "Eventscope dev\n" {
		t.Errorf("version output = %q", out)
	}
}
