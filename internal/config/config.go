package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cwarden/eventscope/internal/geo"
	"github.com/cwarden/eventscope/internal/radius"
	"github.com/cwarden/eventscope/internal/timeline"
)

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

type Config struct {
	// File settings
	EventsFile string
	AutoReload bool

	// Search settings
	Center        geo.Coordinate
	CenterName    string
	RadiusMiles   float64
	FavoritesOnly bool

	// Day timeline geometry, in pixels
	Geometry timeline.Geometry

	// Map settings
	ClusterPixels float64
	Transitive    bool
	MapZoom       float64

	// Display settings
	TimeFormat string
	DateFormat string

	// Geocoding
	GeocodeTTL       time.Duration
	GeocodeCacheSize int

	// UI settings
	Colors      map[string]string
	KeyBindings map[string]string
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		EventsFile: filepath.Join(home, ".config", "eventscope", "events.yaml"),
		AutoReload: true,

		Center:      geo.Coordinate{Latitude: 41.9975, Longitude: -87.6586},
		CenterName:  "LUC Lake Shore Campus",
		RadiusMiles: 0,

		Geometry: timeline.DefaultGeometry,

		ClusterPixels: 50,
		MapZoom:       13,

		TimeFormat: "15:04",
		DateFormat: "Mon Jan 2, 2006",

		GeocodeTTL:       24 * time.Hour,
		GeocodeCacheSize: 256,

		Colors: map[string]string{
			"music":    "#4A90D9",
			"sport":    "#D9534F",
			"academic": "#5CB85C",
			"career":   "#F0AD4E",
			"other":    "#9B59B6",
			"selected": "220",
			"header":   "220",
			"ring":     "39",
		},

		// key -> action
		KeyBindings: map[string]string{
			"q":     "quit",
			"?":     "help",
			"t":     "today",
			"r":     "refresh",
			"l":     "next_day",
			"h":     "prev_day",
			"j":     "next_event",
			"k":     "prev_event",
			"J":     "move_later",
			"K":     "move_earlier",
			">":     "next_month",
			"<":     "prev_month",
			"f":     "toggle_favorite",
			"F":     "favorites_only",
			"R":     "cycle_radius",
			"m":     "toggle_map",
			"c":     "set_center",
			"C":     "default_center",
			"+":     "zoom_in",
			"-":     "zoom_out",
			"esc":   "cancel",
			"enter": "select",
		},
	}
}

// ConfigPaths lists the locations LoadConfig tries, in order.
func ConfigPaths() []string {
	home := os.Getenv("HOME")
	paths := []string{os.Getenv("EVENTSCOPE_CONFIG")}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "eventscope", "eventscoperc"))
	}
	return append(paths,
		filepath.Join(home, ".config", "eventscope", "eventscoperc"),
		filepath.Join(home, ".eventscoperc"),
	)
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	for _, path := range ConfigPaths() {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		if err := c.parseLine(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

func (c *Config) parseLine(line string) error {
	line = strings.TrimSpace(line)

	// Skip comments and empty lines
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.SetVariable(matches[1], matches[2])
	}

	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		c.KeyBindings[matches[1]] = matches[2]
		return nil
	}

	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = matches[2]
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

// SetVariable assigns one named setting. Command-line flags go through
// here too so they are validated the same way as the rc file.
func (c *Config) SetVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(strings.TrimSpace(value), `"'`)

	switch name {
	case "events_file":
		c.EventsFile = expandHome(value)

	case "auto_reload":
		c.AutoReload = parseBool(value)

	case "center":
		center, err := ParseCoordinate(value)
		if err != nil {
			return fmt.Errorf("invalid center: %w", err)
		}
		c.Center = center

	case "center_name":
		c.CenterName = value

	case "radius_miles", "radius":
		miles, err := radius.ParsePreset(value)
		if err != nil {
			return fmt.Errorf("invalid radius_miles: %s", value)
		}
		c.RadiusMiles = miles

	case "favorites_only":
		c.FavoritesOnly = parseBool(value)

	case "hour_height":
		return setPositive(&c.Geometry.HourHeight, name, value)

	case "lane_width":
		return setPositive(&c.Geometry.LaneWidth, name, value)

	case "base_offset":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid base_offset: %s", value)
		}
		c.Geometry.BaseOffset = n

	case "block_height":
		return setPositive(&c.Geometry.BlockHeight, name, value)

	case "block_gap":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid block_gap: %s", value)
		}
		c.Geometry.Gap = n

	case "cluster_px":
		px, err := strconv.ParseFloat(value, 64)
		if err != nil || px <= 0 {
			return fmt.Errorf("invalid cluster_px: %s", value)
		}
		c.ClusterPixels = px

	case "cluster_transitive":
		c.Transitive = parseBool(value)

	case "map_zoom":
		zoom, err := strconv.ParseFloat(value, 64)
		if err != nil || zoom < 0 || zoom > 20 {
			return fmt.Errorf("invalid map_zoom: %s", value)
		}
		c.MapZoom = zoom

	case "time_format":
		c.TimeFormat = value

	case "date_format":
		c.DateFormat = value

	case "geocode_ttl":
		ttl, err := time.ParseDuration(value)
		if err != nil {
			// Try parsing as seconds
			if seconds, err2 := strconv.Atoi(value); err2 == nil {
				ttl = time.Duration(seconds) * time.Second
			} else {
				return fmt.Errorf("invalid geocode_ttl: %s", value)
			}
		}
		c.GeocodeTTL = ttl

	case "geocode_cache_size":
		return setPositive(&c.GeocodeCacheSize, name, value)

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

// ParseCoordinate reads "lat,lon".
func ParseCoordinate(s string) (geo.Coordinate, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("expected lat,lon: %q", s)
	}

	var c geo.Coordinate
	var err error
	if c.Latitude, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad latitude %q", lat)
	}
	if c.Longitude, err = strconv.ParseFloat(strings.TrimSpace(lon), 64); err != nil {
		return geo.Coordinate{}, fmt.Errorf("bad longitude %q", lon)
	}
	if err := geo.ValidCoordinate(c); err != nil {
		return geo.Coordinate{}, err
	}
	return c, nil
}

// ActionFor returns the action bound to key, if any.
func (c *Config) ActionFor(key string) string {
	return c.KeyBindings[key]
}

func setPositive(dst *int, name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s: %s", name, value)
	}
	*dst = n
	return nil
}

func parseBool(value string) bool {
	v := strings.ToLower(value)
	return v == "true" || v == "yes" || v == "on" || v == "1"
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
