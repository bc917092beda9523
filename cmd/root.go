package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cwarden/eventscope/internal/config"
	"github.com/cwarden/eventscope/internal/geocode"
	"github.com/cwarden/eventscope/internal/logger"
	"github.com/cwarden/eventscope/internal/session"
	"github.com/cwarden/eventscope/internal/store"
	"github.com/cwarden/eventscope/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	eventsFile    string
	radiusFlag    string
	centerFlag    string
	favoritesOnly bool
	logFile       string
	cfg           *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "eventscope",
	Short: "A terminal browser for community events",
	Long: `Eventscope shows a month of community events as a day timeline and a
clustered map, filtered to a radius around a search center.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	rootCmd.RunE = runTUI
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&eventsFile, "file", "f", "", "Events YAML file to browse")
	rootCmd.PersistentFlags().StringVar(&radiusFlag, "radius", "", "Search radius in miles, or All")
	rootCmd.PersistentFlags().StringVar(&centerFlag, "center", "", "Search center as lat,lon")
	rootCmd.PersistentFlags().BoolVar(&favoritesOnly, "favorites", false, "Show favorites only")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the TUI runs")
}

func initConfig() {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags win over the rc file
	flags := rootCmd.PersistentFlags()
	overrides := []struct {
		flag, variable, value string
	}{
		{"file", "events_file", eventsFile},
		{"radius", "radius_miles", radiusFlag},
		{"center", "center", centerFlag},
		{"favorites", "favorites_only", fmt.Sprint(favoritesOnly)},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		if err := cfg.SetVariable(o.variable, o.value); err != nil {
			fmt.Fprintf(os.Stderr, "--%s: %v\n", o.flag, err)
			os.Exit(1)
		}
	}
}

// openSession loads the events file and builds a session configured for
// month. The store doubles as the geocoder through its places table.
func openSession(month time.Time) (*store.Memory, *session.Session, error) {
	if cfg == nil {
		initConfig()
	}

	mem, err := store.Open(cfg.EventsFile, time.Local)
	if err != nil {
		return nil, nil, err
	}

	sess := session.New(mem, geocode.NewCache(mem, cfg.GeocodeCacheSize, cfg.GeocodeTTL))
	sess.Center = cfg.Center
	sess.CenterName = cfg.CenterName
	sess.RadiusMiles = cfg.RadiusMiles
	sess.FavoritesOnly = cfg.FavoritesOnly
	sess.ClusterPixels = cfg.ClusterPixels
	sess.Transitive = cfg.Transitive
	sess.Month = month

	if err := sess.Reload(context.Background()); err != nil {
		return nil, nil, err
	}
	return mem, sess, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log lines would tear the alternate screen
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger.SetupWriter(logOut)

	mem, sess, err := openSession(time.Now())
	if err != nil {
		return err
	}

	model := ui.NewModel(cfg, sess)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if cfg.AutoReload {
		w, err := store.Watch(mem, cfg.EventsFile, func() {
			p.Send(ui.StoreReloadedMsg{})
		})
		if err != nil {
			logger.L().Warn("not watching events file", "path", cfg.EventsFile, "error", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
