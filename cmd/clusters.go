package cmd

import (
	"fmt"

	"github.com/cwarden/eventscope/internal/cluster"
	"github.com/spf13/cobra"
)

var (
	clusterDate   string
	clusterZoom   float64
	clusterWidth  int
	clusterHeight int
	transitive    bool
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Print the map markers for a month and exit",
	Long: `Project the month's events onto a map centered on the search center
and print the markers they merge into.`,
	RunE: runClusters,
}

func init() {
	clustersCmd.Flags().StringVar(&clusterDate, "date", "", "Any day of the month as YYYY-MM-DD (default today)")
	clustersCmd.Flags().Float64Var(&clusterZoom, "zoom", 0, "Map zoom level (default from config)")
	clustersCmd.Flags().IntVar(&clusterWidth, "width", 800, "Map width in pixels")
	clustersCmd.Flags().IntVar(&clusterHeight, "height", 600, "Map height in pixels")
	clustersCmd.Flags().BoolVar(&transitive, "transitive", false, "Merge chains of nearby markers")
	rootCmd.AddCommand(clustersCmd)
}

func runClusters(cmd *cobra.Command, args []string) error {
	day, err := parseDay(clusterDate)
	if err != nil {
		return err
	}

	_, sess, err := openSession(day)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("transitive") {
		sess.Transitive = transitive
	}

	zoom := cfg.MapZoom
	if cmd.Flags().Changed("zoom") {
		zoom = clusterZoom
	}
	proj := cluster.Mercator{Center: sess.Center, Zoom: zoom, Width: clusterWidth, Height: clusterHeight}
	clusters := sess.Clusters(proj)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s around %s, zoom %g: %d markers\n",
		day.Format("January 2006"), sess.CenterName, zoom, len(clusters))

	for _, c := range clusters {
		rep := c.Representative
		p := proj.ToPixel(*rep.Coordinate)
		where := fmt.Sprintf("%.0f,%.0f", p.X, p.Y)
		if !proj.Contains(p) {
			where = "off map"
		}
		fmt.Fprintf(out, "  [%d] %s (%s)\n", len(c.Members), rep.Title, where)
		for _, ev := range c.Members[1:] {
			fmt.Fprintf(out, "      %s\n", ev.Title)
		}
	}

	return nil
}
