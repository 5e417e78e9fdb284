package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eric-ce/terrameasure/internal/app"
	"github.com/eric-ce/terrameasure/version"
)

var (
	cellSize    float64
	heightScale float64
	seed        int64
	clampMode   bool
	interval    float64
	epsilon     float64
)

var rootCmd = &cobra.Command{
	Use:   "terrameasure [heightmap]",
	Short: "Interactive 3D terrain distance measurement",
	Long: `terrameasure is an interactive viewer for measuring distances over 3D
terrain. It loads PGM heightmaps (P2 and P5) or generates a procedural
terrain, and lets you draw, edit and ground-clamp measurement paths
directly on the surface.`,
	Version: version.GetVersion(),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.Config{
			CellSize:    cellSize,
			HeightScale: heightScale,
			Seed:        seed,
			Clamp:       clampMode,
			Interval:    interval,
			Epsilon:     epsilon,
		}
		if len(args) == 1 {
			cfg.HeightmapFile = args[0]
		}
		return app.Run(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&cellSize, "cell-size", 1.0, "world units between heightmap samples")
	rootCmd.PersistentFlags().Float64Var(&heightScale, "height-scale", 20.0, "world height of the maximum sample value")
	rootCmd.PersistentFlags().Float64Var(&interval, "interval", 2.0, "ground-clamp sample interval in world units")

	rootCmd.Flags().Int64Var(&seed, "seed", 7, "procedural terrain seed (used when no heightmap is given)")
	rootCmd.Flags().BoolVar(&clampMode, "clamp", false, "start in ground-clamped distance mode")
	rootCmd.Flags().Float64Var(&epsilon, "epsilon", 0.3, "coincident vertex rejection radius in world units")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
