package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eric-ce/terrameasure/pkg/terrain"
)

var infoCmd = &cobra.Command{
	Use:   "info [heightmap]",
	Short: "Display information about a heightmap",
	Long:  "Show grid dimensions, world extent and height statistics of a PGM heightmap.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	filename := args[0]

	t, err := terrain.Parse(filename, terrain.Options{
		CellSize:    cellSize,
		HeightScale: heightScale,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing heightmap: %v\n", err)
		os.Exit(1)
	}

	stats := terrain.Analyze(t)

	fmt.Println("Heightmap Information")
	fmt.Println("=====================")
	if t.Name != "" {
		fmt.Printf("Name: %s\n", t.Name)
	}
	fmt.Printf("File: %s\n\n", filename)
	fmt.Println(stats)

	bbox := t.BoundingBox()
	fmt.Println("\nBounding Box:")
	fmt.Printf("  Min: (%.2f, %.2f, %.2f)\n", bbox.Min.X, bbox.Min.Y, bbox.Min.Z)
	fmt.Printf("  Max: (%.2f, %.2f, %.2f)\n", bbox.Max.X, bbox.Max.Y, bbox.Max.Z)
	fmt.Printf("  Diagonal: %.2f units\n", bbox.Diagonal())
}
