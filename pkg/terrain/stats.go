package terrain

import "fmt"

// Stats contains aggregate measurements of a terrain surface
type Stats struct {
	Cols       int
	Rows       int
	Width      float64
	Depth      float64
	MinHeight  float64
	MaxHeight  float64
	MeanHeight float64
	Relief     float64 // MaxHeight - MinHeight
}

// Analyze computes aggregate statistics for a terrain
func Analyze(t *Terrain) *Stats {
	stats := &Stats{
		Cols:      t.Cols,
		Rows:      t.Rows,
		Width:     t.Width(),
		Depth:     t.Depth(),
		MinHeight: t.minHeight(),
		MaxHeight: t.maxHeight(),
	}

	total := 0.0
	for _, h := range t.heights {
		total += h
	}
	if len(t.heights) > 0 {
		stats.MeanHeight = total / float64(len(t.heights))
	}
	stats.Relief = stats.MaxHeight - stats.MinHeight
	return stats
}

// String formats the stats for CLI output
func (s *Stats) String() string {
	return fmt.Sprintf(
		"Grid: %dx%d samples\nExtent: %.2f x %.2f units\nHeight: min %.2f, max %.2f, mean %.2f\nRelief: %.2f",
		s.Cols, s.Rows, s.Width, s.Depth, s.MinHeight, s.MaxHeight, s.MeanHeight, s.Relief)
}
