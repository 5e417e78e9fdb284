package measure

import "fmt"

// LetterFor returns the segment letter for a 0-based segment ordinal,
// cycling a..z every 26 segments
func LetterFor(ordinal int) byte {
	return byte('a' + ordinal%26)
}

// FormatDistance formats a distance in world units (meters) with a unit
// chosen by magnitude: centimeters below 1 m, kilometers from 1000 m up.
func FormatDistance(d float64) string {
	switch {
	case d < 1:
		return fmt.Sprintf("%.2f cm", d*100)
	case d < 1000:
		return fmt.Sprintf("%.2f m", d)
	default:
		return fmt.Sprintf("%.2f km", d/1000)
	}
}

// SegmentLabel formats the text shown on one segment, e.g. "a0: 10.00 m".
// The letter comes from the segment ordinal within the path, the number from
// the path's finalized ordinal.
func SegmentLabel(ordinal, number int, d float64) string {
	return fmt.Sprintf("%c%d: %s", LetterFor(ordinal), number, FormatDistance(d))
}

// TotalLabel formats the running-total text anchored at a path's last vertex
func TotalLabel(d float64) string {
	return "Total: " + FormatDistance(d)
}
