package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterForCycles(t *testing.T) {
	assert.Equal(t, byte('a'), LetterFor(0))
	assert.Equal(t, byte('b'), LetterFor(1))
	assert.Equal(t, byte('z'), LetterFor(25))
	assert.Equal(t, byte('a'), LetterFor(26))
	assert.Equal(t, byte('c'), LetterFor(54))
}

func TestFormatDistanceBoundaries(t *testing.T) {
	assert.Equal(t, "99.90 cm", FormatDistance(0.999))
	assert.Equal(t, "1.00 m", FormatDistance(1.0))
	// still meters: the unit switches at 1000, rounding happens after
	assert.Equal(t, "1000.00 m", FormatDistance(999.999))
	assert.Equal(t, "1.00 km", FormatDistance(1000.0))
	assert.Equal(t, "12.35 km", FormatDistance(12345.0))
}

func TestSegmentLabel(t *testing.T) {
	assert.Equal(t, "a0: 10.00 m", SegmentLabel(0, 0, 10))
	assert.Equal(t, "b0: 10.00 m", SegmentLabel(1, 0, 10))
	assert.Equal(t, "a3: 2.50 km", SegmentLabel(26, 3, 2500))
}

func TestTotalLabel(t *testing.T) {
	assert.Equal(t, "Total: 20.00 m", TotalLabel(20))
	assert.Equal(t, "Total: 50.00 cm", TotalLabel(0.5))
}
