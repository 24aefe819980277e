package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextOpenDate_SkipsClosureDay(t *testing.T) {
	// 2026-01-02 is a Friday
	got := NextOpenDate(2026, 1, 2, time.Friday)
	assert.Equal(t, time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), got)

	// an open day is returned unchanged
	got = NextOpenDate(2026, 1, 5, time.Friday)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestNextOpenDate_OverflowsIntoNextMonth(t *testing.T) {
	got := NextOpenDate(2026, 1, 32, time.Friday)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got)

	// 2026 is not a leap year
	got = NextOpenDate(2026, 2, 29, time.Friday)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestNextOpenDate_DecemberOverflowAdvancesYear(t *testing.T) {
	got := NextOpenDate(2026, 12, 32, time.Monday)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestNextOpenDate_OverflowThenClosureRolls(t *testing.T) {
	// day 32 of December 2027 lands on 2028-01-01, a Saturday
	got := NextOpenDate(2027, 12, 32, time.Saturday)
	assert.Equal(t, time.Date(2028, 1, 2, 0, 0, 0, 0, time.UTC), got)
}
