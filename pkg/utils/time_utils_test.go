package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthLabels(t *testing.T) {
	d := time.Date(2026, time.October, 3, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-10", MonthKey(d))
	assert.Equal(t, "oct. 2026", FrenchMonthLabel(d))
	assert.Equal(t, "févr. 2025", FrenchMonthLabel(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFromUnixSeconds(t *testing.T) {
	assert.True(t, FromUnixSeconds(0, time.UTC).IsZero())
	assert.Equal(t, int64(1700000000), FromUnixSeconds(1700000000, LoadLocation("Europe/Paris")).Unix())
}
