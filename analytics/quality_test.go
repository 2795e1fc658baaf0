package analytics

import (
	"testing"

	"github.com/ChristinaBak/Oasa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingDays(t *testing.T) {
	// Arrange
	snapshot := weekSnapshot()

	// Act
	missing := MissingDays(snapshot.Records)

	// Assert
	require.Len(t, missing, 1)
	assert.Equal(t, dayOf(t, "2024-01-07"), missing[0])
}

func TestMissingDays_Empty(t *testing.T) {
	assert.Empty(t, MissingDays(nil))
}

func TestMissingDays_IgnoresSelection(t *testing.T) {
	snapshot := weekSnapshot()
	sel := models.NewSelection()
	sel.Stops = []string{"StopC"}

	filtered := snapshot.Filter(sel)
	quality := snapshot.DataQuality()

	// StopC alone is absent on 2024-01-06 too, but the panel reads the full set.
	assert.Len(t, MissingDays(filtered.Records), 2)
	assert.Equal(t, []string{"2024-01-07"}, quality.MissingDays)
}

func TestCoverageOf(t *testing.T) {
	coverage := CoverageOf(weekSnapshot().Records)

	assert.Equal(t, hourOf(t, "2024-01-05 07:00"), coverage.From)
	assert.Equal(t, hourOf(t, "2024-01-08 08:00"), coverage.To)
	assert.True(t, CoverageOf(nil).Empty())
}

func TestCheckQuality_NoGaps(t *testing.T) {
	quality := CheckQuality(threeRecordSnapshot().Records)

	assert.NotNil(t, quality.MissingDays)
	assert.Empty(t, quality.MissingDays)
}
