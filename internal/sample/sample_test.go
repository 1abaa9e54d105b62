package sample

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rodent-dashboard/internal/model"
)

func geocodedRecords(n int) []model.NormalizedRecord {
	records := make([]model.NormalizedRecord, 0, n)
	base := time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		lat := 40.7 + float64(i)*0.001
		lon := -73.9 - float64(i)*0.001
		records = append(records, model.NormalizedRecord{
			InspectedAt: base.AddDate(0, 0, i),
			ZipCode:     fmt.Sprintf("10%03d", i),
			Latitude:    &lat,
			Longitude:   &lon,
		})
	}
	return records
}

func TestRecords_UnderBoundPassesThrough(t *testing.T) {
	records := geocodedRecords(10)

	set := Records(records, 20, 42)

	assert.Equal(t, records, set.Records)
	assert.Equal(t, 10, set.Eligible)
}

func TestRecords_ExactBoundSize(t *testing.T) {
	set := Records(geocodedRecords(100), 15, 42)

	assert.Len(t, set.Records, 15)
	assert.Equal(t, 100, set.Eligible)
	assert.Equal(t, 15, set.Bound)
	assert.Equal(t, int64(42), set.Seed)
}

func TestRecords_Reproducible(t *testing.T) {
	records := geocodedRecords(200)

	first := Records(records, 25, 42)
	second := Records(records, 25, 42)

	assert.Equal(t, first.Records, second.Records, "identical arguments must yield the identical selection")
}

func TestRecords_SeedChangesSelection(t *testing.T) {
	records := geocodedRecords(200)

	a := Records(records, 25, 1)
	b := Records(records, 25, 2)

	assert.NotEqual(t, a.Records, b.Records)
}

func TestRecords_OnlyGeocodedAreEligible(t *testing.T) {
	lat := 40.7
	records := []model.NormalizedRecord{
		{ZipCode: "10001"},
		{ZipCode: "10002", Latitude: &lat},
	}
	records = append(records, geocodedRecords(3)...)

	set := Records(records, 10, 42)

	assert.Equal(t, 3, set.Eligible)
	assert.Len(t, set.Records, 3)
	for _, r := range set.Records {
		assert.True(t, r.HasCoordinates())
	}
}

func TestRecords_ZeroBoundIsEmptyButWellFormed(t *testing.T) {
	set := Records(geocodedRecords(5), 0, 42)

	assert.Empty(t, set.Records)
	assert.Equal(t, 5, set.Eligible)
}

func TestRecords_SelectionKeepsInputOrder(t *testing.T) {
	records := geocodedRecords(50)

	set := Records(records, 10, 7)

	require.Len(t, set.Records, 10)
	for i := 1; i < len(set.Records); i++ {
		assert.True(t, set.Records[i-1].InspectedAt.Before(set.Records[i].InspectedAt))
	}
}
