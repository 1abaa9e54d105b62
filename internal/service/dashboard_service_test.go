package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rodent-dashboard/internal/cache"
	"rodent-dashboard/internal/fetch"
	"rodent-dashboard/internal/model"
	"rodent-dashboard/internal/socrata"
)

type stubLoader struct {
	calls      atomic.Int32
	payload    socrata.RawPayload
	lastParams socrata.WireParams
}

func (l *stubLoader) Query(_ context.Context, params socrata.WireParams) (socrata.RawPayload, error) {
	l.calls.Add(1)
	l.lastParams = params
	return l.payload, nil
}

func strPtr(s string) *string { return &s }

func testOptions() Options {
	return Options{
		DefaultLimit: 1000,
		MaxLimit:     5000,
		YearMin:      2010,
		YearMax:      2024,
		SampleBound:  100,
		SampleSeed:   42,
		TopK:         3,
	}
}

func newTestService(loader fetch.Loader) *DashboardService {
	fetcher := fetch.New(loader, cache.New(8, time.Minute), "", zerolog.Nop())
	return NewDashboardService(fetcher, testOptions(), zerolog.Nop())
}

func inspectionRow(date, borough, result string) socrata.InspectionRow {
	return socrata.InspectionRow{
		InspectionDate: strPtr(date),
		Borough:        strPtr(borough),
		Result:         strPtr(result),
	}
}

func TestGetSummary(t *testing.T) {
	loader := &stubLoader{payload: socrata.RawPayload{
		inspectionRow("2021-03-01T00:00:00.000", "BROOKLYN", "Passed"),
		inspectionRow("2023-06-15T00:00:00.000", "QUEENS", "Active Rat Signs"),
		inspectionRow("2022-01-10T00:00:00.000", "QUEENS", "Passed"),
		{InspectionDate: strPtr("broken"), Borough: strPtr("BRONX"), Result: strPtr("Passed")},
	}}
	svc := newTestService(loader)

	summary, err := svc.GetSummary(context.Background(), model.QuerySpec{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, 2, summary.Boroughs)
	assert.Equal(t, 2, summary.Results)
	assert.Equal(t, 2021, summary.YearMin)
	assert.Equal(t, 2023, summary.YearMax)
	assert.Equal(t, 1, summary.Dropped)
}

func TestInvalidSpecNeverReachesTheNetwork(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(loader)

	_, err := svc.GetRecords(context.Background(), model.QuerySpec{YearFrom: 2024, YearTo: 2018})
	assert.ErrorIs(t, err, socrata.ErrInvalidSpec)
	assert.Zero(t, loader.calls.Load())
}

func TestSpecClampedToConfiguredBounds(t *testing.T) {
	loader := &stubLoader{}
	svc := newTestService(loader)

	_, err := svc.GetRecords(context.Background(), model.QuerySpec{Limit: 999999})
	require.NoError(t, err)
	assert.Equal(t, 5000, loader.lastParams.Limit)
}

func TestEmptyPayloadYieldsWellFormedViews(t *testing.T) {
	svc := newTestService(&stubLoader{payload: socrata.RawPayload{}})
	ctx := context.Background()
	spec := model.QuerySpec{}

	records, err := svc.GetRecords(ctx, spec)
	require.NoError(t, err)
	assert.Empty(t, records.Records)
	assert.Zero(t, records.Dropped)

	summary, err := svc.GetSummary(ctx, spec)
	require.NoError(t, err)
	assert.Zero(t, summary.Rows)

	boroughs, err := svc.GetBoroughCounts(ctx, spec)
	require.NoError(t, err)
	assert.Empty(t, boroughs.Buckets)
	assert.Zero(t, boroughs.Total)

	breakdown, err := svc.GetBreakdown(ctx, spec, 0)
	require.NoError(t, err)
	assert.Empty(t, breakdown.Rows)

	set, err := svc.GetMapSample(ctx, spec, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, set.Records)
}

func TestSeasonalityUsesCalendarOrder(t *testing.T) {
	loader := &stubLoader{payload: socrata.RawPayload{
		inspectionRow("2022-11-01T00:00:00.000", "BRONX", "Passed"),
		inspectionRow("2022-02-01T00:00:00.000", "BRONX", "Passed"),
		inspectionRow("2022-02-15T00:00:00.000", "BRONX", "Passed"),
	}}
	svc := newTestService(loader)

	view, err := svc.GetSeasonality(context.Background(), model.QuerySpec{})
	require.NoError(t, err)

	require.Len(t, view.Buckets, 2)
	assert.Equal(t, "Feb", view.Buckets[0].Key)
	assert.Equal(t, int64(2), view.Buckets[0].Count)
	assert.Equal(t, "Nov", view.Buckets[1].Key)
}

func TestGetMapSampleForcesCoordinateSelection(t *testing.T) {
	loader := &stubLoader{payload: socrata.RawPayload{}}
	svc := newTestService(loader)

	_, err := svc.GetMapSample(context.Background(), model.QuerySpec{}, 0, 0)
	require.NoError(t, err)

	where := strings.Join(loader.lastParams.Where, " AND ")
	assert.Contains(t, where, "latitude is not null")
	assert.Contains(t, where, "longitude is not null")
	assert.Contains(t, loader.lastParams.Select, "latitude")
}

func TestBreakdownUsesConfiguredTopK(t *testing.T) {
	payload := socrata.RawPayload{}
	results := []string{
		"Passed", "Passed", "Passed",
		"Active Rat Signs", "Active Rat Signs",
		"Bait applied", "Bait applied",
		"Cleanup done",
		"Monitoring visit",
	}
	for i, r := range results {
		payload = append(payload, inspectionRow(
			time.Date(2022, time.January, i+1, 0, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05.000"),
			"BROOKLYN", r))
	}
	svc := newTestService(&stubLoader{payload: payload})

	view, err := svc.GetBreakdown(context.Background(), model.QuerySpec{}, 0)
	require.NoError(t, err)

	// TopK = 3 from options; two low-volume results fold into Other.
	require.Len(t, view.Columns, 4)
	assert.Equal(t, model.OtherBucket, view.Columns[3])
	assert.Equal(t, int64(len(results)), view.Total)
}
