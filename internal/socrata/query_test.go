package socrata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rodent-dashboard/internal/model"
)

var testBounds = Bounds{YearMin: 2010, YearMax: 2024}

func TestBuildQuery_MinimalSpec(t *testing.T) {
	params, err := BuildQuery(model.QuerySpec{Limit: 1000, YearFrom: 2018, YearTo: 2024}, testBounds)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"borough", "result", "inspection_date", "inspection_type", "zip_code", "nta",
	}, params.Select)
	require.Len(t, params.Where, 1)
	assert.Equal(t,
		"inspection_date between '2018-01-01T00:00:00.000' and '2024-12-31T23:59:59.999'",
		params.Where[0])
	assert.Equal(t, "inspection_date DESC", params.Order)
	assert.Equal(t, 1000, params.Limit)
}

func TestBuildQuery_CoordinatesAddColumnsAndNullGuards(t *testing.T) {
	params, err := BuildQuery(model.QuerySpec{
		Limit:           500,
		YearFrom:        2020,
		YearTo:          2021,
		WithCoordinates: true,
	}, testBounds)
	require.NoError(t, err)

	assert.Contains(t, params.Select, "latitude")
	assert.Contains(t, params.Select, "longitude")
	assert.Contains(t, params.Where, "latitude is not null")
	assert.Contains(t, params.Where, "longitude is not null")
	assert.Len(t, params.Where, 3)
}

func TestBuildQuery_FilterClauses(t *testing.T) {
	params, err := BuildQuery(model.QuerySpec{
		Limit:      100,
		YearFrom:   2018,
		YearTo:     2024,
		Boroughs:   []model.Borough{model.BoroughBrooklyn},
		Results:    []model.Result{model.ResultActiveRatSigns, model.ResultPassed},
		Predicates: []string{"zip_code = '11211'"},
	}, testBounds)
	require.NoError(t, err)

	assert.Contains(t, params.Where, "upper(borough) = 'BROOKLYN'")
	assert.Contains(t, params.Where, "upper(result) in ('ACTIVE RAT SIGNS','PASSED')")
	assert.Contains(t, params.Where, "zip_code = '11211'")
	// Exactly the clauses implied by the populated fields, nothing else.
	assert.Len(t, params.Where, 4)
}

func TestBuildQuery_EscapesQuoteDelimiters(t *testing.T) {
	params, err := BuildQuery(model.QuerySpec{
		Limit:    10,
		YearFrom: 2018,
		YearTo:   2024,
		Boroughs: []model.Borough{"O'HARA"},
	}, testBounds)
	require.NoError(t, err)

	assert.Contains(t, params.Where, "upper(borough) = 'O''HARA'")
	joined := strings.Join(params.Where, " AND ")
	assert.NotContains(t, joined, "'O'HARA'")
}

func TestBuildQuery_InvalidSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec model.QuerySpec
	}{
		{"inverted year range", model.QuerySpec{Limit: 100, YearFrom: 2024, YearTo: 2018}},
		{"zero limit", model.QuerySpec{Limit: 0, YearFrom: 2018, YearTo: 2024}},
		{"negative limit", model.QuerySpec{Limit: -5, YearFrom: 2018, YearTo: 2024}},
		{"before dataset span", model.QuerySpec{Limit: 100, YearFrom: 1999, YearTo: 2020}},
		{"after dataset span", model.QuerySpec{Limit: 100, YearFrom: 2018, YearTo: 2030}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildQuery(tc.spec, testBounds)
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestWireParams_EncodeIsCanonical(t *testing.T) {
	spec := model.QuerySpec{Limit: 1000, YearFrom: 2018, YearTo: 2024, WithCoordinates: true}

	first, err := BuildQuery(spec, testBounds)
	require.NoError(t, err)
	second, err := BuildQuery(spec, testBounds)
	require.NoError(t, err)

	assert.Equal(t, first.Encode(), second.Encode())

	// Keys come out sorted, so the signature is order-independent.
	encoded := first.Encode()
	limitIdx := strings.Index(encoded, "%24limit")
	selectIdx := strings.Index(encoded, "%24select")
	require.GreaterOrEqual(t, limitIdx, 0)
	require.GreaterOrEqual(t, selectIdx, 0)
	assert.Less(t, limitIdx, selectIdx)
}
