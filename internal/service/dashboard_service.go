package service

import (
	"context"

	"github.com/rs/zerolog"

	"rodent-dashboard/internal/aggregate"
	"rodent-dashboard/internal/fetch"
	"rodent-dashboard/internal/model"
	"rodent-dashboard/internal/normalize"
	"rodent-dashboard/internal/sample"
	"rodent-dashboard/internal/socrata"
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
	YearMin      int
	YearMax      int
	SampleBound  int
	SampleSeed   int64
	TopK         int
}

// DashboardService runs the acquisition pipeline once per request: build
// query, fetch through the shared cache, normalize, derive the requested
// view. An empty record set is a valid outcome, never an error.
type DashboardService struct {
	fetcher *fetch.Fetcher
	opts    Options
	log     zerolog.Logger
}

func NewDashboardService(fetcher *fetch.Fetcher, opts Options, log zerolog.Logger) *DashboardService {
	return &DashboardService{fetcher: fetcher, opts: opts, log: log}
}

func (s *DashboardService) Options() Options {
	return s.opts
}

// GetFilterOptions reports the selectable filter values and bounds. Static
// per deployment, no fetch involved.
func (s *DashboardService) GetFilterOptions() *model.FilterOptions {
	return &model.FilterOptions{
		Boroughs: model.KnownBoroughs(),
		Results:  model.KnownResults(),
		YearMin:  s.opts.YearMin,
		YearMax:  s.opts.YearMax,
		MaxLimit: s.opts.MaxLimit,
	}
}

func (s *DashboardService) load(ctx context.Context, spec model.QuerySpec) (normalize.Result, error) {
	spec = spec.Clamp(model.SpecDefaults{
		Limit:    s.opts.DefaultLimit,
		MaxLimit: s.opts.MaxLimit,
		YearFrom: s.opts.YearMin,
		YearTo:   s.opts.YearMax,
	})

	params, err := socrata.BuildQuery(spec, socrata.Bounds{YearMin: s.opts.YearMin, YearMax: s.opts.YearMax})
	if err != nil {
		return normalize.Result{}, err
	}

	payload, err := s.fetcher.Fetch(ctx, params)
	if err != nil {
		return normalize.Result{}, err
	}

	result := normalize.Rows(payload)
	if result.Dropped > 0 {
		s.log.Info().
			Int("dropped", result.Dropped).
			Int("kept", len(result.Records)).
			Msg("rows dropped during normalization")
	}
	return result, nil
}

func (s *DashboardService) GetRecords(ctx context.Context, spec model.QuerySpec) (*model.RecordSet, error) {
	result, err := s.load(ctx, spec)
	if err != nil {
		return nil, err
	}
	return &model.RecordSet{
		Records: result.Records,
		Total:   len(result.Records),
		Dropped: result.Dropped,
	}, nil
}

func (s *DashboardService) GetSummary(ctx context.Context, spec model.QuerySpec) (*model.Summary, error) {
	result, err := s.load(ctx, spec)
	if err != nil {
		return nil, err
	}

	boroughs := make(map[model.Borough]struct{})
	results := make(map[model.Result]struct{})
	summary := &model.Summary{Rows: len(result.Records), Dropped: result.Dropped}

	for _, r := range result.Records {
		boroughs[r.Borough] = struct{}{}
		results[r.Result] = struct{}{}
		if summary.YearMin == 0 || r.Year < summary.YearMin {
			summary.YearMin = r.Year
		}
		if r.Year > summary.YearMax {
			summary.YearMax = r.Year
		}
	}
	summary.Boroughs = len(boroughs)
	summary.Results = len(results)
	return summary, nil
}

func (s *DashboardService) GetBoroughCounts(ctx context.Context, spec model.QuerySpec) (*model.AggregateView, error) {
	return s.countBy(ctx, spec, "borough", aggregate.BoroughKey, aggregate.OrderCountDesc)
}

func (s *DashboardService) GetResultCounts(ctx context.Context, spec model.QuerySpec) (*model.AggregateView, error) {
	return s.countBy(ctx, spec, "result", aggregate.ResultKey, aggregate.OrderCountDesc)
}

func (s *DashboardService) GetSeasonality(ctx context.Context, spec model.QuerySpec) (*model.AggregateView, error) {
	return s.countBy(ctx, spec, "month", aggregate.MonthKey, aggregate.OrderMonth)
}

func (s *DashboardService) GetYearCounts(ctx context.Context, spec model.QuerySpec) (*model.AggregateView, error) {
	return s.countBy(ctx, spec, "year", aggregate.YearKey, aggregate.OrderYearAsc)
}

func (s *DashboardService) countBy(ctx context.Context, spec model.QuerySpec, dimension string, keyFn aggregate.KeyFunc, order aggregate.Order) (*model.AggregateView, error) {
	result, err := s.load(ctx, spec)
	if err != nil {
		return nil, err
	}
	view := aggregate.CountBy(result.Records, dimension, keyFn, order)
	return &view, nil
}

// GetBreakdown returns the borough × result crosstab. topK <= 0 falls back
// to the configured long-tail threshold.
func (s *DashboardService) GetBreakdown(ctx context.Context, spec model.QuerySpec, topK int) (*model.CrossTabView, error) {
	if topK <= 0 {
		topK = s.opts.TopK
	}
	result, err := s.load(ctx, spec)
	if err != nil {
		return nil, err
	}
	view := aggregate.CrossTab(result.Records, "borough", "result",
		aggregate.BoroughKey, aggregate.ResultKey, topK)
	return &view, nil
}

// GetMapSample forces coordinate selection on the wire query so the
// geocoded subset is drawn from rows the server already filtered to
// non-null positions.
func (s *DashboardService) GetMapSample(ctx context.Context, spec model.QuerySpec, bound int, seed int64) (*model.SampleSet, error) {
	spec.WithCoordinates = true
	if bound <= 0 {
		bound = s.opts.SampleBound
	}
	if seed == 0 {
		seed = s.opts.SampleSeed
	}

	result, err := s.load(ctx, spec)
	if err != nil {
		return nil, err
	}
	set := sample.Records(result.Records, bound, seed)
	return &set, nil
}
