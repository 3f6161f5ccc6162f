package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"bikedash/internal/core"
	applog "bikedash/internal/log"
)

// PanelResult is the outcome of one aggregator for one range.
// Exactly one of Summary or Err is meaningful.
type PanelResult struct {
	Name    string
	Summary core.Summary
	Err     error
}

// NoData reports whether the panel degraded to a "no data" notice.
func (p PanelResult) NoData() bool {
	return errors.Is(p.Err, core.ErrNoData)
}

// Report holds every panel computed for one date range.
type Report struct {
	Range      core.DateRange
	DailyRows  int
	HourlyRows int
	Panels     []PanelResult
	ComputedIn time.Duration
}

// DashboardService runs the filter -> aggregate pipeline over the session dataset.
type DashboardService struct {
	dataset     *core.Dataset
	aggregators []Aggregator
	byName      map[string]Aggregator
}

// NewDashboardService creates the service. With no aggregators the default panels are used.
func NewDashboardService(ds *core.Dataset, aggregators ...Aggregator) *DashboardService {
	if len(aggregators) == 0 {
		aggregators = DefaultAggregators()
	}
	byName := make(map[string]Aggregator, len(aggregators))
	for _, a := range aggregators {
		byName[a.Name()] = a
	}
	return &DashboardService{dataset: ds, aggregators: aggregators, byName: byName}
}

// Bounds returns the min/max date present in the data.
func (s *DashboardService) Bounds() core.DateRange {
	return s.dataset.Bounds()
}

// Dataset returns the session dataset.
func (s *DashboardService) Dataset() *core.Dataset {
	return s.dataset
}

// Panels returns the configured panel names in display order.
func (s *DashboardService) Panels() []string {
	names := make([]string, len(s.aggregators))
	for i, a := range s.aggregators {
		names[i] = a.Name()
	}
	return names
}

// Build filters the dataset to rng and recomputes every panel from scratch.
// A failing panel never prevents the others from being computed.
func (s *DashboardService) Build(ctx context.Context, rng core.DateRange) Report {
	start := time.Now()
	if !rng.Valid() {
		slog.WarnContext(ctx, "Inverted date range, panels will be empty",
			applog.FieldOperation, applog.OpFilter,
			applog.FieldRangeStart, rng.Start.String(),
			applog.FieldRangeEnd, rng.End.String(),
			applog.FieldError, core.ErrInvalidRange)
	}

	view := s.dataset.Filter(rng)
	report := Report{
		Range:      rng,
		DailyRows:  len(view.Daily),
		HourlyRows: len(view.Hourly),
		Panels:     make([]PanelResult, 0, len(s.aggregators)),
	}
	for _, a := range s.aggregators {
		report.Panels = append(report.Panels, runAggregator(ctx, a, view))
	}
	report.ComputedIn = time.Since(start)

	slog.DebugContext(ctx, "Dashboard computed",
		applog.FieldComponent, applog.ComponentDashboard,
		applog.FieldRangeStart, rng.Start.String(),
		applog.FieldRangeEnd, rng.End.String(),
		applog.FieldRowsDaily, report.DailyRows,
		applog.FieldRowsHourly, report.HourlyRows,
		applog.FieldDuration, report.ComputedIn.Milliseconds())
	return report
}

// BuildPanel computes a single named panel. An unknown name returns ErrUnknownPanel.
func (s *DashboardService) BuildPanel(ctx context.Context, name string, rng core.DateRange) (PanelResult, error) {
	a, ok := s.byName[name]
	if !ok {
		return PanelResult{}, fmt.Errorf("%w: %s", ErrUnknownPanel, name)
	}
	return runAggregator(ctx, a, s.dataset.Filter(rng)), nil
}

func runAggregator(ctx context.Context, a Aggregator, view core.View) (res PanelResult) {
	res.Name = a.Name()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Aggregator panicked",
				applog.FieldOperation, applog.OpAggregate,
				applog.FieldPanel, res.Name,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
			res.Summary = nil
			res.Err = fmt.Errorf("panel %s: %v", res.Name, r)
		}
	}()

	summary, err := a.Aggregate(view)
	switch {
	case errors.Is(err, core.ErrNoData):
		res.Err = core.ErrNoData
	case err != nil:
		slog.ErrorContext(ctx, "Aggregation failed",
			applog.FieldOperation, applog.OpAggregate,
			applog.FieldPanel, res.Name,
			applog.FieldError, err)
		res.Err = fmt.Errorf("panel %s: %w", res.Name, err)
	case summary == nil || summary.IsEmpty():
		res.Err = core.ErrNoData
	default:
		res.Summary = summary
	}
	return res
}
