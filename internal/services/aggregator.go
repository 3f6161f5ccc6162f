// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for chart aggregations.
// Each dashboard panel has its own Aggregator that turns a filtered View
// into one summary table. All aggregators share the same contract, so the
// dashboard applies them uniformly and tests them in isolation.

package services

import (
	"errors"

	"bikedash/internal/core"
)

// Panel names, used in URLs, logs and metrics.
const (
	PanelDailyTrend           = "daily-trend"
	PanelMonthlyTrend         = "monthly-trend"
	PanelSeasonalTotals       = "seasonal-totals"
	PanelHourRanking          = "hour-ranking"
	PanelCategoryDistribution = "category-distribution"
)

// ErrUnknownPanel is returned when a panel name matches no aggregator.
var ErrUnknownPanel = errors.New("unknown panel")

// DefaultRankingSize is how many hours the ranking keeps on each side.
const DefaultRankingSize = 5

// Aggregator is the strategy interface for one dashboard panel.
// Implementations are pure: same View, same Summary. They never mutate the view.
type Aggregator interface {
	// Name identifies the panel.
	Name() string
	// Aggregate returns the summary, or core.ErrNoData when the view holds no rows for it.
	Aggregate(view core.View) (core.Summary, error)
}

// AggregatorFunc adapts a plain function to the Aggregator interface.
type AggregatorFunc struct {
	PanelName string
	Fn        func(core.View) (core.Summary, error)
}

func (f AggregatorFunc) Name() string { return f.PanelName }

func (f AggregatorFunc) Aggregate(view core.View) (core.Summary, error) {
	return f.Fn(view)
}

// DefaultAggregators returns the dashboard's panels in display order.
func DefaultAggregators() []Aggregator {
	return []Aggregator{
		DailyTrendAggregator{},
		MonthlyTrendAggregator{},
		SeasonalTotalsAggregator{},
		HourRankingAggregator{N: DefaultRankingSize},
		CategoryDistributionAggregator{Categorize: core.Categorize},
	}
}
