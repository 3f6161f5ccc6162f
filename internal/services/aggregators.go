package services

import (
	"cmp"
	"maps"
	"slices"

	"bikedash/internal/core"
)

// DailyTrendAggregator lists daily totals by date. Duplicate dates are summed, not averaged.
type DailyTrendAggregator struct{}

func (DailyTrendAggregator) Name() string { return PanelDailyTrend }

func (DailyTrendAggregator) Aggregate(view core.View) (core.Summary, error) {
	if len(view.Daily) == 0 {
		return core.DailyTrend{}, core.ErrNoData
	}
	byDate := make(map[core.Date]int, len(view.Daily))
	for _, r := range view.Daily {
		byDate[r.Date] += r.TotalRentals
	}
	return core.DailyTrend{Points: sortedDatePoints(byDate)}, nil
}

// MonthlyTrendAggregator sums hourly totals per calendar month.
type MonthlyTrendAggregator struct{}

func (MonthlyTrendAggregator) Name() string { return PanelMonthlyTrend }

func (MonthlyTrendAggregator) Aggregate(view core.View) (core.Summary, error) {
	if len(view.Hourly) == 0 {
		return core.MonthlyTotals{}, core.ErrNoData
	}
	byMonth := make(map[core.Date]int)
	for _, r := range view.Hourly {
		byMonth[r.Date.MonthStart()] += r.TotalRentals
	}
	return core.MonthlyTotals{Points: sortedDatePoints(byMonth)}, nil
}

// SeasonalTotalsAggregator sums hourly totals per season, seasons in ascending order.
type SeasonalTotalsAggregator struct{}

func (SeasonalTotalsAggregator) Name() string { return PanelSeasonalTotals }

func (SeasonalTotalsAggregator) Aggregate(view core.View) (core.Summary, error) {
	if len(view.Hourly) == 0 {
		return core.SeasonalTotals{}, core.ErrNoData
	}
	bySeason := make(map[string]int)
	for _, r := range view.Hourly {
		bySeason[r.Season] += r.TotalRentals
	}
	out := core.SeasonalTotals{Seasons: make([]core.SeasonAmount, 0, len(bySeason))}
	for _, season := range slices.Sorted(maps.Keys(bySeason)) {
		out.Seasons = append(out.Seasons, core.SeasonAmount{Season: season, Total: bySeason[season]})
	}
	return out, nil
}

// HourRankingAggregator keeps the N busiest and N quietest hours of the day.
// Ties on total are broken by ascending hour.
type HourRankingAggregator struct {
	N int
}

func (HourRankingAggregator) Name() string { return PanelHourRanking }

func (a HourRankingAggregator) Aggregate(view core.View) (core.Summary, error) {
	if len(view.Hourly) == 0 {
		return core.HourRanking{}, core.ErrNoData
	}
	n := a.N
	if n <= 0 {
		n = DefaultRankingSize
	}

	byHour := make(map[int]int)
	for _, r := range view.Hourly {
		byHour[r.Hour] += r.TotalRentals
	}
	hours := make([]core.HourAmount, 0, len(byHour))
	for hour, total := range byHour {
		hours = append(hours, core.HourAmount{Hour: hour, Total: total})
	}

	top := slices.Clone(hours)
	slices.SortFunc(top, func(x, y core.HourAmount) int {
		return cmp.Or(cmp.Compare(y.Total, x.Total), cmp.Compare(x.Hour, y.Hour))
	})
	bottom := hours
	slices.SortFunc(bottom, func(x, y core.HourAmount) int {
		return cmp.Or(cmp.Compare(x.Total, y.Total), cmp.Compare(x.Hour, y.Hour))
	})

	return core.HourRanking{
		Top:    top[:min(n, len(top))],
		Bottom: bottom[:min(n, len(bottom))],
	}, nil
}

// CategoryDistributionAggregator counts hourly records per (season, rental category).
type CategoryDistributionAggregator struct {
	Categorize func(rentals int) core.RentalCategory
}

func (CategoryDistributionAggregator) Name() string { return PanelCategoryDistribution }

func (a CategoryDistributionAggregator) Aggregate(view core.View) (core.Summary, error) {
	if len(view.Hourly) == 0 {
		return core.SeasonCategoryDistribution{}, core.ErrNoData
	}
	categorize := a.Categorize
	if categorize == nil {
		categorize = core.Categorize
	}

	counts := make(map[string]*[3]int)
	for _, r := range view.Hourly {
		c, ok := counts[r.Season]
		if !ok {
			c = new([3]int)
			counts[r.Season] = c
		}
		c[categorize(r.TotalRentals)]++
	}

	out := core.SeasonCategoryDistribution{Rows: make([]core.SeasonCategoryRow, 0, len(counts))}
	for _, season := range slices.Sorted(maps.Keys(counts)) {
		out.Rows = append(out.Rows, core.SeasonCategoryRow{Season: season, Counts: *counts[season]})
	}
	return out, nil
}

func sortedDatePoints(totals map[core.Date]int) []core.DatePoint {
	points := make([]core.DatePoint, 0, len(totals))
	for d, total := range totals {
		points = append(points, core.DatePoint{Date: d, Total: total})
	}
	slices.SortFunc(points, func(x, y core.DatePoint) int {
		return x.Date.Compare(y.Date)
	})
	return points
}
