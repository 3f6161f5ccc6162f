package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikedash/internal/core"
)

func sampleDataset() *core.Dataset {
	daily := []core.DailyRecord{
		{Date: core.NewDate(2011, 1, 1), TotalRentals: 985},
		{Date: core.NewDate(2011, 1, 2), TotalRentals: 801},
		{Date: core.NewDate(2011, 7, 1), TotalRentals: 6043},
	}
	hourly := []core.HourlyRecord{
		hourly(2011, 1, 1, 8, "Winter", 40),
		hourly(2011, 1, 2, 17, "Winter", 120),
		hourly(2011, 7, 1, 6, "Summer", 50),
		hourly(2011, 7, 1, 7, "Summer", 150),
		hourly(2011, 7, 1, 8, "Summer", 350),
	}
	return core.NewDataset(daily, hourly)
}

func TestBuildComputesEveryPanel(t *testing.T) {
	svc := NewDashboardService(sampleDataset())
	report := svc.Build(context.Background(), svc.Bounds())

	assert.Equal(t, 3, report.DailyRows)
	assert.Equal(t, 5, report.HourlyRows)
	require.Len(t, report.Panels, len(DefaultAggregators()))
	for i, p := range report.Panels {
		assert.Equal(t, svc.Panels()[i], p.Name)
		assert.NoError(t, p.Err, p.Name)
		require.NotNil(t, p.Summary, p.Name)
		assert.False(t, p.Summary.IsEmpty(), p.Name)
	}
}

func TestBuildConservesHourlyTotalsAcrossPanels(t *testing.T) {
	svc := NewDashboardService(sampleDataset())
	report := svc.Build(context.Background(), svc.Bounds())

	var monthly, seasonal, categorized int
	for _, p := range report.Panels {
		switch s := p.Summary.(type) {
		case core.MonthlyTotals:
			monthly = s.Total()
		case core.SeasonalTotals:
			for _, season := range s.Seasons {
				seasonal += season.Total
			}
		case core.SeasonCategoryDistribution:
			for _, row := range s.Rows {
				categorized += row.Total()
			}
		}
	}
	assert.Equal(t, 710, monthly)
	assert.Equal(t, monthly, seasonal)
	assert.Equal(t, 5, categorized)
}

func TestBuildOutsideDataDegradesToNoData(t *testing.T) {
	svc := NewDashboardService(sampleDataset())
	ranges := map[string]core.DateRange{
		"outside":  core.NewDateRange(core.NewDate(2030, 1, 1), core.NewDate(2030, 2, 1)),
		"inverted": core.NewDateRange(core.NewDate(2011, 7, 1), core.NewDate(2011, 1, 1)),
	}
	for name, rng := range ranges {
		t.Run(name, func(t *testing.T) {
			report := svc.Build(context.Background(), rng)
			assert.Zero(t, report.DailyRows)
			assert.Zero(t, report.HourlyRows)
			for _, p := range report.Panels {
				assert.True(t, p.NoData(), p.Name)
				assert.Nil(t, p.Summary, p.Name)
			}
		})
	}
}

func TestBuildIsolatesFailingPanels(t *testing.T) {
	boom := errors.New("boom")
	svc := NewDashboardService(sampleDataset(),
		AggregatorFunc{PanelName: "panics", Fn: func(core.View) (core.Summary, error) {
			var m map[string]int
			m["x"]++
			return nil, nil
		}},
		AggregatorFunc{PanelName: "fails", Fn: func(core.View) (core.Summary, error) {
			return nil, boom
		}},
		AggregatorFunc{PanelName: "nil-summary", Fn: func(core.View) (core.Summary, error) {
			return nil, nil
		}},
		SeasonalTotalsAggregator{},
	)

	report := svc.Build(context.Background(), svc.Bounds())
	require.Len(t, report.Panels, 4)

	assert.Error(t, report.Panels[0].Err)
	assert.False(t, report.Panels[0].NoData())

	assert.ErrorIs(t, report.Panels[1].Err, boom)
	assert.Contains(t, report.Panels[1].Err.Error(), "fails")

	assert.True(t, report.Panels[2].NoData())

	assert.NoError(t, report.Panels[3].Err)
	assert.Equal(t, PanelSeasonalTotals, report.Panels[3].Name)
}

func TestBuildPanel(t *testing.T) {
	svc := NewDashboardService(sampleDataset())
	january := core.NewDateRange(core.NewDate(2011, 1, 1), core.NewDate(2011, 1, 31))

	res, err := svc.BuildPanel(context.Background(), PanelSeasonalTotals, january)
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, []core.SeasonAmount{{Season: "Winter", Total: 160}}, res.Summary.(core.SeasonalTotals).Seasons)

	_, err = svc.BuildPanel(context.Background(), "pie-chart", january)
	assert.ErrorIs(t, err, ErrUnknownPanel)

	custom := NewDashboardService(sampleDataset(), SeasonalTotalsAggregator{})
	_, err = custom.BuildPanel(context.Background(), PanelHourRanking, january)
	assert.ErrorIs(t, err, ErrUnknownPanel, "only configured panels are reachable")
}

func TestBuildDoesNotMutateDataset(t *testing.T) {
	ds := sampleDataset()
	svc := NewDashboardService(ds)
	before := ds.Filter(ds.Bounds())

	svc.Build(context.Background(), core.NewDateRange(core.NewDate(2011, 7, 1), core.NewDate(2011, 7, 1)))
	svc.Build(context.Background(), ds.Bounds())

	assert.Equal(t, before, ds.Filter(ds.Bounds()))
}
