// Package adapters turns computed panel summaries into Chart.js specs.
//
// The adapter never aggregates: it only maps the rows of a summary to labels,
// datasets and colours, so the same summary always renders the same chart.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bikedash/internal/core"
	applog "bikedash/internal/log"
	"bikedash/internal/services"
)

// Panel outcomes, shared with the metrics labels.
const (
	OutcomeChart  = "chart"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// Notice levels.
const (
	NoticeWarning = "warning"
	NoticeError   = "error"
)

const (
	noDataMessage = "No data to display in this chart."
	errorMessage  = "This chart could not be computed."
)

// Palette colours used by the charts.
const (
	colorRoyalBlue    = "#4169E1"
	colorMonthly      = "#1976D2"
	colorTopBar       = "#FFA07A"
	colorTopPeak      = "#FF4500"
	colorBottomBar    = "#4682B4"
	colorBottomTrough = "#00008B"
)

var (
	// ColorBrewer Set2
	set2 = []string{"#66C2A5", "#FC8D62", "#8DA0CB", "#E78AC3", "#A6D854", "#FFD92F", "#E5C494", "#B3B3B3"}

	// viridis sampled at 0, 0.5 and 1, one colour per rental category
	viridis3 = [3]string{"#440154", "#21918C", "#FDE725"}
)

type (
	// Axis describes one chart axis.
	Axis struct {
		Title      string `json:"title"`
		DashedGrid bool   `json:"dashedGrid,omitempty"`
		Stacked    bool   `json:"stacked,omitempty"`
	}

	// Series is one Chart.js dataset. PointLabels are drawn above the points
	// by dashboard.js; empty entries are skipped.
	Series struct {
		Label           string   `json:"label"`
		Data            []int    `json:"data"`
		BackgroundColor []string `json:"backgroundColor,omitempty"`
		BorderColor     string   `json:"borderColor,omitempty"`
		BorderWidth     int      `json:"borderWidth,omitempty"`
		PointRadius     int      `json:"pointRadius"`
		PointLabels     []string `json:"pointLabels,omitempty"`
	}

	// ChartSpec is everything dashboard.js needs to draw one chart.
	ChartSpec struct {
		ID          string   `json:"id"`
		Type        string   `json:"type"` // line or bar
		Title       string   `json:"title"`
		Labels      []string `json:"labels"`
		Series      []Series `json:"series"`
		X           Axis     `json:"x"`
		Y           Axis     `json:"y"`
		Legend      bool     `json:"legend"`
		LegendTitle string   `json:"legendTitle,omitempty"`
	}

	// Notice replaces a panel's charts when it has nothing to draw.
	Notice struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	}

	// Panel is the rendered form of one services.PanelResult.
	Panel struct {
		ID     string      `json:"id"`
		Title  string      `json:"title"`
		Charts []ChartSpec `json:"charts,omitempty"`
		Notice *Notice     `json:"notice,omitempty"`
	}
)

// Outcome classifies the panel for logs and metrics.
func (p Panel) Outcome() string {
	switch {
	case p.Notice == nil:
		return OutcomeChart
	case p.Notice.Level == NoticeWarning:
		return OutcomeNoData
	default:
		return OutcomeError
	}
}

// PanelObserver counts rendered panels by outcome.
type PanelObserver interface {
	ObservePanel(panel, outcome string)
}

var panelTitles = map[string]string{
	services.PanelDailyTrend:           "Daily Bike Rentals Trend",
	services.PanelMonthlyTrend:         "Monthly Bike Rentals Trend",
	services.PanelSeasonalTotals:       "Total Bike Rentals by Season",
	services.PanelHourRanking:          "Busiest and Quietest Rental Hours",
	services.PanelCategoryDistribution: "Rental Categories by Season",
}

// Title returns the display title of a panel.
func Title(panel string) string {
	if t, ok := panelTitles[panel]; ok {
		return t
	}
	return panel
}

// ChartAdapter maps panel results to chart specs.
type ChartAdapter struct {
	printer  *message.Printer
	logger   *applog.StructuredLogger
	observer PanelObserver
}

// NewChartAdapter creates an adapter. logger and observer may be nil.
func NewChartAdapter(logger *applog.Logger, observer PanelObserver) *ChartAdapter {
	a := &ChartAdapter{
		printer:  message.NewPrinter(language.English),
		observer: observer,
	}
	if logger != nil {
		a.logger = applog.NewStructuredLogger(logger)
	}
	return a
}

// AdaptReport adapts every panel of a report, recording each outcome.
func (a *ChartAdapter) AdaptReport(ctx context.Context, report services.Report) []Panel {
	panels := make([]Panel, 0, len(report.Panels))
	for _, res := range report.Panels {
		panels = append(panels, a.AdaptResult(ctx, report.Range, res))
	}
	return panels
}

// AdaptResult adapts one result and records its outcome.
func (a *ChartAdapter) AdaptResult(ctx context.Context, rng core.DateRange, res services.PanelResult) Panel {
	p := a.Adapt(res)
	if a.logger != nil {
		a.logger.LogPanelRendered(ctx, p.ID, p.Outcome(), rng.Start.String(), rng.End.String())
	}
	if a.observer != nil {
		a.observer.ObservePanel(p.ID, p.Outcome())
	}
	return p
}

// Adapt converts a panel result into its charts, or a notice when the panel
// has no data or failed.
func (a *ChartAdapter) Adapt(res services.PanelResult) Panel {
	p := Panel{ID: res.Name, Title: Title(res.Name)}

	switch {
	case errors.Is(res.Err, core.ErrNoData):
		p.Notice = &Notice{Level: NoticeWarning, Message: noDataMessage}
		return p
	case res.Err != nil:
		p.Notice = &Notice{Level: NoticeError, Message: errorMessage}
		return p
	}

	switch s := res.Summary.(type) {
	case core.DailyTrend:
		p.Charts = []ChartSpec{a.dailyTrend(res.Name, s)}
	case core.MonthlyTotals:
		p.Charts = []ChartSpec{a.monthlyTrend(res.Name, s)}
	case core.SeasonalTotals:
		p.Charts = []ChartSpec{a.seasonalTotals(res.Name, s)}
	case core.HourRanking:
		p.Charts = a.hourRanking(res.Name, s)
	case core.SeasonCategoryDistribution:
		p.Charts = []ChartSpec{a.categoryDistribution(res.Name, s)}
	default:
		p.Notice = &Notice{Level: NoticeError, Message: errorMessage}
		return p
	}

	if len(p.Charts) == 0 {
		p.Notice = &Notice{Level: NoticeWarning, Message: noDataMessage}
	}
	return p
}

func (a *ChartAdapter) dailyTrend(id string, s core.DailyTrend) ChartSpec {
	labels := make([]string, len(s.Points))
	data := make([]int, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Date.String()
		data[i] = p.Total
	}
	return ChartSpec{
		ID:     id,
		Type:   "line",
		Title:  Title(id),
		Labels: labels,
		Series: []Series{{
			Label:       "Rentals",
			Data:        data,
			BorderColor: colorRoyalBlue,
			BorderWidth: 2,
		}},
		X: Axis{Title: "Date"},
		Y: Axis{Title: "Number of Rentals", DashedGrid: true},
	}
}

func (a *ChartAdapter) monthlyTrend(id string, s core.MonthlyTotals) ChartSpec {
	labels := make([]string, len(s.Points))
	data := make([]int, len(s.Points))
	pointLabels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Date.Format("2006-01")
		data[i] = p.Total
		if i%2 == 0 {
			pointLabels[i] = a.printer.Sprintf("%d", p.Total)
		}
	}
	return ChartSpec{
		ID:     id,
		Type:   "line",
		Title:  Title(id),
		Labels: labels,
		Series: []Series{{
			Label:       "Rentals",
			Data:        data,
			BorderColor: colorMonthly,
			BorderWidth: 2,
			PointRadius: 4,
			PointLabels: pointLabels,
		}},
		X: Axis{Title: "Month"},
		Y: Axis{Title: "Number of Rentals", DashedGrid: true},
	}
}

func (a *ChartAdapter) seasonalTotals(id string, s core.SeasonalTotals) ChartSpec {
	labels := make([]string, len(s.Seasons))
	data := make([]int, len(s.Seasons))
	colors := make([]string, len(s.Seasons))
	for i, season := range s.Seasons {
		labels[i] = season.Season
		data[i] = season.Total
		colors[i] = set2[i%len(set2)]
	}
	return ChartSpec{
		ID:     id,
		Type:   "bar",
		Title:  Title(id),
		Labels: labels,
		Series: []Series{{
			Label:           "Total Rentals",
			Data:            data,
			BackgroundColor: colors,
		}},
		X: Axis{Title: "Season"},
		Y: Axis{Title: "Total Rentals"},
	}
}

// hourRanking draws the busiest and the quietest hours side by side. Top is
// sorted descending and Bottom ascending, so the extreme bar is always first.
func (a *ChartAdapter) hourRanking(id string, s core.HourRanking) []ChartSpec {
	var charts []ChartSpec
	if len(s.Top) > 0 {
		charts = append(charts, hourChart(id+"-top", "Busiest Rental Hours", "Total Rentals", s.Top, colorTopBar, colorTopPeak))
	}
	if len(s.Bottom) > 0 {
		charts = append(charts, hourChart(id+"-bottom", "Quietest Rental Hours", "Total Rentals", s.Bottom, colorBottomBar, colorBottomTrough))
	}
	return charts
}

func hourChart(id, title, label string, hours []core.HourAmount, base, highlight string) ChartSpec {
	labels := make([]string, len(hours))
	data := make([]int, len(hours))
	colors := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = strconv.Itoa(h.Hour)
		data[i] = h.Total
		colors[i] = base
	}
	colors[0] = highlight
	return ChartSpec{
		ID:     id,
		Type:   "bar",
		Title:  title,
		Labels: labels,
		Series: []Series{{
			Label:           label,
			Data:            data,
			BackgroundColor: colors,
		}},
		X: Axis{Title: "Hour of the Day"},
		Y: Axis{Title: "Total Rentals"},
	}
}

func (a *ChartAdapter) categoryDistribution(id string, s core.SeasonCategoryDistribution) ChartSpec {
	labels := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		labels[i] = row.Season
	}
	series := make([]Series, 0, len(core.RentalCategories))
	for _, c := range core.RentalCategories {
		data := make([]int, len(s.Rows))
		for i, row := range s.Rows {
			data[i] = row.Count(c)
		}
		series = append(series, Series{
			Label:           c.String(),
			Data:            data,
			BackgroundColor: []string{viridis3[c]},
		})
	}
	return ChartSpec{
		ID:          id,
		Type:        "bar",
		Title:       Title(id),
		Labels:      labels,
		Series:      series,
		X:           Axis{Title: "Season", Stacked: true},
		Y:           Axis{Title: "Number of Rentals", Stacked: true},
		Legend:      true,
		LegendTitle: "Rental Category",
	}
}

// FormatCount renders n with thousands separators.
func (a *ChartAdapter) FormatCount(n int) string {
	return a.printer.Sprintf("%d", n)
}

// String is used in logs.
func (p Panel) String() string {
	return fmt.Sprintf("%s(%s)", p.ID, p.Outcome())
}
