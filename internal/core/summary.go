package core

// Summary is a derived table computed from one View.
type Summary interface {
	IsEmpty() bool
}

// DatePoint is one day's total.
type DatePoint struct {
	Date  Date
	Total int
}

// DailyTrend is the daily totals sorted by date ascending.
type DailyTrend struct {
	Points []DatePoint
}

// MonthlyTotals maps calendar month to total rentals, sorted by month ascending.
// Month holds the first day of the month.
type MonthlyTotals struct {
	Points []DatePoint
}

// SeasonAmount is the total rentals of one season.
type SeasonAmount struct {
	Season string
	Total  int
}

// SeasonalTotals is one entry per season present in the view.
type SeasonalTotals struct {
	Seasons []SeasonAmount
}

// HourAmount is the total rentals of one hour of the day.
type HourAmount struct {
	Hour  int
	Total int
}

// HourRanking holds the busiest hours (descending) and the quietest (ascending).
type HourRanking struct {
	Top    []HourAmount
	Bottom []HourAmount
}

// SeasonCategoryRow counts records per rental category for one season.
type SeasonCategoryRow struct {
	Season string
	Counts [3]int // indexed by RentalCategory
}

// SeasonCategoryDistribution is the season x category pivot.
type SeasonCategoryDistribution struct {
	Rows []SeasonCategoryRow
}

func (s DailyTrend) IsEmpty() bool                 { return len(s.Points) == 0 }
func (s MonthlyTotals) IsEmpty() bool              { return len(s.Points) == 0 }
func (s SeasonalTotals) IsEmpty() bool             { return len(s.Seasons) == 0 }
func (s HourRanking) IsEmpty() bool                { return len(s.Top) == 0 && len(s.Bottom) == 0 }
func (s SeasonCategoryDistribution) IsEmpty() bool { return len(s.Rows) == 0 }

// Total sums the monthly points.
func (s MonthlyTotals) Total() int {
	total := 0
	for _, p := range s.Points {
		total += p.Total
	}
	return total
}

// Count returns the number of records of category c in this season.
func (r SeasonCategoryRow) Count(c RentalCategory) int {
	if c < Low || c > High {
		return 0
	}
	return r.Counts[c]
}

// Total returns the number of records of this season across categories.
func (r SeasonCategoryRow) Total() int {
	return r.Counts[Low] + r.Counts[Medium] + r.Counts[High]
}
