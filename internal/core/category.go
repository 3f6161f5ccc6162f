package core

// Category thresholds, inclusive on both ends of the Medium bucket.
const (
	MediumRentalsMin = 100
	MediumRentalsMax = 300
)

// RentalCategory is the ordinal bucket of an hourly rental count.
type RentalCategory int

const (
	Low RentalCategory = iota
	Medium
	High
)

// RentalCategories lists every bucket in ordinal order.
var RentalCategories = []RentalCategory{Low, Medium, High}

// Categorize maps a non-negative rental count to its bucket.
func Categorize(rentals int) RentalCategory {
	switch {
	case rentals < MediumRentalsMin:
		return Low
	case rentals <= MediumRentalsMax:
		return Medium
	default:
		return High
	}
}

func (c RentalCategory) String() string {
	switch c {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return "Unknown"
	}
}
