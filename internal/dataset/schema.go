package dataset

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DailyColumns names the columns read from the daily table.
type DailyColumns struct {
	Date  string `yaml:"date"`
	Total string `yaml:"total_rentals"`
}

// HourlyColumns names the columns read from the hourly table.
type HourlyColumns struct {
	Date   string `yaml:"date"`
	Hour   string `yaml:"hour"`
	Season string `yaml:"season"`
	Total  string `yaml:"total_rentals"`
}

// Schema maps text table headers to record fields.
type Schema struct {
	Daily  DailyColumns  `yaml:"daily"`
	Hourly HourlyColumns `yaml:"hourly"`
}

// DefaultSchema returns the column names of the published dataset.
func DefaultSchema() Schema {
	return Schema{
		Daily: DailyColumns{
			Date:  "dteday",
			Total: "cnt",
		},
		Hourly: HourlyColumns{
			Date:   "date",
			Hour:   "hour",
			Season: "season",
			Total:  "total_rentals",
		},
	}
}

// LoadSchema reads a YAML schema file. Columns the file leaves out keep
// their default names. An empty path returns the defaults.
//
// Example:
//
//	daily:
//	  date: day
//	hourly:
//	  total_rentals: cnt
func LoadSchema(path string) (Schema, error) {
	s := DefaultSchema()
	if strings.TrimSpace(path) == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read schema file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse schema file %s: %w", path, err)
	}
	s.fillDefaults()
	return s, nil
}

// fillDefaults restores default names for keys present but left blank.
func (s *Schema) fillDefaults() {
	d := DefaultSchema()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&s.Daily.Date, d.Daily.Date},
		{&s.Daily.Total, d.Daily.Total},
		{&s.Hourly.Date, d.Hourly.Date},
		{&s.Hourly.Hour, d.Hourly.Hour},
		{&s.Hourly.Season, d.Hourly.Season},
		{&s.Hourly.Total, d.Hourly.Total},
	} {
		*f.dst = strings.TrimSpace(*f.dst)
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}
