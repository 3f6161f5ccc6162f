// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the date range selected in the sidebar and the panel name in API paths.

package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bikedash/internal/core"
)

// Query parameter names of the date range.
const (
	ParamStart = "start"
	ParamEnd   = "end"
)

// RangeParams is the date range requested by the client, after falling back
// to the data bounds for missing or unparseable values.
type RangeParams struct {
	Range    core.DateRange
	Warnings []string
}

// ParseDateRange reads start/end from the query. A missing value defaults to
// the matching data bound; an unparseable one does too and adds a warning.
// An inverted range is kept as is: the dashboard turns it into empty panels.
func ParseDateRange(query url.Values, bounds core.DateRange) RangeParams {
	params := RangeParams{Range: bounds}

	if d, warn := parseBound(query, ParamStart); warn != "" {
		params.Warnings = append(params.Warnings, warn)
	} else if !d.IsZero() {
		params.Range.Start = d
	}
	if d, warn := parseBound(query, ParamEnd); warn != "" {
		params.Warnings = append(params.Warnings, warn)
	} else if !d.IsZero() {
		params.Range.End = d
	}
	return params
}

func parseBound(query url.Values, name string) (core.Date, string) {
	raw := sanitizeInput(query.Get(name))
	if raw == "" {
		return core.Date{}, ""
	}
	d, err := core.ParseDate(raw)
	if err != nil {
		return core.Date{}, fmt.Sprintf("ignoring %s=%q: expected YYYY-MM-DD", name, raw)
	}
	return d, ""
}

// PanelName returns the {name} path value of a single-panel route.
func PanelName(r *http.Request) string {
	return strings.ToLower(sanitizeInput(r.PathValue("name")))
}
