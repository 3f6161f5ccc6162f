package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"bikedash/internal/adapters"
	"bikedash/internal/core"
	applog "bikedash/internal/log"
	"bikedash/internal/services"
)

func templateFuncs(charts *adapters.ChartAdapter) template.FuncMap {
	return template.FuncMap{
		// chartJSON is placed in a data attribute and decoded by dashboard.js.
		"chartJSON": func(c adapters.ChartSpec) (string, error) {
			b, err := json.Marshal(c)
			return string(b), err
		},
		"count": charts.FormatCount,
	}
}

// dashboardView is the data of index.html and the panels partial.
type dashboardView struct {
	Bounds     core.DateRange
	Range      core.DateRange
	Empty      bool
	DailyRows  int
	HourlyRows int
	Panels     []adapters.Panel
	Warnings   []string
	Year       int
}

// parseRange reads start/end from the query and logs every fallback to a data bound.
func (s *Server) parseRange(r *http.Request) RangeParams {
	ctx := r.Context()
	params := ParseDateRange(r.URL.Query(), s.dashboard.Bounds())
	for _, w := range params.Warnings {
		applog.FromContext(ctx).WarnContext(ctx, "Invalid range parameter, using data bound",
			applog.FieldOperation, applog.OpParse,
			"warning", w,
			applog.FieldQuery, r.URL.RawQuery)
	}
	return params
}

func (s *Server) buildView(r *http.Request) dashboardView {
	ctx := r.Context()
	bounds := s.dashboard.Bounds()
	params := s.parseRange(r)

	report := s.dashboard.Build(ctx, params.Range)
	return dashboardView{
		Bounds:     bounds,
		Range:      params.Range,
		Empty:      s.dashboard.Dataset().Empty(),
		DailyRows:  report.DailyRows,
		HourlyRows: report.HourlyRows,
		Panels:     s.charts.AdaptReport(ctx, report),
		Warnings:   params.Warnings,
		Year:       time.Now().Year(),
	}
}

// render executes a template into a buffer so a failure never leaves a half-written page.
func (s *Server) render(r *http.Request, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		ctx := r.Context()
		applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Template execution failed",
			err, applog.ComponentTemplate, applog.OpRender, applog.LogFields{"template": name})
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	body, err := s.render(r, "index.html", s.buildView(r))
	if err != nil {
		InternalServerError("The dashboard could not be rendered.").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handlePanels re-renders every panel for the range chosen in the sidebar.
func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)
	body, err := s.render(r, "panels", view)
	if err != nil {
		InternalServerError("The charts could not be rendered.").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerRangeApplied(view.Range).
		TriggerWarnings(view.Warnings).
		BodyHTML(body).
		Write(w)
}

type chartsResponse struct {
	Range    rangeJSON        `json:"range"`
	Rows     rowsJSON         `json:"rows"`
	Panels   []adapters.Panel `json:"panels"`
	Warnings []string         `json:"warnings,omitempty"`
}

type rowsJSON struct {
	Daily  int `json:"daily"`
	Hourly int `json:"hourly"`
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	view := s.buildView(r)
	writeJSON(w, http.StatusOK, chartsResponse{
		Range:    toRangeJSON(view.Range),
		Rows:     rowsJSON{Daily: view.DailyRows, Hourly: view.HourlyRows},
		Panels:   view.Panels,
		Warnings: view.Warnings,
	})
}

// chartResponse is one panel with the range it was computed for.
type chartResponse struct {
	adapters.Panel
	Range    rangeJSON `json:"range"`
	Warnings []string  `json:"warnings,omitempty"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := PanelName(r)
	params := s.parseRange(r)

	res, err := s.dashboard.BuildPanel(ctx, name, params.Range)
	if errors.Is(err, services.ErrUnknownPanel) {
		applog.FromContext(ctx).WarnContext(ctx, "Unknown panel requested", applog.FieldPanel, name)
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "panel could not be computed")
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{
		Panel:    s.charts.AdaptResult(ctx, params.Range, res),
		Range:    toRangeJSON(params.Range),
		Warnings: params.Warnings,
	})
}

type boundsResponse struct {
	Range  rangeJSON `json:"range"`
	Rows   rowsJSON  `json:"rows"`
	Panels []string  `json:"panels"`
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	ds := s.dashboard.Dataset()
	writeJSON(w, http.StatusOK, boundsResponse{
		Range:  toRangeJSON(s.dashboard.Bounds()),
		Rows:   rowsJSON{Daily: ds.DailyRows(), Hourly: ds.HourlyRows()},
		Panels: s.dashboard.Panels(),
	})
}
