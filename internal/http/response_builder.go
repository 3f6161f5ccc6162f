package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"bikedash/internal/core"
)

// HTMX events emitted by the dashboard.
const (
	EventRangeApplied     = "range:applied"
	EventShowNotification = "show-notification"
)

// HTMXResponseBuilder collects the HX-Trigger events, status and HTML body of
// one htmx response. Triggers are sent as a single JSON object.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
}

// NewHTMXResponse starts a 200 response with no events.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerRangeApplied tells the sidebar which range the panels were computed for.
func (b *HTMXResponseBuilder) TriggerRangeApplied(rng core.DateRange) *HTMXResponseBuilder {
	return b.Trigger(EventRangeApplied, toRangeJSON(rng))
}

// NotificationType is the toast style dashboard.js uses.
type NotificationType string

const (
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
)

// TriggerNotification adds a show-notification trigger with the specified parameters.
func (b *HTMXResponseBuilder) TriggerNotification(notifType NotificationType, message string, durationMs int) *HTMXResponseBuilder {
	return b.Trigger(EventShowNotification, map[string]any{
		"type":     string(notifType),
		"message":  message,
		"duration": durationMs,
	})
}

// TriggerWarnings shows the input warnings, joined, as one notification.
func (b *HTMXResponseBuilder) TriggerWarnings(warnings []string) *HTMXResponseBuilder {
	if len(warnings) == 0 {
		return b
	}
	return b.TriggerNotification(NotificationWarning, strings.Join(warnings, "; "), 5000)
}

// BodyHTML sets a rendered HTML fragment as the body.
func (b *HTMXResponseBuilder) BodyHTML(html []byte) *HTMXResponseBuilder {
	b.body = html
	return b
}

// Write sends the response. The body is always HTML.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse renders message, escaped, in the same notice box a failed panel uses.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML([]byte(`<div class="notice notice-error">` + template.HTMLEscapeString(message) + `</div>`))
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// TooManyRequestsError creates a 429 response that htmx surfaces as a notification.
func TooManyRequestsError() *HTMXResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "Too many requests, please slow down.").
		TriggerNotification(NotificationError, "Too many requests, please slow down.", 5000)
}
