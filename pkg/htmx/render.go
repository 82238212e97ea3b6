package htmx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Renderable is the interface for OOB components.
// Compatible with templ.Component.
type Renderable interface {
	Render(ctx context.Context, w io.Writer) error
}

// Event is a client-side event with an optional detail payload.
type Event struct {
	Detail any
	Name   string
}

// Config holds HTMX render configuration.
type Config struct {
	OOBComponents       []Renderable
	Triggers            []Event
	TriggersAfterSettle []Event
	Retarget            string
	Reswap              SwapStrategy
	Refresh             bool
}

// RenderOption configures HTMX render behavior.
type RenderOption func(*Config)

// NewConfig creates a Config from options.
func NewConfig(opts ...RenderOption) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ApplyHeaders sets HTMX headers on the response.
// Must be called before WriteHeader.
func (c *Config) ApplyHeaders(w http.ResponseWriter) {
	if c == nil {
		return
	}

	h := w.Header()

	if c.Retarget != "" {
		h.Set(HeaderHXRetarget, c.Retarget)
	}
	if c.Reswap != "" {
		h.Set(HeaderHXReswap, string(c.Reswap))
	}
	if v := encodeEvents(c.Triggers); v != "" {
		h.Set(HeaderHXTrigger, v)
	}
	if v := encodeEvents(c.TriggersAfterSettle); v != "" {
		h.Set(HeaderHXTriggerAfterSettle, v)
	}
	if c.Refresh {
		h.Set(HeaderHXRefresh, "true")
	}
}

// encodeEvents returns the plain list form unless a detail is attached.
// Later events with the same name replace earlier ones in the JSON form.
func encodeEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}

	withDetail := false
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
		if e.Detail != nil {
			withDetail = true
		}
	}
	if !withDetail {
		return strings.Join(names, ", ")
	}

	obj := make(map[string]any, len(events))
	for _, e := range events {
		obj[e.Name] = e.Detail
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return strings.Join(names, ", ")
	}
	return string(b)
}

// WithOOB appends out-of-band components to render after the main component.
// Components must include id and hx-swap-oob attributes.
func WithOOB(components ...Renderable) RenderOption {
	return func(c *Config) {
		c.OOBComponents = append(c.OOBComponents, components...)
	}
}

// WithRetarget sets the HX-Retarget header to change the target element.
func WithRetarget(selector string) RenderOption {
	return func(c *Config) {
		c.Retarget = selector
	}
}

// WithReswap sets the HX-Reswap header to change the swap strategy.
func WithReswap(strategy SwapStrategy) RenderOption {
	return func(c *Config) {
		c.Reswap = strategy
	}
}

// WithTrigger adds client-side events to the HX-Trigger header.
func WithTrigger(events ...string) RenderOption {
	return func(c *Config) {
		for _, e := range events {
			c.Triggers = append(c.Triggers, Event{Name: e})
		}
	}
}

// WithTriggerDetail adds an event carrying a JSON detail to HX-Trigger.
func WithTriggerDetail(event string, detail any) RenderOption {
	return func(c *Config) {
		c.Triggers = append(c.Triggers, Event{Name: event, Detail: detail})
	}
}

// WithTriggerAfterSettle adds events fired after the settle phase.
func WithTriggerAfterSettle(events ...string) RenderOption {
	return func(c *Config) {
		for _, e := range events {
			c.TriggersAfterSettle = append(c.TriggersAfterSettle, Event{Name: e})
		}
	}
}

// WithRefresh sets the HX-Refresh header to force a full page refresh.
func WithRefresh() RenderOption {
	return func(c *Config) {
		c.Refresh = true
	}
}
