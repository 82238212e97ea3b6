// Package htmx detects HTMX requests and sets the response headers the editor
// relies on: event triggers, out-of-band swaps, retargeting and redirects.
//
// Trigger events without a detail are sent as a comma separated list. As soon
// as one event carries a detail the header switches to the JSON object form:
//
//	cfg := htmx.NewConfig(
//		htmx.WithTrigger("signature-updated"),
//		htmx.WithTriggerDetail("signature-copied", map[string]any{"size": 98}),
//	)
//	cfg.ApplyHeaders(w) // HX-Trigger: {"signature-copied":{"size":98},"signature-updated":null}
package htmx
