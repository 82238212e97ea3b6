package internal

import "strings"

// ExtractorSource reads one candidate value from the request.
// It returns ("", false) when the request does not carry it.
type ExtractorSource = func(Context) (string, bool)

// Extractor resolves a request value from an ordered list of sources.
//
// With an accept check, a candidate only counts when accept takes it, so a
// rejected ?lang=fr falls through to the next source instead of hiding it.
type Extractor struct {
	accept  func(string) (string, bool)
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that consults sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Accepting returns a copy of e that keeps only candidates accepted by
// accept. accept may rewrite the value it accepts.
func (e Extractor) Accepting(accept func(string) (string, bool)) Extractor {
	e.accept = accept
	return e
}

// Extract returns the first non-blank candidate that passes the accept check.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		v, ok := src(c)
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			continue
		}
		if e.accept == nil {
			return v, true
		}
		if v, ok = e.accept(v); ok {
			return v, true
		}
	}
	return "", false
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Header(name))
	}
}

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		return present(c.Query(name))
	}
}

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := c.Cookie(name)
		if err != nil {
			return "", false
		}
		return present(v)
	}
}

func present(v string) (string, bool) {
	return v, v != ""
}
