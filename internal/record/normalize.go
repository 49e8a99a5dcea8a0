// =============================================================================
// Payment Interval Analyzer - Event Body Normalization
// =============================================================================
//
// The "event body" column holds a JSON object, but exporters mangle it:
//
//   {"status": 8}            clean
//   {\"status\": 8}          quotes escaped with backslashes
//   "{\"status\": 8}"        escaped and wrapped in an extra pair of quotes
//
// Normalization is a chain of plain string rewrites applied in order before
// the JSON decode. It is heuristic pattern stripping, not JSON repair. A
// different BodyNormalizer can be plugged into the Parser without touching
// anything else in the pipeline.
//
// =============================================================================

package record

import "strings"

// BodyNormalizer rewrites a raw event body into something a JSON decoder can read.
type BodyNormalizer interface {
	Normalize(body string) string
}

// NormalizerFunc adapts a plain function to BodyNormalizer.
type NormalizerFunc func(body string) string

// Normalize calls f(body).
func (f NormalizerFunc) Normalize(body string) string {
	return f(body)
}

// NormalizerChain applies normalizers in order, feeding each the previous output.
type NormalizerChain []BodyNormalizer

// Normalize runs the whole chain.
func (c NormalizerChain) Normalize(body string) string {
	for _, n := range c {
		body = n.Normalize(body)
	}
	return body
}

// Then returns a new chain with n appended.
func (c NormalizerChain) Then(n BodyNormalizer) NormalizerChain {
	next := make(NormalizerChain, 0, len(c)+1)
	next = append(next, c...)
	return append(next, n)
}

var (
	// UnescapeQuotes turns \" into ".
	UnescapeQuotes = NormalizerFunc(func(body string) string {
		return strings.ReplaceAll(body, `\"`, `"`)
	})

	// StripBraceQuotes removes a quote immediately before { or after }.
	StripBraceQuotes = NormalizerFunc(func(body string) string {
		body = strings.ReplaceAll(body, `"{`, `{`)
		return strings.ReplaceAll(body, `}"`, `}`)
	})
)

// DefaultNormalizer handles both backslash-escaped and double-encoded bodies.
func DefaultNormalizer() BodyNormalizer {
	return NormalizerChain{UnescapeQuotes, StripBraceQuotes}
}
