// Package forge turns short strings of text into multi-line block-glyph art.
// It provides the generation orchestrator, a capacity-bounded result cache,
// the pure glyph renderer, and the event bus that ties them to display
// collaborators.
package forge

import "strings"

// Defaults applied by Normalize when a request field is empty.
const (
	DefaultFont      = "standard"
	DefaultScheme    = "none"
	DefaultAnimation = "none"
)

// keySep separates fields inside canonical cache keys. An unprintable
// separator keeps semantically different requests from colliding under naive
// concatenation.
const keySep = "\x1f"

// Request describes one generation. Text is required; the remaining fields
// fall back to defaults during normalization. An unknown FontID is resolved
// to the default font by the font provider rather than failing.
type Request struct {
	Text      string
	FontID    string
	Scheme    string
	Animation string
}

// Normalize returns a fully-populated copy of the request with all defaults
// applied. It is the single place defaults live; the rest of the pipeline
// consumes normalized requests only.
func (r Request) Normalize() Request {
	if strings.TrimSpace(r.FontID) == "" {
		r.FontID = DefaultFont
	}
	if strings.TrimSpace(r.Scheme) == "" {
		r.Scheme = DefaultScheme
	}
	if strings.TrimSpace(r.Animation) == "" {
		r.Animation = DefaultAnimation
	}
	return r
}

// CacheKey builds the canonical cache key for a normalized request: all four
// fields lowercased and joined with an unprintable separator. Requests that
// differ only in case share a key.
func (r Request) CacheKey() string {
	return strings.Join([]string{
		strings.ToLower(r.Text),
		strings.ToLower(r.FontID),
		strings.ToLower(r.Scheme),
		strings.ToLower(r.Animation),
	}, keySep)
}

// Metadata describes how a result was produced.
type Metadata struct {
	LineCount  int
	SourceFont string
}

// Result is a finished piece of block art. Results are immutable once
// produced: the cache and every bus handler see the same value and must not
// modify it.
type Result struct {
	Success  bool
	ASCII    string
	Metadata Metadata
}
