// internal/models/record.go
package models

// OptionalString is an explicitly present/absent string field. Spreadsheet
// columns like "B2C Tags" may be missing entirely; that is different from an
// empty cell, and both are different from a populated one.
type OptionalString struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
}

// Some returns a present OptionalString.
func Some(v string) OptionalString {
	return OptionalString{Value: v, Present: true}
}

// None returns an absent OptionalString.
func None() OptionalString {
	return OptionalString{}
}

// OrEmpty returns the value if present, otherwise "".
func (o OptionalString) OrEmpty() string {
	if o.Present {
		return o.Value
	}
	return ""
}

// ProductRecord is one spreadsheet row, resolved once at load time.
type ProductRecord struct {
	RowIndex           int            `json:"rowIndex"` // 1-based sheet row, header excluded
	StyleIdentifierRaw string         `json:"styleIdentifierRaw"`
	StyleName          string         `json:"styleName"`
	Quality            OptionalString `json:"quality"`
	B2CTags            OptionalString `json:"b2cTags"`
	Description        OptionalString `json:"description"`
}

// ImageEntry is one archive member bound to a StyleKey. The payload lives in
// the indexer's spool directory; consumers read it from Path.
type ImageEntry struct {
	StyleKey  string `json:"styleKey"`
	Path      string `json:"path"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
}

// Outcome is the terminal state of one record in the description pipeline.
type Outcome string

const (
	OutcomeInvalidKey Outcome = "INVALID_KEY"
	OutcomeCacheHit   Outcome = "CACHE_HIT"
	OutcomeGenerated  Outcome = "GENERATED"
	OutcomeNoImage    Outcome = "NO_IMAGE"
	// OutcomeFailed marks a generation attempt that ended in a diagnostic
	// instead of a description; the cache stays untouched for that key.
	OutcomeFailed Outcome = "FAILED"
)

// RunStats aggregates per-outcome counts for a whole batch.
type RunStats struct {
	Total      int `json:"total"`
	InvalidKey int `json:"invalidKey"`
	CacheHits  int `json:"cacheHits"`
	Generated  int `json:"generated"`
	NoImage    int `json:"noImage"`
	Failures   int `json:"failures"` // generation attempts that ended in a diagnostic
}

// Add records one outcome.
func (s *RunStats) Add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeInvalidKey:
		s.InvalidKey++
	case OutcomeCacheHit:
		s.CacheHits++
	case OutcomeGenerated:
		s.Generated++
	case OutcomeNoImage:
		s.NoImage++
	case OutcomeFailed:
		s.Failures++
	}
}
