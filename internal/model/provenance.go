package model

// Provenance records where a value came from.
type Provenance string

const (
	// ProvenanceMeasured is live data returned by the upstream source.
	ProvenanceMeasured Provenance = "measured"
	// ProvenanceEstimated is static fallback data substituted for a live source.
	ProvenanceEstimated Provenance = "estimated"
	// ProvenanceUnavailable means neither live nor fallback data exists.
	ProvenanceUnavailable Provenance = "unavailable"
)

// Sourced carries a value together with its provenance. Adapters that always
// succeed return a Sourced value instead of an error so callers branch on the
// tag rather than guessing whether the data is real.
type Sourced[T any] struct {
	Value      *T         `json:"value,omitempty"`
	Provenance Provenance `json:"provenance"`
}

// Measured wraps live data.
func Measured[T any](v T) Sourced[T] {
	return Sourced[T]{Value: &v, Provenance: ProvenanceMeasured}
}

// Estimated wraps fallback data.
func Estimated[T any](v T) Sourced[T] {
	return Sourced[T]{Value: &v, Provenance: ProvenanceEstimated}
}

// Unavailable returns an empty result.
func Unavailable[T any]() Sourced[T] {
	return Sourced[T]{Provenance: ProvenanceUnavailable}
}

// IsMeasured reports whether the value is present and came from a live source.
func (s Sourced[T]) IsMeasured() bool {
	return s.Provenance == ProvenanceMeasured && s.Value != nil
}

// IsEstimate reports whether the value is fallback data.
func (s Sourced[T]) IsEstimate() bool {
	return s.Provenance == ProvenanceEstimated
}

// Get returns the value regardless of provenance, or nil when unavailable.
func (s Sourced[T]) Get() *T {
	if s.Provenance == ProvenanceUnavailable {
		return nil
	}
	return s.Value
}

// MeasuredOnly returns the value only when it is measured.
func (s Sourced[T]) MeasuredOnly() *T {
	if !s.IsMeasured() {
		return nil
	}
	return s.Value
}
