package intent

// Decision is the ephemeral output of one classification.
type Decision struct {
	Intent     Intent
	Confidence float64 // 0.0–1.0
	Entities   map[string]any
	// Note explains a degraded decision (empty when the classifier reply was used).
	Note string
}

// FallbackDecision returns the safe decision used when classification is impossible.
func FallbackDecision(note string) Decision {
	return Decision{
		Intent:     Fallback,
		Confidence: FallbackConfidence,
		Entities:   map[string]any{},
		Note:       note,
	}
}

// IsFallback reports whether the decision was produced without a usable reply.
func (d Decision) IsFallback() bool { return d.Note != "" }
