package models

// Status represents the overall outcome of an analysis
type Status string

const (
	StatusSuccess  Status = "success"
	StatusUnstable Status = "unstable"
	StatusFailed   Status = "failed"
)

// Diagnostic is a flag raised while building a report
type Diagnostic string

const (
	DiagUnderCompression     Diagnostic = "UnderCompression"
	DiagDecoherence          Diagnostic = "Decoherence"
	DiagCoercionDetected     Diagnostic = "CoercionDetected"
	DiagExpectationBreak     Diagnostic = "ExpectationBreak"
	DiagCoherenceVerified    Diagnostic = "CoherenceVerified"
	DiagCompressionRatioLow  Diagnostic = "CompressionRatioLow"
	DiagCompressionRatioHigh Diagnostic = "CompressionRatioHigh"
	DiagSemanticSurprise     Diagnostic = "SemanticSurprise"
	DiagNarrativeFlowBroken  Diagnostic = "NarrativeFlowBroken"
	DiagBoundaryInsightWeak  Diagnostic = "BoundaryInsightWeak"
)

// DiagnosticReport is the merged judgment for a single text.
// Built once per analysis and never mutated afterwards.
type DiagnosticReport struct {
	Status           Status         `json:"status"`
	Diagnostics      []Diagnostic   `json:"diagnostics"`
	CompressionRatio float64        `json:"compression_ratio"`
	CoherenceScore   float64        `json:"coherence_score"`
	BreaksDetected   int            `json:"breaks_detected"`
	CoercionDetected bool           `json:"coercion_detected"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// IsValid returns true if the analysis succeeded outright
func (r *DiagnosticReport) IsValid() bool {
	return r.Status == StatusSuccess
}

// HasIssues returns true if any diagnostic flags were raised
func (r *DiagnosticReport) HasIssues() bool {
	return len(r.Diagnostics) > 0
}

// NeedsRefinement returns true if the text is ambiguous rather than rejected
func (r *DiagnosticReport) NeedsRefinement() bool {
	return r.Status == StatusUnstable
}

// ToMap renders the report as a plain map for serialization, with enum
// members as their string values
func (r *DiagnosticReport) ToMap() map[string]any {
	diags := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		diags[i] = string(d)
	}
	metadata := r.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"status":            string(r.Status),
		"diagnostics":       diags,
		"compression_ratio": r.CompressionRatio,
		"coherence_score":   r.CoherenceScore,
		"breaks_detected":   r.BreaksDetected,
		"coercion_detected": r.CoercionDetected,
		"metadata":          metadata,
	}
}
