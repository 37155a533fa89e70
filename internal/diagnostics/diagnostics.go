// Package diagnostics builds diagnostic reports and resolves their status.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/subtextlab/subtext/pkg/models"
)

// Thresholds for scalar inputs.
const (
	compressionRatioLow  = 0.5
	compressionRatioHigh = 2.0
	coherenceFloor       = 0.6
	coherenceVerified    = 0.8
)

// BuildReport derives the diagnostic set from the supplied scalars and
// resolves the overall status. Deterministic and side-effect-free; callers
// run the classifier and validator beforehand and pass the results in.
func BuildReport(compressionRatio, coherenceScore float64, breaksDetected int, coercionDetected, semanticSurprise bool, metadata map[string]any) *models.DiagnosticReport {
	var diags []models.Diagnostic

	if d, ok := CompressionDiagnostic(compressionRatio); ok {
		diags = append(diags, d)
	}
	if d, ok := CoherenceDiagnostic(coherenceScore); ok {
		diags = append(diags, d)
	}
	if coercionDetected {
		diags = append(diags, models.DiagCoercionDetected)
	}
	if breaksDetected > 0 {
		diags = append(diags, models.DiagExpectationBreak)
	}
	if semanticSurprise {
		diags = append(diags, models.DiagSemanticSurprise)
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	return &models.DiagnosticReport{
		Status:           DetermineStatus(diags),
		Diagnostics:      diags,
		CompressionRatio: compressionRatio,
		CoherenceScore:   coherenceScore,
		BreaksDetected:   breaksDetected,
		CoercionDetected: coercionDetected,
		Metadata:         metadata,
	}
}

// DetermineStatus resolves the overall status by strict priority:
// coercion fails outright, decoherence is unstable, verified coherence
// succeeds, and any other non-empty diagnostic set defaults to unstable.
func DetermineStatus(diags []models.Diagnostic) models.Status {
	if contains(diags, models.DiagCoercionDetected) {
		return models.StatusFailed
	}
	if contains(diags, models.DiagDecoherence) {
		return models.StatusUnstable
	}
	if contains(diags, models.DiagCoherenceVerified) {
		return models.StatusSuccess
	}
	if len(diags) > 0 {
		return models.StatusUnstable
	}
	return models.StatusSuccess
}

// CompressionDiagnostic flags compression ratios outside [0.5, 2.0]
func CompressionDiagnostic(ratio float64) (models.Diagnostic, bool) {
	if ratio < compressionRatioLow {
		return models.DiagCompressionRatioLow, true
	}
	if ratio > compressionRatioHigh {
		return models.DiagCompressionRatioHigh, true
	}
	return "", false
}

// CoherenceDiagnostic flags coherence scores below 0.6 as decoherence and
// scores of 0.8 or above as verified; the band between raises nothing
func CoherenceDiagnostic(score float64) (models.Diagnostic, bool) {
	if score < coherenceFloor {
		return models.DiagDecoherence, true
	}
	if score >= coherenceVerified {
		return models.DiagCoherenceVerified, true
	}
	return "", false
}

// FormatReport renders a fixed-order human-readable summary of a report
func FormatReport(report *models.DiagnosticReport) string {
	lines := []string{
		fmt.Sprintf("Status: %s", report.Status),
		fmt.Sprintf("Compression Ratio: %.2f", report.CompressionRatio),
		fmt.Sprintf("Coherence Score: %.2f", report.CoherenceScore),
		fmt.Sprintf("Breaks Detected: %d", report.BreaksDetected),
		fmt.Sprintf("Coercion Detected: %t", report.CoercionDetected),
	}

	if len(report.Diagnostics) > 0 {
		names := make([]string, len(report.Diagnostics))
		for i, d := range report.Diagnostics {
			names[i] = string(d)
		}
		lines = append(lines, fmt.Sprintf("Diagnostics: %s", strings.Join(names, ", ")))
	}

	if len(report.Metadata) > 0 {
		lines = append(lines, fmt.Sprintf("Metadata: %v", report.Metadata))
	}

	return strings.Join(lines, "\n")
}

// refinementHints maps a diagnostic to a fixed, machine-actionable
// suggestion. Lookup order matters: the first present diagnostic wins.
var refinementHints = []struct {
	diag models.Diagnostic
	hint string
}{
	{models.DiagUnderCompression, "Expand the joke further; the insight needs more unfolding."},
	{models.DiagDecoherence, "Refocus the narrative; the core insight is getting lost."},
	{models.DiagCoercionDetected, "Reframe as invitation, not demand. Let the reader choose."},
	{models.DiagCompressionRatioLow, "The expansion is too minimal. Add more verses or layers."},
	{models.DiagCompressionRatioHigh, "The expansion is too verbose. Tighten the narrative."},
	{models.DiagBoundaryInsightWeak, "Strengthen the boundary insight; it's the anchor of the song."},
}

// SuggestRefinement returns the hint for the first diagnostic in the
// lookup table that appears in the report, or false if none match
func SuggestRefinement(report *models.DiagnosticReport) (string, bool) {
	for _, entry := range refinementHints {
		if contains(report.Diagnostics, entry.diag) {
			return entry.hint, true
		}
	}
	return "", false
}

func contains(diags []models.Diagnostic, target models.Diagnostic) bool {
	for _, d := range diags {
		if d == target {
			return true
		}
	}
	return false
}
