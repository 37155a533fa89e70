package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subtextlab/subtext/pkg/models"
)

func TestBuildReport_Success(t *testing.T) {
	report := BuildReport(1.0, 0.9, 1, false, false, nil)

	assert.Equal(t, models.StatusSuccess, report.Status)
	assert.Contains(t, report.Diagnostics, models.DiagCoherenceVerified)
	assert.Contains(t, report.Diagnostics, models.DiagExpectationBreak)
	assert.True(t, report.IsValid())
	assert.NotNil(t, report.Metadata)
}

func TestBuildReport_CoercionAlwaysFails(t *testing.T) {
	tests := []struct {
		name             string
		compressionRatio float64
		coherenceScore   float64
		breaks           int
	}{
		{"perfect otherwise", 1.0, 0.9, 1},
		{"low coherence too", 1.0, 0.3, 0},
		{"out of range ratio", 5.0, 0.9, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := BuildReport(tt.compressionRatio, tt.coherenceScore, tt.breaks, true, false, nil)

			assert.Equal(t, models.StatusFailed, report.Status)
			assert.Contains(t, report.Diagnostics, models.DiagCoercionDetected)
			assert.False(t, report.IsValid())
		})
	}
}

func TestBuildReport_Decoherence(t *testing.T) {
	report := BuildReport(1.0, 0.5, 0, false, false, nil)

	assert.Equal(t, models.StatusUnstable, report.Status)
	assert.Contains(t, report.Diagnostics, models.DiagDecoherence)
	assert.True(t, report.NeedsRefinement())
}

func TestBuildReport_MixedSignalsDefaultUnstable(t *testing.T) {
	// Breaks present but coherence in the neutral band: no verification,
	// no decoherence, so the conservative default applies
	report := BuildReport(1.0, 0.7, 2, false, false, nil)

	assert.Equal(t, []models.Diagnostic{models.DiagExpectationBreak}, report.Diagnostics)
	assert.Equal(t, models.StatusUnstable, report.Status)
}

func TestBuildReport_EmptyDiagnosticsIsSuccess(t *testing.T) {
	report := BuildReport(1.0, 0.7, 0, false, false, nil)

	assert.Empty(t, report.Diagnostics)
	assert.Equal(t, models.StatusSuccess, report.Status)
	assert.False(t, report.HasIssues())
}

func TestBuildReport_SemanticSurprise(t *testing.T) {
	report := BuildReport(1.0, 0.9, 1, false, true, map[string]any{"source": "unit"})

	assert.Contains(t, report.Diagnostics, models.DiagSemanticSurprise)
	assert.Equal(t, models.StatusSuccess, report.Status)
	assert.Equal(t, "unit", report.Metadata["source"])
}

func TestCompressionDiagnostic(t *testing.T) {
	d, ok := CompressionDiagnostic(0.4)
	require.True(t, ok)
	assert.Equal(t, models.DiagCompressionRatioLow, d)

	d, ok = CompressionDiagnostic(2.5)
	require.True(t, ok)
	assert.Equal(t, models.DiagCompressionRatioHigh, d)

	_, ok = CompressionDiagnostic(1.0)
	assert.False(t, ok)

	// Boundary values raise nothing
	_, ok = CompressionDiagnostic(0.5)
	assert.False(t, ok)
	_, ok = CompressionDiagnostic(2.0)
	assert.False(t, ok)
}

func TestCoherenceDiagnostic(t *testing.T) {
	d, ok := CoherenceDiagnostic(0.59)
	require.True(t, ok)
	assert.Equal(t, models.DiagDecoherence, d)

	d, ok = CoherenceDiagnostic(0.8)
	require.True(t, ok)
	assert.Equal(t, models.DiagCoherenceVerified, d)

	_, ok = CoherenceDiagnostic(0.7)
	assert.False(t, ok)
}

func TestDetermineStatus_Priority(t *testing.T) {
	// Coercion dominates even alongside verified coherence
	status := DetermineStatus([]models.Diagnostic{models.DiagCoherenceVerified, models.DiagCoercionDetected})
	assert.Equal(t, models.StatusFailed, status)

	// Decoherence outranks verified coherence
	status = DetermineStatus([]models.Diagnostic{models.DiagCoherenceVerified, models.DiagDecoherence})
	assert.Equal(t, models.StatusUnstable, status)

	status = DetermineStatus(nil)
	assert.Equal(t, models.StatusSuccess, status)
}

func TestFormatReport(t *testing.T) {
	report := BuildReport(1.0, 0.9, 2, false, false, map[string]any{"title": "riddle"})

	out := FormatReport(report)
	lines := strings.Split(out, "\n")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Status: success", lines[0])
	assert.Equal(t, "Compression Ratio: 1.00", lines[1])
	assert.Equal(t, "Coherence Score: 0.90", lines[2])
	assert.Equal(t, "Breaks Detected: 2", lines[3])
	assert.Equal(t, "Coercion Detected: false", lines[4])
	assert.Contains(t, out, "Diagnostics: CoherenceVerified, ExpectationBreak")
	assert.Contains(t, out, "Metadata:")
}

func TestSuggestRefinement(t *testing.T) {
	report := BuildReport(0.4, 0.9, 0, false, false, nil)
	hint, ok := SuggestRefinement(report)
	require.True(t, ok)
	assert.Contains(t, hint, "too minimal")

	// Decoherence outranks the ratio hint in the lookup table
	report = BuildReport(0.4, 0.5, 0, false, false, nil)
	hint, ok = SuggestRefinement(report)
	require.True(t, ok)
	assert.Contains(t, hint, "Refocus the narrative")

	// Breaks alone have no entry in the table
	report = BuildReport(1.0, 0.7, 1, false, false, nil)
	_, ok = SuggestRefinement(report)
	assert.False(t, ok)
}

func TestReportToMap(t *testing.T) {
	report := BuildReport(1.0, 0.9, 1, false, false, nil)

	m := report.ToMap()

	assert.Equal(t, "success", m["status"])
	assert.Equal(t, []string{"CoherenceVerified", "ExpectationBreak"}, m["diagnostics"])
	assert.Equal(t, 1, m["breaks_detected"])
	assert.Equal(t, false, m["coercion_detected"])
	assert.Equal(t, map[string]any{}, m["metadata"])
}
