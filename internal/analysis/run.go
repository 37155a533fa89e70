// Package analysis composes the classifier, validator, and diagnostics
// into a single pipeline: classify first, then validate, then build the
// report from the derived scalars.
package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/subtextlab/subtext/internal/classifier"
	"github.com/subtextlab/subtext/internal/diagnostics"
	"github.com/subtextlab/subtext/internal/validator"
	"github.com/subtextlab/subtext/pkg/models"
)

// coherencePenalty is subtracted from the derived coherence score for
// each coherence violation found in the text.
const coherencePenalty = 0.25

// Params configures an analysis run.
type Params struct {
	// Text is the passage to analyze. Required.
	Text string

	// Source is the pre-expansion text the passage was compressed from.
	// When set, the compression ratio is derived from the word counts.
	Source string

	// CompressionRatio overrides the derived ratio when non-nil.
	CompressionRatio *float64

	// CoherenceScore overrides the derived score when non-nil.
	CoherenceScore *float64

	// Metadata is carried into the report unchanged.
	Metadata map[string]any
}

// Result bundles everything the pipeline learned about a text.
type Result struct {
	Report          *models.DiagnosticReport  `json:"report"`
	Breaks          []models.ExpectationBreak `json:"breaks"`
	ContentType     models.ContentType        `json:"content_type"`
	Scores          models.BreakScores        `json:"scores"`
	Insight         string                    `json:"insight,omitempty"`
	Violations      []string                  `json:"violations,omitempty"`
	CoercionScore   float64                   `json:"coercion_score"`
	InvitationScore float64                   `json:"invitation_score"`
	ReframeTip      string                    `json:"reframe_tip,omitempty"`
	RefinementTip   string                    `json:"refinement_tip,omitempty"`
}

// Pipeline runs the full analysis. Pattern tables are compiled once at
// construction; a Pipeline is safe to share across concurrent callers.
type Pipeline struct {
	classifier *classifier.Classifier
	validator  *validator.Validator
}

// NewPipeline creates a Pipeline with freshly compiled components
func NewPipeline() *Pipeline {
	return &Pipeline{
		classifier: classifier.New(),
		validator:  validator.New(),
	}
}

// Run executes the pipeline on a single text
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	if params.Text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	breaks := p.classifier.DetectBreaks(params.Text)
	contentType := p.classifier.ClassifyContentType(params.Text)
	scores := p.classifier.ScoreBreaks(params.Text)
	insight, _ := p.classifier.CoreInsight(params.Text)

	_, violations := p.validator.Validate(params.Text, validator.DefaultOptions())
	coercionDetected, _ := p.coercionOnly(params.Text)
	coercionScore := p.validator.CoercionScore(params.Text)
	invitationScore := p.validator.InvitationScore(params.Text)
	reframeTip, _ := p.validator.SuggestReframe(params.Text)

	report := diagnostics.BuildReport(
		p.compressionRatio(params),
		p.coherenceScore(params),
		len(breaks),
		coercionDetected,
		contentType == models.ContentSemanticSurprise,
		params.Metadata,
	)

	refinementTip, _ := diagnostics.SuggestRefinement(report)

	return &Result{
		Report:          report,
		Breaks:          breaks,
		ContentType:     contentType,
		Scores:          scores,
		Insight:         insight,
		Violations:      violations,
		CoercionScore:   coercionScore,
		InvitationScore: invitationScore,
		ReframeTip:      reframeTip,
		RefinementTip:   refinementTip,
	}, nil
}

// coercionOnly reports whether any non-coercion rule family fired
func (p *Pipeline) coercionOnly(text string) (bool, []string) {
	valid, violations := p.validator.Validate(text, validator.Options{NonCoercion: true})
	return !valid, violations
}

// compressionRatio resolves the ratio: explicit override, then derivation
// from the source text word counts, then the neutral default of 1.0
func (p *Pipeline) compressionRatio(params Params) float64 {
	if params.CompressionRatio != nil {
		return *params.CompressionRatio
	}
	if params.Source != "" {
		sourceWords := wordCount(params.Source)
		if sourceWords < 1 {
			sourceWords = 1
		}
		return float64(wordCount(params.Text)) / float64(sourceWords)
	}
	return 1.0
}

// coherenceScore resolves the score: explicit override, or 1.0 minus a
// fixed penalty per coherence violation, floored at zero
func (p *Pipeline) coherenceScore(params Params) float64 {
	if params.CoherenceScore != nil {
		return *params.CoherenceScore
	}

	_, violations := p.validator.Validate(params.Text, validator.Options{Coherence: true})
	score := 1.0 - coherencePenalty*float64(len(violations))
	if score < 0 {
		score = 0
	}
	return score
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
