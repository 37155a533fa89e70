// Package classifier detects expectation breaks and semantic surprises in text.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/subtextlab/subtext/pkg/models"
)

// surpriseMarkers signal semantic surprise: contrast, correction, or an
// unexpected reason. The lookahead on "because" skips the filler "because of".
var surpriseMarkers = []string{
	`because\s+(?!of)`,
	`but\s+(?:the|it|they)`,
	`actually\s+`,
	`instead\s+`,
	`paradox`,
	`contradiction`,
	`however\s+`,
	`yet\s+`,
	`though\s+`,
	`despite\s+`,
}

// paradoxTemplates match modal or truth-value contradictions joined by a
// coordinating conjunction.
var paradoxTemplates = []string{
	`(?:can|could|must|should)\s+(?:and|but|yet)\s+(?:cannot|couldn't|mustn't|shouldn't)`,
	`(?:true|real|false|fake)\s+(?:and|but|yet)\s+(?:false|fake|true|real)`,
	`(?:yes|no)\s+(?:and|but|yet)\s+(?:no|yes)`,
}

// reversalTemplate captures "A is B" and replays the tokens to find the
// mirrored "B is A" later in the same text.
const reversalTemplate = `(\w+)\s+(?:is|was)\s+(\w+).*?\2\s+(?:is|was)\s+\1`

// contrastTemplate matches the expected...but...actually arc.
const contrastTemplate = `(?:expected|assumed|thought|believed).*?(?:but|however|yet|instead).*?(?:actually|really|truly)`

// Confidence per pattern family.
const (
	confidenceSurprise = 0.7
	confidenceParadox  = 0.9
	confidenceReversal = 0.85
	confidenceContrast = 0.8
)

// Classifier scans text for expectation breaks. Pattern tables are compiled
// once at construction; instances are read-only and safe for concurrent use.
type Classifier struct {
	surprise []*regexp2.Regexp
	paradox  []*regexp2.Regexp
	reversal *regexp2.Regexp
	contrast *regexp2.Regexp
}

// New creates a Classifier with compiled pattern tables
func New() *Classifier {
	c := &Classifier{
		reversal: regexp2.MustCompile(reversalTemplate, regexp2.IgnoreCase|regexp2.Singleline),
		contrast: regexp2.MustCompile(contrastTemplate, regexp2.IgnoreCase|regexp2.Singleline),
	}
	for _, p := range surpriseMarkers {
		c.surprise = append(c.surprise, regexp2.MustCompile(p, regexp2.IgnoreCase))
	}
	for _, p := range paradoxTemplates {
		c.paradox = append(c.paradox, regexp2.MustCompile(p, regexp2.IgnoreCase))
	}
	return c
}

// DetectBreaks scans text and returns all detected expectation breaks,
// sorted ascending by position. The four scans are independent; the same
// span may contribute to multiple records.
func (c *Classifier) DetectBreaks(text string) []models.ExpectationBreak {
	var breaks []models.ExpectationBreak

	for _, re := range c.surprise {
		for _, m := range findAll(re, text) {
			breaks = append(breaks, models.ExpectationBreak{
				Type:        models.BreakSurpriseMarker,
				Position:    m.Index,
				Content:     m.String(),
				Confidence:  confidenceSurprise,
				Explanation: fmt.Sprintf("Semantic surprise at: %s", m.String()),
			})
		}
	}

	for _, re := range c.paradox {
		for _, m := range findAll(re, text) {
			breaks = append(breaks, models.ExpectationBreak{
				Type:        models.BreakParadox,
				Position:    m.Index,
				Content:     m.String(),
				Confidence:  confidenceParadox,
				Explanation: fmt.Sprintf("Paradox detected: %s", m.String()),
			})
		}
	}

	for _, m := range findAll(c.reversal, text) {
		subject := m.GroupByNumber(1).String()
		predicate := m.GroupByNumber(2).String()
		breaks = append(breaks, models.ExpectationBreak{
			Type:        models.BreakReversal,
			Position:    m.Index,
			Content:     m.String(),
			Confidence:  confidenceReversal,
			Explanation: fmt.Sprintf("Reversal: %s <-> %s", subject, predicate),
		})
	}

	for _, m := range findAll(c.contrast, text) {
		breaks = append(breaks, models.ExpectationBreak{
			Type:        models.BreakContrast,
			Position:    m.Index,
			Content:     m.String(),
			Confidence:  confidenceContrast,
			Explanation: fmt.Sprintf("Expectation contrast: %s...", truncate(m.String(), 50)),
		})
	}

	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].Position < breaks[j].Position
	})

	return breaks
}

// SurpriseDensity measures expectation breaks per word, normalized to [0, 1]
func (c *Classifier) SurpriseDensity(text string) float64 {
	breaks := c.DetectBreaks(text)
	if len(breaks) == 0 {
		return 0.0
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 1 {
		wordCount = 1
	}

	density := float64(len(breaks)) / float64(wordCount) * 10
	if density > 1.0 {
		density = 1.0
	}
	return density
}

// ClassifyContentType tags a text by its dominant break pattern.
// Priority: paradox > reversal > joke (more than two surprise markers) >
// contrast narrative > semantic surprise; straightforward when no breaks.
func (c *Classifier) ClassifyContentType(text string) models.ContentType {
	breaks := c.DetectBreaks(text)
	if len(breaks) == 0 {
		return models.ContentStraightforward
	}

	surpriseCount := 0
	hasParadox, hasReversal, hasContrast := false, false, false
	for _, b := range breaks {
		switch b.Type {
		case models.BreakParadox:
			hasParadox = true
		case models.BreakReversal:
			hasReversal = true
		case models.BreakContrast:
			hasContrast = true
		case models.BreakSurpriseMarker:
			surpriseCount++
		}
	}

	switch {
	case hasParadox:
		return models.ContentParadox
	case hasReversal:
		return models.ContentReversal
	case surpriseCount > 2:
		return models.ContentJoke
	case hasContrast:
		return models.ContentContrastNarrative
	}
	return models.ContentSemanticSurprise
}

// CoreInsight extracts the first sentence following the earliest break,
// where the insight usually lives. Returns false when no breaks were found.
func (c *Classifier) CoreInsight(text string) (string, bool) {
	breaks := c.DetectBreaks(text)
	if len(breaks) == 0 {
		return "", false
	}

	primary := breaks[0]
	runes := []rune(text)
	start := primary.Position + len([]rune(primary.Content))
	if start > len(runes) {
		start = len(runes)
	}

	remainder := strings.TrimSpace(string(runes[start:]))
	sentence, _, _ := strings.Cut(remainder, ".")
	return strings.TrimSpace(sentence), true
}

// ScoreBreaks bundles density, counts, and mean confidence for a text
func (c *Classifier) ScoreBreaks(text string) models.BreakScores {
	breaks := c.DetectBreaks(text)

	scores := models.BreakScores{
		SurpriseDensity: c.SurpriseDensity(text),
		BreakCount:      len(breaks),
	}

	var confidenceSum float64
	for _, b := range breaks {
		confidenceSum += b.Confidence
		switch b.Type {
		case models.BreakParadox:
			scores.ParadoxCount++
		case models.BreakReversal:
			scores.ReversalCount++
		case models.BreakContrast:
			scores.ContrastCount++
		}
	}
	if len(breaks) > 0 {
		scores.AverageConfidence = confidenceSum / float64(len(breaks))
	}

	return scores
}

// findAll collects every non-overlapping match of re in text
func findAll(re *regexp2.Regexp, text string) []*regexp2.Match {
	var matches []*regexp2.Match
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		matches = append(matches, m)
		m, err = re.FindNextMatch(m)
	}
	return matches
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
