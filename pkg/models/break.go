package models

// BreakType categorizes a detected expectation break
type BreakType string

const (
	BreakSurpriseMarker BreakType = "surprise_marker"
	BreakParadox        BreakType = "paradox"
	BreakReversal       BreakType = "reversal"
	BreakContrast       BreakType = "contrast"
)

// ExpectationBreak is a single detection record: a span of text where the
// reader's assumption is violated. Records are created by the classifier
// during a scan and never mutated.
type ExpectationBreak struct {
	Type        BreakType `json:"break_type"`
	Position    int       `json:"position"`
	Content     string    `json:"content"`
	Confidence  float64   `json:"confidence"`
	Explanation string    `json:"explanation"`
}

// ContentType classifies a whole text by its dominant break pattern
type ContentType string

const (
	ContentStraightforward   ContentType = "straightforward"
	ContentParadox           ContentType = "paradox"
	ContentReversal          ContentType = "reversal"
	ContentJoke              ContentType = "joke"
	ContentContrastNarrative ContentType = "contrast_narrative"
	ContentSemanticSurprise  ContentType = "semantic_surprise"
)

// BreakScores summarizes the expectation breaks found in a text
type BreakScores struct {
	SurpriseDensity   float64 `json:"surprise_density"`
	BreakCount        int     `json:"break_count"`
	AverageConfidence float64 `json:"average_confidence"`
	ParadoxCount      int     `json:"paradox_count"`
	ReversalCount     int     `json:"reversal_count"`
	ContrastCount     int     `json:"contrast_count"`
}
