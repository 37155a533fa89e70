// Package validator checks text for coercive rhetoric and coherence defects.
package validator

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// coercionTerms indicate demands on the reader's belief or agreement.
var coercionTerms = []string{
	`must\s+(?:believe|accept|agree|understand)`,
	`you\s+(?:have\s+)?to\s+(?:believe|accept|agree)`,
	`(?:obviously|clearly|undeniably)`,
	`(?:no\s+)?(?:one|person|reasonable\s+person)\s+(?:can|could|would)\s+(?:disagree|argue)`,
	`(?:if\s+)?you\s+(?:don't|can't)\s+(?:see|understand|agree)`,
	`(?:only|just|simply)\s+(?:believe|accept|understand)`,
	`(?:everyone\s+knows|it's\s+common\s+knowledge)`,
	`(?:you\s+(?:must|have\s+to)\s+)?(?:admit|confess|acknowledge)`,
}

// emotionalTerms indicate appeals to shame, guilt, or belonging.
var emotionalTerms = []string{
	`(?:you\s+)?(?:should\s+)?(?:feel|be)\s+(?:ashamed|guilty|afraid|scared)`,
	`(?:if\s+)?you\s+(?:really|truly|genuinely)\s+(?:care|love)`,
	`(?:only|real|true)\s+(?:believers|followers|supporters)`,
	`(?:you\s+)?(?:can't|won't)\s+(?:help\s+)?(?:but|except)`,
	`(?:everyone\s+(?:else|around\s+you))\s+(?:knows|believes|agrees)`,
}

// pressureTerms indicate urgency or scarcity tactics.
var pressureTerms = []string{
	`(?:act|decide|choose)\s+(?:now|immediately|today)`,
	`(?:limited|only|exclusive)\s+(?:time|offer|opportunity)`,
	`(?:don't|can't)\s+(?:wait|delay|hesitate)`,
	`(?:before|unless)\s+(?:it's\s+)?too\s+late`,
	`(?:hurry|rush|act\s+fast)`,
}

// authorityTerms indicate unsupported claims to special knowledge.
var authorityTerms = []string{
	`(?:I|we)\s+(?:know|understand|have\s+discovered)\s+(?:the\s+)?truth`,
	`(?:expert|authority|specialist)\s+(?:says|claims|believes)`,
	`(?:scientific|proven|verified)\s+(?:fact|truth)`,
	`(?:according\s+to|research\s+shows|studies\s+prove)`,
}

// invitationalTerms reward texts that leave the reader room to choose.
var invitationalTerms = []string{
	`(?:you\s+)?(?:might|could|may)\s+(?:consider|explore|think)`,
	`(?:one\s+)?(?:way|perspective|approach)`,
	`(?:perhaps|maybe|possibly)`,
	`(?:if\s+)?(?:you\s+)?(?:choose|prefer|decide)`,
	`(?:worth|interesting|worth\s+exploring)`,
}

// contradictionTemplate flags a truth assertion followed anywhere by its
// negation. Deliberately over-sensitive; unrelated spans still count.
const contradictionTemplate = `(?:true|real|correct).*?(?:false|fake|wrong)`

// danglingConjunctions end a text mid-thought.
var danglingConjunctions = []string{"but", "however", "yet", "because"}

// Violation category prefixes, shared with SuggestReframe.
const (
	categoryCoercion  = "Coercive language detected"
	categoryEmotional = "Emotional manipulation detected"
	categoryPressure  = "Pressure/urgency tactic detected"
	categoryAuthority = "Authority claim detected"
)

// Options selects which rule families run during validation
type Options struct {
	NonCoercion bool
	Coherence   bool
}

// DefaultOptions enables every rule family
func DefaultOptions() Options {
	return Options{NonCoercion: true, Coherence: true}
}

// Validator checks text against non-coercion and coherence rules.
// Pattern tables are compiled once at construction; instances are
// read-only and safe for concurrent use.
type Validator struct {
	coercion      []*regexp2.Regexp
	emotional     []*regexp2.Regexp
	pressure      []*regexp2.Regexp
	authority     []*regexp2.Regexp
	invitational  []*regexp2.Regexp
	contradiction *regexp2.Regexp
}

// New creates a Validator with compiled pattern tables
func New() *Validator {
	return &Validator{
		coercion:      compileAll(coercionTerms),
		emotional:     compileAll(emotionalTerms),
		pressure:      compileAll(pressureTerms),
		authority:     compileAll(authorityTerms),
		invitational:  compileAll(invitationalTerms),
		contradiction: regexp2.MustCompile(contradictionTemplate, regexp2.IgnoreCase|regexp2.Singleline),
	}
}

func compileAll(patterns []string) []*regexp2.Regexp {
	compiled := make([]*regexp2.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp2.MustCompile(p, regexp2.IgnoreCase)
	}
	return compiled
}

// Validate checks text against the enabled rule families and returns
// whether it passed along with the itemized violations. Each pattern
// contributes at most one violation, built from its first match.
func (v *Validator) Validate(text string, opts Options) (bool, []string) {
	var violations []string

	if opts.NonCoercion {
		violations = append(violations, v.scanFamily(v.coercion, text, categoryCoercion)...)
		violations = append(violations, v.scanFamily(v.emotional, text, categoryEmotional)...)
		violations = append(violations, v.scanFamily(v.pressure, text, categoryPressure)...)
		violations = append(violations, v.scanFamily(v.authority, text, categoryAuthority)...)
	}

	if opts.Coherence {
		violations = append(violations, v.checkCoherence(text)...)
	}

	return len(violations) == 0, violations
}

// scanFamily reports the first match of each pattern in the family
func (v *Validator) scanFamily(patterns []*regexp2.Regexp, text, category string) []string {
	var violations []string
	for _, re := range patterns {
		if m, err := re.FindStringMatch(text); err == nil && m != nil {
			violations = append(violations, fmt.Sprintf("%s: %s", category, m.String()))
		}
	}
	return violations
}

// checkCoherence flags cross-text contradictions and dangling conjunctions
func (v *Validator) checkCoherence(text string) []string {
	var violations []string

	if m, err := v.contradiction.FindStringMatch(text); err == nil && m != nil {
		violations = append(violations, "Potential contradiction detected")
	}

	for _, conj := range danglingConjunctions {
		if strings.HasSuffix(text, conj) {
			violations = append(violations, "Incomplete thought at end of content")
			break
		}
	}

	return violations
}

// SuggestReframe returns one reframing tip per violation category present,
// space-joined in detection order. Returns false when the text is valid.
func (v *Validator) SuggestReframe(text string) (string, bool) {
	valid, violations := v.Validate(text, DefaultOptions())
	if valid {
		return "", false
	}

	var tips []string
	seen := map[string]bool{}
	addTip := func(category, tip string) {
		if !seen[category] {
			seen[category] = true
			tips = append(tips, tip)
		}
	}

	for _, violation := range violations {
		switch {
		case strings.HasPrefix(violation, categoryCoercion):
			addTip(categoryCoercion, "Reframe as invitation: 'You might consider...' instead of 'You must...'")
		case strings.HasPrefix(violation, categoryEmotional):
			addTip(categoryEmotional, "Appeal to understanding, not emotion: 'This perspective shows...' instead of 'You should feel...'")
		case strings.HasPrefix(violation, categoryPressure):
			addTip(categoryPressure, "Remove time pressure: 'This is worth considering' instead of 'Act now'")
		case strings.HasPrefix(violation, categoryAuthority):
			addTip(categoryAuthority, "Share perspective humbly: 'One way to see this...' instead of 'The truth is...'")
		}
	}

	if len(tips) == 0 {
		return "", false
	}
	return strings.Join(tips, " "), true
}

// CoercionScore measures violations per hundred words, capped at 1.0.
// Zero means the text passed validation.
func (v *Validator) CoercionScore(text string) float64 {
	valid, violations := v.Validate(text, DefaultOptions())
	if valid {
		return 0.0
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 1 {
		wordCount = 1
	}

	density := float64(len(violations)) / float64(wordCount) * 100
	if density > 1.0 {
		density = 1.0
	}
	return density
}

// InvitationScore rewards texts that are both non-coercive and actively
// invitational, capped at 1.0
func (v *Validator) InvitationScore(text string) float64 {
	coercion := v.CoercionScore(text)

	invitationalCount := 0
	for _, re := range v.invitational {
		m, err := re.FindStringMatch(text)
		for err == nil && m != nil {
			invitationalCount++
			m, err = re.FindNextMatch(m)
		}
	}

	wordCount := len(strings.Fields(text))
	if wordCount < 1 {
		wordCount = 1
	}
	density := float64(invitationalCount) / float64(wordCount) * 100

	bonus := density / 100
	if bonus > 0.5 {
		bonus = 0.5
	}

	score := (1.0 - coercion) * (1.0 + bonus)
	if score > 1.0 {
		score = 1.0
	}
	return score
}
