package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// Scoring constants. A wrong pattern choice cascades into wrong scaffolding
// for every downstream node, so recognition is deliberately conservative:
// close calls and weak signals both stop the pipeline for disambiguation.
const (
	// ScoreFloor is the minimum top score required for a selection.
	ScoreFloor = 0.2

	// TieMargin is the minimum lead the top pattern must have over the
	// runner-up.
	TieMargin = 0.05

	// kindBonus is added when the specification's node kinds overlap the
	// pattern's kind affinity.
	kindBonus = 0.1
)

// Selection is a successful recognition outcome.
type Selection struct {
	Pattern    Definition
	Confidence float64
}

// Score is one pattern's score, kept for reporting in ambiguous outcomes.
type Score struct {
	Pattern Name
	Value   float64
}

// AmbiguousPatternError is a first-class outcome, not a defect: the
// specification did not give enough signal to pick a pattern safely, and an
// external decision-maker must disambiguate.
type AmbiguousPatternError struct {
	// Candidates are the patterns the caller should choose between.
	Candidates []Name

	// Scores holds every pattern's score, highest first.
	Scores []Score

	// Reason says why recognition stopped.
	Reason string
}

func (e *AmbiguousPatternError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = string(c)
	}
	return fmt.Sprintf("ambiguous pattern (%s): candidates %s",
		e.Reason, strings.Join(names, ", "))
}

// Recognize scores the specification against the taxonomy and selects a
// pattern. An explicit pattern in the specification always wins with
// confidence 1.0. Otherwise the highest indicator score wins, unless the
// top score is under ScoreFloor or within TieMargin of the runner-up, in
// which case the outcome is an *AmbiguousPatternError.
func Recognize(s *spec.Specification) (*Selection, error) {
	if s.ExplicitPattern != "" {
		def, ok := Lookup(Name(s.ExplicitPattern))
		if !ok {
			// The loader rejects unknown names; this guards direct callers.
			return nil, fmt.Errorf("unknown explicit pattern %q", s.ExplicitPattern)
		}
		return &Selection{Pattern: def, Confidence: 1.0}, nil
	}

	scores := ScoreAll(s)

	top, second := scores[0], scores[1]
	if top.Value < ScoreFloor {
		return nil, &AmbiguousPatternError{
			Candidates: []Name{top.Pattern, second.Pattern},
			Scores:     scores,
			Reason:     "insufficient signal",
		}
	}
	if top.Value-second.Value < TieMargin {
		return nil, &AmbiguousPatternError{
			Candidates: []Name{top.Pattern, second.Pattern},
			Scores:     scores,
			Reason:     "top candidates too close",
		}
	}

	def, _ := Lookup(top.Pattern)
	return &Selection{Pattern: def, Confidence: top.Value}, nil
}

// ScoreAll computes every pattern's score, sorted highest first with
// declaration order as the deterministic tie-break. Callers use it to show
// the full table alongside a selection or an ambiguous outcome.
func ScoreAll(s *spec.Specification) []Score {
	text := strings.ToLower(s.Requirements)

	kinds := make(map[spec.NodeKind]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		kinds[n.Kind] = true
	}

	scores := make([]Score, len(taxonomy))
	for i, d := range taxonomy {
		scores[i] = Score{Pattern: d.Name, Value: score(d, text, kinds)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	return scores
}

// score is the matched-indicator count normalized by the pattern's total
// indicator count, plus a small bonus when the specification's node kinds
// overlap the pattern's affinity. Capped at 1.0.
func score(d Definition, text string, kinds map[spec.NodeKind]bool) float64 {
	matched := 0
	for _, ind := range d.Indicators {
		if strings.Contains(text, ind) {
			matched++
		}
	}

	v := float64(matched) / float64(len(d.Indicators))

	for _, k := range d.KindAffinity {
		if kinds[k] {
			v += kindBonus
			break
		}
	}

	if v > 1.0 {
		v = 1.0
	}
	return v
}
