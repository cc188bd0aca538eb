package pattern

import (
	"errors"
	"testing"

	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

func TestRecognizeExplicitPatternWins(t *testing.T) {
	// Requirements text that would otherwise score retrieval-augmented.
	s := &spec.Specification{
		Name:            "kb-bot",
		Requirements:    "retrieve documents and answer questions from a knowledge base",
		ExplicitPattern: string(LinearWorkflow),
	}

	sel, err := Recognize(s)
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if sel.Pattern.Name != LinearWorkflow {
		t.Errorf("Pattern = %s, want %s", sel.Pattern.Name, LinearWorkflow)
	}
	if sel.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", sel.Confidence)
	}
}

func TestRecognizeRetrievalAugmented(t *testing.T) {
	s := &spec.Specification{
		Name:         "kb-bot",
		Requirements: "retrieve documents and answer questions from a knowledge base",
	}

	sel, err := Recognize(s)
	if err != nil {
		t.Fatalf("Recognize() error: %v", err)
	}
	if sel.Pattern.Name != RetrievalAugmented {
		t.Errorf("Pattern = %s, want %s", sel.Pattern.Name, RetrievalAugmented)
	}
	// Three of ten indicators match: retrieve, knowledge base, answer
	// questions.
	if sel.Confidence < ScoreFloor {
		t.Errorf("Confidence = %v, want at least the score floor", sel.Confidence)
	}
	if sel.Pattern.Bundle != "rag" {
		t.Errorf("Bundle = %q, want rag", sel.Pattern.Bundle)
	}
}

func TestRecognizeInsufficientSignal(t *testing.T) {
	s := &spec.Specification{
		Name:         "vague",
		Requirements: "do something useful with the input",
	}

	_, err := Recognize(s)
	var ambiguous *AmbiguousPatternError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error = %v, want AmbiguousPatternError", err)
	}
	if ambiguous.Reason != "insufficient signal" {
		t.Errorf("Reason = %q, want insufficient signal", ambiguous.Reason)
	}
	if len(ambiguous.Scores) != len(Definitions()) {
		t.Errorf("len(Scores) = %d, want one per pattern", len(ambiguous.Scores))
	}
}

func TestScoreAllIsCompleteAndSorted(t *testing.T) {
	s := &spec.Specification{
		Name:         "kb-bot",
		Requirements: "retrieve documents and answer questions from a knowledge base",
	}

	scores := ScoreAll(s)
	if len(scores) != len(Definitions()) {
		t.Fatalf("len(scores) = %d, want one per pattern", len(scores))
	}
	for i := 1; i < len(scores); i++ {
		if scores[i-1].Value < scores[i].Value {
			t.Errorf("scores[%d] = %v before scores[%d] = %v, want descending",
				i-1, scores[i-1].Value, i, scores[i].Value)
		}
	}
	if scores[0].Pattern != RetrievalAugmented {
		t.Errorf("top pattern = %s, want %s", scores[0].Pattern, RetrievalAugmented)
	}
}

func TestRecognizeTieIsAmbiguous(t *testing.T) {
	// Two indicators each for autonomous-agent (agent, plan) and
	// multi-agent (coordinate, roles), identical scores.
	s := &spec.Specification{
		Name:         "torn",
		Requirements: "an agent should plan the work and coordinate the roles",
	}

	_, err := Recognize(s)
	var ambiguous *AmbiguousPatternError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("error = %v, want AmbiguousPatternError", err)
	}
	if ambiguous.Reason != "top candidates too close" {
		t.Errorf("Reason = %q, want top candidates too close", ambiguous.Reason)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("Candidates = %v, want two", ambiguous.Candidates)
	}
	// Declaration order breaks the sort tie deterministically.
	if ambiguous.Candidates[0] != AutonomousAgent || ambiguous.Candidates[1] != MultiAgent {
		t.Errorf("Candidates = %v, want [%s %s]", ambiguous.Candidates, AutonomousAgent, MultiAgent)
	}
}

func TestRecognizeKindAffinityBreaksFloor(t *testing.T) {
	// One indicator alone scores under the floor; the parallel-batch node
	// kind adds the affinity bonus and lifts it over.
	base := &spec.Specification{
		Name:         "chunker",
		Requirements: "process a large file",
	}

	if _, err := Recognize(base); err == nil {
		t.Fatal("Recognize() without kind signal succeeded, want ambiguity")
	}

	withKind := &spec.Specification{
		Name:         "chunker",
		Requirements: "process a large file",
		Nodes: []spec.NodeSpec{
			{Name: "crunch", Kind: spec.KindParallelBatch},
		},
	}

	sel, err := Recognize(withKind)
	if err != nil {
		t.Fatalf("Recognize() with kind signal error: %v", err)
	}
	if sel.Pattern.Name != ParallelMapReduce {
		t.Errorf("Pattern = %s, want %s", sel.Pattern.Name, ParallelMapReduce)
	}
}

func TestTaxonomyIsWellFormed(t *testing.T) {
	seen := make(map[Name]bool)
	for _, d := range Definitions() {
		t.Run(string(d.Name), func(t *testing.T) {
			if seen[d.Name] {
				t.Fatalf("duplicate pattern %s", d.Name)
			}
			seen[d.Name] = true

			if len(d.Indicators) == 0 {
				t.Error("no indicators")
			}
			if len(d.DefaultNodes) == 0 {
				t.Error("no default nodes")
			}
			if d.Bundle == "" {
				t.Error("no template bundle")
			}
		})
	}
}

func TestKnownCoversTaxonomy(t *testing.T) {
	k := Known()
	if len(k.PatternNames) != len(Definitions()) {
		t.Errorf("PatternNames = %d entries, want %d", len(k.PatternNames), len(Definitions()))
	}

	roles := make(map[string]bool, len(k.RoleNames))
	for _, r := range k.RoleNames {
		roles[r] = true
	}
	for _, d := range Definitions() {
		for _, n := range d.DefaultNodes {
			if !roles[n.Role] {
				t.Errorf("role %q of %s missing from Known()", n.Role, d.Name)
			}
		}
	}
}
