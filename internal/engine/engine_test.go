package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

func ragDef(t *testing.T) pattern.Definition {
	t.Helper()
	def, ok := pattern.Lookup(pattern.RetrievalAugmented)
	if !ok {
		t.Fatal("retrieval-augmented missing from taxonomy")
	}
	return def
}

func TestGenerateInjectsUncoveredRoles(t *testing.T) {
	s := &spec.Specification{
		Name: "kb-bot",
		Nodes: []spec.NodeSpec{
			{Name: "retrieve", Description: "Look up chunks", Kind: spec.KindSync},
		},
		SchemaFields: []spec.SchemaField{
			{Name: "chunks", Type: spec.TypeCollection, Producer: "retrieve", Consumers: []string{"generate"}},
		},
	}

	set, err := Generate(context.Background(), s, ragDef(t), Options{RunID: "run-1"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if set.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", set.RunID)
	}

	// The user step covers the retrieve role; index and generate are
	// injected after it.
	wantNodes := []struct {
		name     string
		injected bool
	}{
		{"retrieve", false},
		{"index", true},
		{"generate", true},
	}
	if len(set.Nodes) != len(wantNodes) {
		t.Fatalf("len(Nodes) = %d, want %d", len(set.Nodes), len(wantNodes))
	}
	for i, want := range wantNodes {
		if set.Nodes[i].Name != want.name || set.Nodes[i].Injected != want.injected {
			t.Errorf("Nodes[%d] = %s (injected=%v), want %s (injected=%v)",
				i, set.Nodes[i].Name, set.Nodes[i].Injected, want.name, want.injected)
		}
	}

	if set.Start != "retrieve" {
		t.Errorf("Start = %q, want retrieve", set.Start)
	}

	// 3 nodes + 2 default utilities + flow + schema.
	if len(set.Artifacts) != 7 {
		t.Errorf("len(Artifacts) = %d, want 7", len(set.Artifacts))
	}
}

func TestGenerateNodeArtifactBody(t *testing.T) {
	s := &spec.Specification{
		Name: "kb-bot",
		SchemaFields: []spec.SchemaField{
			{Name: "answer", Type: spec.TypeString, Producer: "generate"},
			{Name: "chunks", Type: spec.TypeCollection, Producer: "retrieve", Consumers: []string{"generate"}},
		},
	}

	set, err := Generate(context.Background(), s, ragDef(t), Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	a, ok := set.Artifacts[NodeArtifactName("generate")]
	if !ok {
		t.Fatal("generate node artifact missing")
	}
	for _, want := range []string{
		"class Generate:",
		"def prep(self, shared):",
		"def exec(self, prep_res):",
		"def post(self, shared, prep_res, exec_res):",
		`shared["answer"]`,
		`shared.get("chunks")`,
		`return "done"`,
	} {
		if !strings.Contains(a.Content, want) {
			t.Errorf("generate node body missing %q", want)
		}
	}
}

func TestGenerateLinearTransitions(t *testing.T) {
	s := &spec.Specification{Name: "kb-bot"}

	set, err := Generate(context.Background(), s, ragDef(t), Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := []Transition{
		{From: "index", Action: ActionDefault, To: "retrieve"},
		{From: "retrieve", Action: ActionDefault, To: "generate"},
		{From: "generate", Action: ActionDone},
	}
	if len(set.Transitions) != len(want) {
		t.Fatalf("Transitions = %+v, want %+v", set.Transitions, want)
	}
	for i := range want {
		if set.Transitions[i] != want[i] {
			t.Errorf("Transitions[%d] = %+v, want %+v", i, set.Transitions[i], want[i])
		}
	}

	flow := set.Artifacts[FlowArtifactName]
	if !strings.Contains(flow.Content, `("generate", "done"): None`) {
		t.Error("flow artifact does not terminate the done transition")
	}
}

func TestGenerateAgentLoopsBackToStart(t *testing.T) {
	def, ok := pattern.Lookup(pattern.AutonomousAgent)
	if !ok {
		t.Fatal("autonomous-agent missing from taxonomy")
	}

	set, err := Generate(context.Background(), &spec.Specification{Name: "loop"}, def, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	last := set.Nodes[len(set.Nodes)-1]
	if len(last.Actions) != 2 || last.Actions[0] != ActionContinue || last.Actions[1] != ActionDone {
		t.Errorf("last node actions = %v, want [continue done]", last.Actions)
	}

	var loop, done bool
	for _, tr := range set.Transitions {
		if tr.From == last.Name && tr.Action == ActionContinue && tr.To == set.Start {
			loop = true
		}
		if tr.From == last.Name && tr.Action == ActionDone && tr.To == "" {
			done = true
		}
	}
	if !loop {
		t.Error("no continue transition back to the start node")
	}
	if !done {
		t.Error("no terminating done transition")
	}
}

func TestGenerateMissingBundle(t *testing.T) {
	def := ragDef(t)
	def.Bundle = "nonexistent"

	_, err := Generate(context.Background(), &spec.Specification{Name: "x"}, def, Options{})
	var missing *TemplateSetMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want TemplateSetMissingError", err)
	}
	if missing.Bundle != "nonexistent" {
		t.Errorf("Bundle = %q, want nonexistent", missing.Bundle)
	}
}

func TestBundlesAreComplete(t *testing.T) {
	for _, d := range pattern.Definitions() {
		t.Run(string(d.Name), func(t *testing.T) {
			if _, err := loadBundle(d.Name, d.Bundle); err != nil {
				t.Errorf("loadBundle(%s, %s) error: %v", d.Name, d.Bundle, err)
			}
		})
	}
}

func TestRenderDependencies(t *testing.T) {
	set := &ArtifactSet{RunID: "run-1", SpecName: "kb-bot", Pattern: pattern.RetrievalAugmented}

	a, err := RenderDependencies(set, ragDef(t),
		[]DepEntry{{Name: "pytest", Constraint: ">=8.0,<9.0"}},
		[]DepEntry{{Name: "faiss-cpu", Constraint: ">=1.8,<2.0"}},
	)
	if err != nil {
		t.Fatalf("RenderDependencies() error: %v", err)
	}

	if a.Kind != KindDependencyConfig || a.Name != DepsArtifactName {
		t.Errorf("artifact = %s (%s), want %s (%s)", a.Name, a.Kind, DepsArtifactName, KindDependencyConfig)
	}
	for _, want := range []string{`"pytest>=8.0,<9.0"`, `"faiss-cpu>=1.8,<2.0"`, "kb-bot"} {
		if !strings.Contains(a.Content, want) {
			t.Errorf("dependency config missing %q", want)
		}
	}
}

func TestNaming(t *testing.T) {
	cases := []struct {
		in    string
		snake string
		camel string
	}{
		{"retrieve", "retrieve", "Retrieve"},
		{"retrieve-context", "retrieve_context", "RetrieveContext"},
		{"call_llm", "call_llm", "CallLlm"},
	}
	for _, tc := range cases {
		if got := snakeCase(tc.in); got != tc.snake {
			t.Errorf("snakeCase(%q) = %q, want %q", tc.in, got, tc.snake)
		}
		if got := camelCase(tc.in); got != tc.camel {
			t.Errorf("camelCase(%q) = %q, want %q", tc.in, got, tc.camel)
		}
	}

	if got := NodeArtifactName("retrieve-context"); got != "nodes/retrieve_context.py" {
		t.Errorf("NodeArtifactName = %q", got)
	}
	if got := UtilityArtifactName("call_llm"); got != "utils/call_llm.py" {
		t.Errorf("UtilityArtifactName = %q", got)
	}
}
