package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forgeflow-labs/forgeflow/internal/engine"
)

// checkSyntax verifies every artifact is non-empty, bracket-balanced,
// well-formed source text with no unexpanded template placeholders.
func checkSyntax(set *engine.ArtifactSet) []Issue {
	var issues []Issue
	for _, a := range set.Artifacts {
		body := a.Content
		if strings.TrimSpace(body) == "" {
			issues = append(issues, Issue{
				Artifact: a.Name,
				Check:    CheckSyntax,
				Code:     CodeEmptyArtifact,
				Severity: SeverityError,
				Message:  "artifact body is empty",
			})
			continue
		}
		if open, closing, ok := bracketBalance(body); !ok {
			issues = append(issues, Issue{
				Artifact: a.Name,
				Check:    CheckSyntax,
				Code:     CodeUnbalancedBrackets,
				Severity: SeverityError,
				Message:  fmt.Sprintf("unbalanced %c%c brackets", open, closing),
			})
		}
		if strings.Contains(body, "{{") || strings.Contains(body, "}}") {
			issues = append(issues, Issue{
				Artifact: a.Name,
				Check:    CheckSyntax,
				Code:     CodeUnresolvedPlaceholder,
				Severity: SeverityError,
				Message:  "unexpanded template placeholder in body",
			})
		}
	}
	return issues
}

// bracketBalance counts each bracket pair; per-pair counting is enough for
// generated bodies, which never nest pairs across string literals.
func bracketBalance(body string) (open, closing rune, ok bool) {
	pairs := [][2]rune{{'(', ')'}, {'[', ']'}, {'{', '}'}}
	for _, p := range pairs {
		if strings.Count(body, string(p[0])) != strings.Count(body, string(p[1])) {
			return p[0], p[1], false
		}
	}
	return 0, 0, true
}

// lifecyclePhases maps each required phase to the method marker a node
// artifact must define.
var lifecyclePhases = []struct {
	Phase  string
	Marker string
}{
	{"prepare", "def prep("},
	{"execute", "def exec("},
	{"finalize", "def post("},
}

// checkLifecycle verifies every node artifact defines all three lifecycle
// phases. A missing phase is an error, never a warning.
func checkLifecycle(set *engine.ArtifactSet) []Issue {
	var issues []Issue
	for _, a := range set.ByKind(engine.KindNode) {
		for _, p := range lifecyclePhases {
			if !strings.Contains(a.Content, p.Marker) {
				issues = append(issues, Issue{
					Artifact: a.Name,
					Check:    CheckLifecycle,
					Code:     CodeMissingPhase,
					Severity: SeverityError,
					Message:  fmt.Sprintf("missing %s phase (%s)", p.Phase, strings.TrimSuffix(p.Marker, "(")),
				})
			}
		}
	}
	return issues
}

// actionReturn matches the action labels a node's finalize phase returns.
var actionReturn = regexp.MustCompile(`return "([a-z0-9_-]+)"`)

// checkGraph verifies the flow graph: a single declared start node, every
// node reachable from it, and every action label returned by a finalize
// phase present in the transition table.
func checkGraph(set *engine.ArtifactSet) []Issue {
	var issues []Issue

	if set.Start == "" {
		issues = append(issues, Issue{
			Artifact: engine.FlowArtifactName,
			Check:    CheckGraph,
			Code:     CodeNoStartNode,
			Severity: SeverityError,
			Message:  "flow declares no start node",
		})
		return issues
	}

	reachable := map[string]bool{set.Start: true}
	frontier := []string{set.Start}
	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]
		for _, t := range set.Transitions {
			if t.From == current && t.To != "" && !reachable[t.To] {
				reachable[t.To] = true
				frontier = append(frontier, t.To)
			}
		}
	}

	for _, n := range set.Nodes {
		if !reachable[n.Name] {
			issues = append(issues, Issue{
				Artifact: engine.NodeArtifactName(n.Name),
				Check:    CheckGraph,
				Code:     CodeUnreachableNode,
				Severity: SeverityError,
				Message:  fmt.Sprintf("node %q has no transition path from start node %q", n.Name, set.Start),
			})
		}
	}

	declared := make(map[engine.Transition]bool, len(set.Transitions))
	for _, t := range set.Transitions {
		declared[engine.Transition{From: t.From, Action: t.Action}] = true
	}

	for _, n := range set.Nodes {
		art, ok := set.Artifacts[engine.NodeArtifactName(n.Name)]
		if !ok {
			continue // missing artifact is the schema check's finding
		}
		for _, m := range actionReturn.FindAllStringSubmatch(art.Content, -1) {
			label := m[1]
			if !declared[engine.Transition{From: n.Name, Action: label}] {
				issues = append(issues, Issue{
					Artifact: art.Name,
					Check:    CheckGraph,
					Code:     CodeDanglingTransition,
					Severity: SeverityError,
					Message:  fmt.Sprintf("finalize returns action %q with no transition entry", label),
				})
			}
		}
	}

	if len(set.Nodes) > maxReasonableNodes {
		issues = append(issues, Issue{
			Artifact: engine.FlowArtifactName,
			Check:    CheckGraph,
			Code:     CodeLargeNodeCount,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d nodes is unusually large for one flow", len(set.Nodes)),
		})
	}

	return issues
}

// checkSchema verifies every schema field's producer and consumers resolve
// to artifacts that exist and mention the field by name. This is name
// matching over bodies, not semantic analysis.
func checkSchema(set *engine.ArtifactSet) []Issue {
	var issues []Issue
	for _, f := range set.Fields {
		issues = append(issues, checkFieldRef(set, f.Name, f.Producer, CodeMissingProducer, "producer")...)
		for _, c := range f.Consumers {
			issues = append(issues, checkFieldRef(set, f.Name, c, CodeMissingConsumer, "consumer")...)
		}
	}
	return issues
}

func checkFieldRef(set *engine.ArtifactSet, field, node, missingCode, role string) []Issue {
	name := engine.NodeArtifactName(node)
	art, ok := set.Artifacts[name]
	if !ok {
		return []Issue{{
			Artifact: engine.SchemaArtifactName,
			Check:    CheckSchema,
			Code:     missingCode,
			Severity: SeverityError,
			Message:  fmt.Sprintf("field %q names %s %q but no such node artifact exists", field, role, node),
		}}
	}
	if !strings.Contains(art.Content, field) {
		return []Issue{{
			Artifact: name,
			Check:    CheckSchema,
			Code:     CodeFieldNotMentioned,
			Severity: SeverityError,
			Message:  fmt.Sprintf("%s of field %q never mentions it", role, field),
		}}
	}
	return nil
}

// utilityMarkers are the contract and self-test sections every utility
// artifact must carry.
var utilityMarkers = []struct {
	Code   string
	Marker string
	Desc   string
}{
	{CodeMissingContract, "Input contract:", "input contract"},
	{CodeMissingContract, "Output contract:", "output contract"},
	{CodeMissingSelfTest, `if __name__ ==`, "self-test entry point"},
}

// checkUtility verifies every utility artifact documents both contracts
// and contains a self-contained smoke-test section.
func checkUtility(set *engine.ArtifactSet) []Issue {
	var issues []Issue
	for _, a := range set.ByKind(engine.KindUtility) {
		for _, m := range utilityMarkers {
			if !strings.Contains(a.Content, m.Marker) {
				issues = append(issues, Issue{
					Artifact: a.Name,
					Check:    CheckUtility,
					Code:     m.Code,
					Severity: SeverityError,
					Message:  "missing " + m.Desc,
				})
			}
		}
	}
	return issues
}
