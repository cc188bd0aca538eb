package engine

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// defaultWorkers bounds per-artifact parallelism when the caller does not
// set Options.Workers.
const defaultWorkers = 4

// Action labels the engine wires into generated flows.
const (
	ActionDefault  = "default"
	ActionDone     = "done"
	ActionContinue = "continue"
)

// Options tunes one generation run.
type Options struct {
	// RunID identifies the run in artifact headers; a fresh UUID is used
	// when empty.
	RunID string

	// Workers bounds concurrent artifact rendering.
	Workers int
}

// Generate expands the selected pattern's template bundle into the full
// artifact set for the specification. Node and utility artifacts render
// concurrently; the flow-assembly and schema artifacts render after the
// join, since they summarize the node set rather than drive it.
func Generate(ctx context.Context, s *spec.Specification, def pattern.Definition, opts Options) (*ArtifactSet, error) {
	tmpl, err := loadBundle(def.Name, def.Bundle)
	if err != nil {
		return nil, err
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Workers < 1 {
		opts.Workers = defaultWorkers
	}

	nodes := resolveNodes(s, def)
	utilities := resolveUtilities(s, def)
	start, transitions := wireTransitions(nodes, def)

	set := &ArtifactSet{
		RunID:       opts.RunID,
		SpecName:    s.Name,
		Pattern:     def.Name,
		Artifacts:   make(map[string]Artifact),
		Start:       start,
		Transitions: transitions,
		Nodes:       nodes,
		Fields:      s.SchemaFields,
		Utilities:   utilities,
	}

	nodeArts := make([]Artifact, len(nodes))
	utilArts := make([]Artifact, len(utilities))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, n := range nodes {
		g.Go(func() error {
			a, err := renderNode(tmpl, set, n)
			if err != nil {
				return err
			}
			nodeArts[i] = a
			return nil
		})
	}
	for i, u := range utilities {
		g.Go(func() error {
			a, err := renderUtility(tmpl, set, u)
			if err != nil {
				return err
			}
			utilArts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range nodeArts {
		set.Artifacts[a.Name] = a
	}
	for _, a := range utilArts {
		set.Artifacts[a.Name] = a
	}

	flow, err := renderFlow(tmpl, set)
	if err != nil {
		return nil, err
	}
	set.Artifacts[flow.Name] = flow

	schema, err := renderSchema(tmpl, set)
	if err != nil {
		return nil, err
	}
	set.Artifacts[schema.Name] = schema

	return set, nil
}

// resolveNodes builds the effective node list: specification steps are used
// as given; any pattern default role not covered by a step of the same name
// is injected after them.
func resolveNodes(s *spec.Specification, def pattern.Definition) []ResolvedNode {
	covered := make(map[string]bool)
	var nodes []ResolvedNode

	for _, n := range s.Nodes {
		kind := n.Kind
		if kind == "" {
			kind = spec.KindSync
		}
		rn := ResolvedNode{
			Name:        n.Name,
			Description: n.Description,
			Kind:        kind,
		}
		for _, d := range def.DefaultNodes {
			if snakeCase(n.Name) == d.Role {
				rn.Role = d.Role
				covered[d.Role] = true
				break
			}
		}
		if rn.Description == "" {
			rn.Description = fmt.Sprintf("Processing step %q", n.Name)
		}
		nodes = append(nodes, rn)
	}

	for _, d := range def.DefaultNodes {
		if covered[d.Role] {
			continue
		}
		nodes = append(nodes, ResolvedNode{
			Name:        d.Role,
			Description: d.Responsibility,
			Kind:        d.Kind,
			Role:        d.Role,
			Injected:    true,
		})
	}

	attachFields(nodes, s.SchemaFields)
	return nodes
}

// attachFields records which shared schema fields each node produces and
// consumes, so node bodies mention them by name.
func attachFields(nodes []ResolvedNode, fields []spec.SchemaField) {
	for i := range nodes {
		for _, f := range fields {
			if f.Producer == nodes[i].Name {
				nodes[i].Produces = append(nodes[i].Produces, f.Name)
			}
			for _, c := range f.Consumers {
				if c == nodes[i].Name {
					nodes[i].Consumes = append(nodes[i].Consumes, f.Name)
					break
				}
			}
		}
	}
}

// resolveUtilities uses the specification's utilities as given, falling
// back to the pattern's default skeleton when none were requested.
func resolveUtilities(s *spec.Specification, def pattern.Definition) []spec.UtilitySpec {
	if len(s.Utilities) > 0 {
		return s.Utilities
	}
	var utils []spec.UtilitySpec
	for _, d := range def.DefaultUtilities {
		utils = append(utils, spec.UtilitySpec{
			Name:           d.Name,
			InputContract:  d.InputContract,
			OutputContract: d.OutputContract,
			ExternalSystem: d.ExternalSystem,
		})
	}
	return utils
}

// wireTransitions chains the resolved nodes into the transition table and
// stamps each node's action labels. Nodes run in resolution order; the last
// node finishes the flow with ActionDone. Agent-shaped patterns also loop
// the last node back to the start with ActionContinue. The first node is
// the single designated start node.
func wireTransitions(nodes []ResolvedNode, def pattern.Definition) (string, []Transition) {
	if len(nodes) == 0 {
		return "", nil
	}

	start := nodes[0].Name
	var transitions []Transition

	for i := range nodes {
		last := i == len(nodes)-1
		if !last {
			nodes[i].Actions = []string{ActionDefault}
			transitions = append(transitions, Transition{
				From:   nodes[i].Name,
				Action: ActionDefault,
				To:     nodes[i+1].Name,
			})
			continue
		}

		if def.Bundle == "agent" && len(nodes) > 1 {
			nodes[i].Actions = []string{ActionContinue, ActionDone}
			transitions = append(transitions,
				Transition{From: nodes[i].Name, Action: ActionContinue, To: start},
				Transition{From: nodes[i].Name, Action: ActionDone},
			)
			continue
		}

		nodes[i].Actions = []string{ActionDone}
		transitions = append(transitions, Transition{From: nodes[i].Name, Action: ActionDone})
	}

	return start, transitions
}

// render executes one named template from the bundle.
func render(tmpl *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}

type nodeData struct {
	Node     ResolvedNode
	RunID    string
	SpecName string
	Pattern  pattern.Name
}

func renderNode(tmpl *template.Template, set *ArtifactSet, n ResolvedNode) (Artifact, error) {
	content, err := render(tmpl, "node.py.tmpl", nodeData{
		Node:     n,
		RunID:    set.RunID,
		SpecName: set.SpecName,
		Pattern:  set.Pattern,
	})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: NodeArtifactName(n.Name), Kind: KindNode, Content: content}, nil
}

type utilityData struct {
	Utility  spec.UtilitySpec
	FuncName string
	RunID    string
	SpecName string
	Pattern  pattern.Name
}

func renderUtility(tmpl *template.Template, set *ArtifactSet, u spec.UtilitySpec) (Artifact, error) {
	content, err := render(tmpl, "utility.py.tmpl", utilityData{
		Utility:  u,
		FuncName: snakeCase(u.Name),
		RunID:    set.RunID,
		SpecName: set.SpecName,
		Pattern:  set.Pattern,
	})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: UtilityArtifactName(u.Name), Kind: KindUtility, Content: content}, nil
}

func renderFlow(tmpl *template.Template, set *ArtifactSet) (Artifact, error) {
	content, err := render(tmpl, "flow.py.tmpl", set)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: FlowArtifactName, Kind: KindFlow, Content: content}, nil
}

func renderSchema(tmpl *template.Template, set *ArtifactSet) (Artifact, error) {
	content, err := render(tmpl, "schema.py.tmpl", set)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: SchemaArtifactName, Kind: KindSchema, Content: content}, nil
}

// depsData is the payload for the dependency template. The orchestrator
// supplies the resolved entries; the engine only renders them.
type depsData struct {
	RunID    string
	SpecName string
	Pattern  pattern.Name
	Tools    []DepEntry
	Packages []DepEntry
}

// DepEntry is one rendered dependency line.
type DepEntry struct {
	Name       string
	Constraint string
}

// RenderDependencies renders the dependency-config artifact from resolved
// tool and package entries using the pattern bundle's dependency template.
func RenderDependencies(set *ArtifactSet, def pattern.Definition, tools, packages []DepEntry) (Artifact, error) {
	tmpl, err := loadBundle(def.Name, def.Bundle)
	if err != nil {
		return Artifact{}, err
	}
	content, err := render(tmpl, "pyproject.toml.tmpl", depsData{
		RunID:    set.RunID,
		SpecName: set.SpecName,
		Pattern:  set.Pattern,
		Tools:    tools,
		Packages: packages,
	})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: DepsArtifactName, Kind: KindDependencyConfig, Content: content}, nil
}
