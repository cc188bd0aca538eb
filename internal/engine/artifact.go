package engine

import (
	"sort"
	"strings"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// Kind classifies a generated artifact.
type Kind string

// Artifact kinds.
const (
	KindNode             Kind = "node"
	KindFlow             Kind = "flow-assembly"
	KindSchema           Kind = "schema"
	KindUtility          Kind = "utility"
	KindDependencyConfig Kind = "dependency-config"
)

// Artifact is one generated file, identified by its relative path.
type Artifact struct {
	// Name is the path the artifact should be written to, e.g.
	// "nodes/retrieve.py".
	Name string

	Kind    Kind
	Content string
}

// Transition is one edge of the flow graph: when From's finalize phase
// returns Action, control moves to To. An empty To terminates the flow.
type Transition struct {
	From   string `json:"from"`
	Action string `json:"action"`
	To     string `json:"to"`
}

// ResolvedNode is one entry of the effective node list: either a
// specification step taken as given or a pattern default injected to cover
// a required role.
type ResolvedNode struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Kind        spec.NodeKind `json:"kind"`

	// Role is the pattern default role this node covers, empty for
	// user-defined nodes that match no role.
	Role string `json:"role,omitempty"`

	// Injected is true when the node came from the pattern defaults
	// rather than the specification.
	Injected bool `json:"injected,omitempty"`

	// Produces and Consumes are the shared schema fields this node
	// writes and reads.
	Produces []string `json:"produces,omitempty"`
	Consumes []string `json:"consumes,omitempty"`

	// Actions are the action labels this node's finalize phase may
	// return. Every label has a matching transition table entry.
	Actions []string `json:"actions"`
}

// ClassName derives the Python class name for the node.
func (n ResolvedNode) ClassName() string {
	return camelCase(n.Name)
}

// Module derives the Python module name for the node.
func (n ResolvedNode) Module() string {
	return snakeCase(n.Name)
}

// ArtifactSet is the engine's complete output for one run: the artifact
// bodies plus the structural model (node list, transition table, schema
// fields) the validator inspects. Owned exclusively by the run that
// created it.
type ArtifactSet struct {
	RunID    string       `json:"run_id"`
	SpecName string       `json:"spec_name"`
	Pattern  pattern.Name `json:"pattern"`

	Artifacts map[string]Artifact `json:"artifacts"`

	// Start names the single designated start node.
	Start string `json:"start"`

	// Transitions is the complete (node, action) → successor table,
	// built once here and treated as immutable data downstream.
	Transitions []Transition `json:"transitions"`

	Nodes     []ResolvedNode     `json:"nodes"`
	Fields    []spec.SchemaField `json:"fields,omitempty"`
	Utilities []spec.UtilitySpec `json:"utilities,omitempty"`
}

// NodeArtifactName returns the artifact name for a node.
func NodeArtifactName(node string) string {
	return "nodes/" + snakeCase(node) + ".py"
}

// UtilityArtifactName returns the artifact name for a utility.
func UtilityArtifactName(util string) string {
	return "utils/" + snakeCase(util) + ".py"
}

// Names of the singleton artifacts.
const (
	FlowArtifactName   = "flow.py"
	SchemaArtifactName = "shared_schema.py"
	DepsArtifactName   = "pyproject.toml"
)

// ByKind returns the artifacts of one kind, sorted by name.
func (s *ArtifactSet) ByKind(kind Kind) []Artifact {
	var out []Artifact
	for _, a := range s.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NodeByName returns the resolved node with the given name.
func (s *ArtifactSet) NodeByName(name string) (ResolvedNode, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return ResolvedNode{}, false
}

// snakeCase converts a node or utility name to a Python identifier.
func snakeCase(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// camelCase converts a node name to a Python class name, e.g.
// "retrieve-context" → "RetrieveContext".
func camelCase(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_'
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
