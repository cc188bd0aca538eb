package spec

// NodeKind classifies how a processing step executes.
type NodeKind string

// Node kinds accepted in specification documents.
const (
	KindSync          NodeKind = "synchronous"
	KindAsync         NodeKind = "asynchronous"
	KindBatch         NodeKind = "batch"
	KindParallelBatch NodeKind = "parallel-batch"
)

// ValidKinds contains all accepted node kind values.
var ValidKinds = []NodeKind{KindSync, KindAsync, KindBatch, KindParallelBatch}

// SemanticType classifies a shared schema field's payload.
type SemanticType string

// Semantic types accepted in specification documents.
const (
	TypeString     SemanticType = "string"
	TypeNumber     SemanticType = "number"
	TypeBoolean    SemanticType = "boolean"
	TypeStructured SemanticType = "structured"
	TypeCollection SemanticType = "collection"
)

// Specification is the parsed, immutable input model for one pipeline run.
// It is created by Load/Parse and never mutated afterwards.
type Specification struct {
	// Name uniquely identifies the requested project.
	Name string

	// Requirements is the free-text description scored by the recognizer.
	Requirements string

	// ExplicitPattern, when non-empty, overrides pattern recognition.
	ExplicitPattern string

	// Nodes holds the ordered processing steps requested by the caller.
	Nodes []NodeSpec

	// Utilities holds the external utility calls the project needs.
	Utilities []UtilitySpec

	// SchemaFields holds the shared-store fields passed between nodes.
	SchemaFields []SchemaField
}

// NodeSpec describes one requested processing step.
type NodeSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Kind        NodeKind `json:"kind"`

	// After and Before are optional ordering hints naming other steps.
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
}

// UtilitySpec describes one external utility call the generated project wraps.
type UtilitySpec struct {
	Name           string `json:"name"`
	InputContract  string `json:"input,omitempty"`
	OutputContract string `json:"output,omitempty"`

	// ExternalSystem is free text describing what the utility talks to;
	// the dependency orchestrator mines it for package keywords.
	ExternalSystem string `json:"external_system,omitempty"`
}

// SchemaField describes one shared-store field with its producer and consumers.
type SchemaField struct {
	Name      string       `json:"name"`
	Type      SemanticType `json:"type"`
	Producer  string       `json:"producer"`
	Consumers []string     `json:"consumers,omitempty"`
}

// Known carries the closed-taxonomy names the loader checks references
// against. It is supplied by the pattern package so the reference direction
// stays pattern → spec.
type Known struct {
	// PatternNames are the valid values for the explicit pattern override.
	PatternNames []string

	// RoleNames are pattern-default node placeholders a schema field may
	// name as its producer before the engine injects those nodes.
	RoleNames []string
}
