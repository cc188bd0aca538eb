package pattern

import (
	"slices"

	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// Name identifies one pattern in the closed taxonomy.
type Name string

// The architecture pattern taxonomy. Closed set; adding a pattern is a data
// change in the taxonomy table below, never a code change elsewhere.
const (
	LinearWorkflow     Name = "linear-workflow"
	AutonomousAgent    Name = "autonomous-agent"
	RetrievalAugmented Name = "retrieval-augmented"
	ToolIntegration    Name = "tool-integration"
	ParallelMapReduce  Name = "parallel-mapreduce"
	MultiAgent         Name = "multi-agent"
	StructuredOutput   Name = "structured-output"
)

// DefaultNode is a pattern-required node role injected when a specification
// under-specifies its processing steps.
type DefaultNode struct {
	Role           string
	Responsibility string
	Kind           spec.NodeKind
}

// DefaultUtility is a utility skeleton injected when a specification names
// no utilities of its own.
type DefaultUtility struct {
	Name           string
	InputContract  string
	OutputContract string
	ExternalSystem string
}

// PackageEntry is a pattern-specific package with its version constraint.
type PackageEntry struct {
	Name       string
	Constraint string
}

// Definition carries everything the pipeline knows about one pattern:
// recognition indicators, default skeletons, the template bundle, and the
// pattern-specific packages. Definitions are static configuration and are
// never mutated at runtime.
type Definition struct {
	Name    Name
	Summary string

	// Indicators are matched case-insensitively against requirements text.
	Indicators []string

	// KindAffinity lists node kinds whose presence in a specification
	// boosts this pattern's score.
	KindAffinity []spec.NodeKind

	// DefaultNodes are the minimum required roles for this pattern.
	DefaultNodes []DefaultNode

	// DefaultUtilities are injected when the specification has none.
	DefaultUtilities []DefaultUtility

	// Bundle names the template bundle directory under the engine's
	// embedded templates.
	Bundle string

	// Packages are the pattern-specific packages for the dependency config.
	Packages []PackageEntry
}

var taxonomy = []Definition{
	{
		Name:    LinearWorkflow,
		Summary: "Fixed sequence of steps, each feeding the next",
		Indicators: []string{
			"step by step", "sequence", "pipeline", "stage", "workflow",
			"chain", "one after another", "in order",
		},
		KindAffinity: []spec.NodeKind{spec.KindSync},
		DefaultNodes: []DefaultNode{
			{Role: "ingest", Responsibility: "Read and normalize the raw input", Kind: spec.KindSync},
			{Role: "transform", Responsibility: "Apply the core transformation", Kind: spec.KindSync},
			{Role: "deliver", Responsibility: "Format and hand off the result", Kind: spec.KindSync},
		},
		Bundle: "workflow",
	},
	{
		Name:    AutonomousAgent,
		Summary: "Single agent loop that observes, decides, and acts",
		Indicators: []string{
			"agent", "autonomous", "decide", "reasoning loop", "plan",
			"act on", "self-directed", "until done",
		},
		KindAffinity: []spec.NodeKind{spec.KindAsync},
		DefaultNodes: []DefaultNode{
			{Role: "observe", Responsibility: "Gather the current context for the decision", Kind: spec.KindSync},
			{Role: "decide", Responsibility: "Choose the next action from the observed context", Kind: spec.KindSync},
			{Role: "act", Responsibility: "Carry out the chosen action", Kind: spec.KindAsync},
		},
		DefaultUtilities: []DefaultUtility{
			{
				Name:           "call_llm",
				InputContract:  "prompt: str",
				OutputContract: "completion: str",
				ExternalSystem: "llm completion api",
			},
		},
		Bundle: "agent",
		Packages: []PackageEntry{
			{Name: "openai", Constraint: ">=1.30, <2.0"},
		},
	},
	{
		Name:    RetrievalAugmented,
		Summary: "Index a corpus, retrieve relevant context, generate grounded answers",
		Indicators: []string{
			"retrieve", "retrieval", "knowledge base", "document search",
			"embedding", "semantic search", "rag", "corpus",
			"answer questions", "grounded",
		},
		KindAffinity: []spec.NodeKind{spec.KindBatch},
		DefaultNodes: []DefaultNode{
			{Role: "index", Responsibility: "Chunk and embed the corpus into the search index", Kind: spec.KindBatch},
			{Role: "retrieve", Responsibility: "Look up the most relevant chunks for the query", Kind: spec.KindSync},
			{Role: "generate", Responsibility: "Produce the grounded answer from retrieved context", Kind: spec.KindSync},
		},
		DefaultUtilities: []DefaultUtility{
			{
				Name:           "get_embedding",
				InputContract:  "text: str",
				OutputContract: "vector: list[float]",
				ExternalSystem: "embedding model api",
			},
			{
				Name:           "search_index",
				InputContract:  "vector: list[float], top_k: int",
				OutputContract: "chunks: list[str]",
				ExternalSystem: "vector database",
			},
		},
		Bundle: "rag",
		Packages: []PackageEntry{
			{Name: "faiss-cpu", Constraint: ">=1.8, <2.0"},
			{Name: "tiktoken", Constraint: ">=0.7"},
		},
	},
	{
		Name:    ToolIntegration,
		Summary: "Wrap and orchestrate calls to external tools and APIs",
		Indicators: []string{
			"integrate", "external api", "webhook", "third-party",
			"call a tool", "wrap", "connector", "service call",
		},
		KindAffinity: []spec.NodeKind{spec.KindAsync},
		DefaultNodes: []DefaultNode{
			{Role: "prepare_request", Responsibility: "Build the outgoing request payload", Kind: spec.KindSync},
			{Role: "invoke_tool", Responsibility: "Call the external tool and capture its response", Kind: spec.KindAsync},
			{Role: "handle_response", Responsibility: "Interpret the tool response and record the outcome", Kind: spec.KindSync},
		},
		DefaultUtilities: []DefaultUtility{
			{
				Name:           "call_api",
				InputContract:  "url: str, payload: dict",
				OutputContract: "response: dict",
				ExternalSystem: "http api",
			},
		},
		Bundle: "workflow",
		Packages: []PackageEntry{
			{Name: "requests", Constraint: ">=2.31, <3.0"},
		},
	},
	{
		Name:    ParallelMapReduce,
		Summary: "Split work into independent chunks, process in parallel, merge",
		Indicators: []string{
			"map", "reduce", "chunk", "fan out", "parallel", "split",
			"large file", "merge results", "batch process",
		},
		KindAffinity: []spec.NodeKind{spec.KindParallelBatch, spec.KindBatch},
		DefaultNodes: []DefaultNode{
			{Role: "split", Responsibility: "Partition the input into independent work items", Kind: spec.KindSync},
			{Role: "map_items", Responsibility: "Process each work item independently", Kind: spec.KindParallelBatch},
			{Role: "reduce", Responsibility: "Merge the per-item results into one output", Kind: spec.KindSync},
		},
		Bundle: "batch",
		Packages: []PackageEntry{
			{Name: "aiofiles", Constraint: ">=23.0"},
		},
	},
	{
		Name:    MultiAgent,
		Summary: "Several agents coordinated by a supervisor, working in parallel",
		Indicators: []string{
			"multiple agents", "collaborate", "supervisor", "team",
			"coordinate", "delegate", "specialists", "roles",
		},
		KindAffinity: []spec.NodeKind{spec.KindParallelBatch, spec.KindAsync},
		DefaultNodes: []DefaultNode{
			{Role: "supervise", Responsibility: "Assign work items to the specialist agents", Kind: spec.KindSync},
			{Role: "execute_task", Responsibility: "Run one specialist agent on its assignment", Kind: spec.KindParallelBatch},
			{Role: "aggregate", Responsibility: "Combine the specialist outputs into the final result", Kind: spec.KindSync},
		},
		DefaultUtilities: []DefaultUtility{
			{
				Name:           "call_llm",
				InputContract:  "prompt: str",
				OutputContract: "completion: str",
				ExternalSystem: "llm completion api",
			},
		},
		Bundle: "agent",
		Packages: []PackageEntry{
			{Name: "openai", Constraint: ">=1.30, <2.0"},
		},
	},
	{
		Name:    StructuredOutput,
		Summary: "Extract or render data in a strict declared shape",
		Indicators: []string{
			"extract", "structured", "json output", "yaml output",
			"fill a form", "fields", "strict format", "typed output",
		},
		KindAffinity: []spec.NodeKind{spec.KindSync},
		DefaultNodes: []DefaultNode{
			{Role: "collect", Responsibility: "Gather the raw input to extract from", Kind: spec.KindSync},
			{Role: "extract", Responsibility: "Pull the declared fields out of the input", Kind: spec.KindSync},
			{Role: "validate_output", Responsibility: "Check the extracted data against the declared shape", Kind: spec.KindSync},
		},
		DefaultUtilities: []DefaultUtility{
			{
				Name:           "call_llm",
				InputContract:  "prompt: str",
				OutputContract: "completion: str",
				ExternalSystem: "llm completion api",
			},
		},
		Bundle: "workflow",
		Packages: []PackageEntry{
			{Name: "pydantic", Constraint: ">=2.7, <3.0"},
		},
	},
}

// Definitions returns the full taxonomy in declaration order.
func Definitions() []Definition {
	return slices.Clone(taxonomy)
}

// Lookup returns the definition for a pattern name.
func Lookup(name Name) (Definition, bool) {
	for _, d := range taxonomy {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Names returns all pattern names as strings, in declaration order.
func Names() []string {
	names := make([]string, len(taxonomy))
	for i, d := range taxonomy {
		names[i] = string(d.Name)
	}
	return names
}

// DefaultRoleNames returns every default node role across the taxonomy,
// deduplicated. The loader accepts these as schema-field producers before
// the engine has injected the nodes.
func DefaultRoleNames() []string {
	seen := make(map[string]bool)
	var roles []string
	for _, d := range taxonomy {
		for _, n := range d.DefaultNodes {
			if !seen[n.Role] {
				seen[n.Role] = true
				roles = append(roles, n.Role)
			}
		}
	}
	return roles
}

// Known bundles the taxonomy names for the specification loader.
func Known() spec.Known {
	return spec.Known{
		PatternNames: Names(),
		RoleNames:    DefaultRoleNames(),
	}
}
