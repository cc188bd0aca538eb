package validate

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/forgeflow-labs/forgeflow/internal/engine"
)

// Severity grades an issue. Only errors block the artifact set.
type Severity string

// Severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Check pass names, stable for reporting and tests.
const (
	CheckSyntax    = "Syntax"
	CheckLifecycle = "LifecycleCompleteness"
	CheckGraph     = "GraphConnectivity"
	CheckSchema    = "SchemaConsistency"
	CheckUtility   = "UtilityContract"
)

// Issue codes within a check.
const (
	CodeEmptyArtifact         = "EmptyArtifact"
	CodeUnbalancedBrackets    = "UnbalancedBrackets"
	CodeUnresolvedPlaceholder = "UnresolvedPlaceholder"
	CodeMissingPhase          = "MissingPhase"
	CodeNoStartNode           = "NoStartNode"
	CodeUnreachableNode       = "UnreachableNode"
	CodeDanglingTransition    = "DanglingTransition"
	CodeMissingProducer       = "MissingProducer"
	CodeMissingConsumer       = "MissingConsumer"
	CodeFieldNotMentioned     = "FieldNotMentioned"
	CodeMissingContract       = "MissingContract"
	CodeMissingSelfTest       = "MissingSelfTest"
	CodeLargeNodeCount        = "LargeNodeCount"
)

// maxReasonableNodes is the node count above which the validator warns.
const maxReasonableNodes = 12

// Issue is one finding against one artifact.
type Issue struct {
	Artifact string
	Check    string
	Code     string
	Severity Severity
	Message  string
}

// Report is the validator's immutable output for one run. Passed is true
// only when there are zero errors; warnings never block.
type Report struct {
	Passed bool
	Issues []Issue
}

// Errors returns only the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// defaultWorkers bounds check parallelism when the caller passes zero.
const defaultWorkers = 4

// Run statically inspects a complete artifact set and aggregates every
// finding into one report. The five check passes are independent and run
// concurrently; the validator always runs to completion rather than
// stopping at the first issue, and it never edits artifacts. Artifact
// bodies are intentionally incomplete placeholders, so no business logic
// is executed.
func Run(ctx context.Context, set *engine.ArtifactSet, workers int) *Report {
	if workers < 1 {
		workers = defaultWorkers
	}

	passes := []func(*engine.ArtifactSet) []Issue{
		checkSyntax,
		checkLifecycle,
		checkGraph,
		checkSchema,
		checkUtility,
	}

	results := make([][]Issue, len(passes))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pass := range passes {
		g.Go(func() error {
			results[i] = pass(set)
			return nil
		})
	}
	// Checks are pure and return no errors; Wait only joins them.
	_ = g.Wait()

	var issues []Issue
	for _, r := range results {
		issues = append(issues, r...)
	}

	// Deterministic order regardless of check scheduling.
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Artifact != issues[j].Artifact {
			return issues[i].Artifact < issues[j].Artifact
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		return issues[i].Message < issues[j].Message
	})

	passed := true
	for _, i := range issues {
		if i.Severity == SeverityError {
			passed = false
			break
		}
	}

	return &Report{Passed: passed, Issues: issues}
}
