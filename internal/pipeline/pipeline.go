package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/forgeflow-labs/forgeflow/internal/deps"
	"github.com/forgeflow-labs/forgeflow/internal/engine"
	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
	"github.com/forgeflow-labs/forgeflow/internal/validate"
)

// Options tunes one pipeline run.
type Options struct {
	// Workers bounds per-artifact parallelism in the engine and
	// validator stages.
	Workers int
}

// Result is everything one completed run produced. It is owned by the
// caller; runs share no state. A Result with Report.Passed == false means
// "do not write these artifacts to a project", not partial success.
type Result struct {
	RunID     string
	Spec      *spec.Specification
	Selection *pattern.Selection
	Artifacts *engine.ArtifactSet
	Report    *validate.Report
	Deps      *deps.Config
}

// Run executes the five pipeline stages strictly in order: load, recognize,
// generate, validate, resolve dependencies. Load, recognize, and generate
// fail fast; the validator always runs to completion over the full artifact
// set so the caller gets every structural issue in one pass. Nothing is
// retried automatically: ambiguity and structural failures are reported for
// an external decision-maker.
func Run(ctx context.Context, doc []byte, opts Options) (*Result, error) {
	s, err := spec.Parse(doc, pattern.Known())
	if err != nil {
		return nil, err
	}

	sel, err := pattern.Recognize(s)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	set, err := engine.Generate(ctx, s, sel.Pattern, engine.Options{
		RunID:   runID,
		Workers: opts.Workers,
	})
	if err != nil {
		return nil, err
	}

	report := validate.Run(ctx, set, opts.Workers)

	cfg, err := deps.Resolve(sel.Pattern, set.Utilities)
	if err != nil {
		return nil, err
	}

	depArtifact, err := engine.RenderDependencies(set, sel.Pattern,
		toDepEntries(cfg.Tools), toDepEntries(cfg.Packages))
	if err != nil {
		return nil, err
	}
	set.Artifacts[depArtifact.Name] = depArtifact

	return &Result{
		RunID:     runID,
		Spec:      s,
		Selection: sel,
		Artifacts: set,
		Report:    report,
		Deps:      cfg,
	}, nil
}

// RunFile loads a specification file and runs the pipeline on it.
func RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading specification %s: %w", path, err)
	}
	return Run(ctx, data, opts)
}

// toDepEntries converts resolved entries into the engine's rendering shape,
// compacting constraints for the generated dependency file.
func toDepEntries(entries []deps.Entry) []engine.DepEntry {
	out := make([]engine.DepEntry, len(entries))
	for i, e := range entries {
		out[i] = engine.DepEntry{Name: e.Name, Constraint: deps.Compact(e.Constraint)}
	}
	return out
}
