package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forgeflow-labs/forgeflow/internal/engine"
	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// IndexFileName is the structural index written beside the artifacts so a
// previously written set can be re-validated without re-running the engine.
const IndexFileName = "forgeflow.index.json"

// Result holds the outcome of writing one artifact set.
type Result struct {
	OutputDir string
	Files     []string
}

// index is the on-disk structural model of an artifact set: everything
// except the artifact bodies, which live in their own files.
type index struct {
	RunID       string                 `json:"run_id"`
	SpecName    string                 `json:"spec_name"`
	Pattern     pattern.Name           `json:"pattern"`
	Start       string                 `json:"start"`
	Transitions []engine.Transition    `json:"transitions"`
	Nodes       []engine.ResolvedNode  `json:"nodes"`
	Fields      []spec.SchemaField     `json:"fields,omitempty"`
	Utilities   []spec.UtilitySpec     `json:"utilities,omitempty"`
	Kinds       map[string]engine.Kind `json:"kinds"`
}

// Write writes each artifact verbatim to its named path under outputDir,
// plus the structural index. The output directory must be empty to prevent
// accidental overwrites.
func Write(set *engine.ArtifactSet, outputDir string) (*Result, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	existing, err := os.ReadDir(outputDir)
	if err == nil && len(existing) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{OutputDir: outputDir}

	names := make([]string, 0, len(set.Artifacts))
	for name := range set.Artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := set.Artifacts[name]
		outPath := filepath.Join(outputDir, filepath.FromSlash(a.Name))
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", a.Name, err)
		}
		if err := os.WriteFile(outPath, []byte(a.Content), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", a.Name, err)
		}
		result.Files = append(result.Files, a.Name)
	}

	if err := writeIndex(set, outputDir); err != nil {
		return nil, err
	}
	result.Files = append(result.Files, IndexFileName)

	return result, nil
}

func writeIndex(set *engine.ArtifactSet, outputDir string) error {
	idx := index{
		RunID:       set.RunID,
		SpecName:    set.SpecName,
		Pattern:     set.Pattern,
		Start:       set.Start,
		Transitions: set.Transitions,
		Nodes:       set.Nodes,
		Fields:      set.Fields,
		Utilities:   set.Utilities,
		Kinds:       make(map[string]engine.Kind, len(set.Artifacts)),
	}
	for name, a := range set.Artifacts {
		idx.Kinds[name] = a.Kind
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling index: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(outputDir, IndexFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing index %s: %w", path, err)
	}
	return nil
}

// Load reconstructs an artifact set from a previously written output
// directory using its structural index. Artifact bodies are read back from
// their named files.
func Load(dir string) (*engine.ArtifactSet, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	if err != nil {
		return nil, fmt.Errorf("reading index in %s: %w", dir, err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parsing index in %s: %w", dir, err)
	}

	set := &engine.ArtifactSet{
		RunID:       idx.RunID,
		SpecName:    idx.SpecName,
		Pattern:     idx.Pattern,
		Artifacts:   make(map[string]engine.Artifact, len(idx.Kinds)),
		Start:       idx.Start,
		Transitions: idx.Transitions,
		Nodes:       idx.Nodes,
		Fields:      idx.Fields,
		Utilities:   idx.Utilities,
	}

	for name, kind := range idx.Kinds {
		body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("reading artifact %s: %w", name, err)
		}
		set.Artifacts[name] = engine.Artifact{Name: name, Kind: kind, Content: string(body)}
	}

	return set, nil
}
