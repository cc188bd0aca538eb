package deps

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

// Entry is one tool or package with its version constraint and the source
// that contributed it.
type Entry struct {
	Name       string
	Constraint string

	// Source says where the entry came from, for conflict reporting.
	Source string
}

// Config is the resolved dependency configuration for one run. Immutable
// once returned.
type Config struct {
	// Tools are the dev tool entries (test runner, formatter, type
	// checker, pattern extras).
	Tools []Entry

	// Packages are the pattern-specific and utility-implied packages.
	Packages []Entry
}

// DependencyConflictError reports the first pair of entries whose version
// constraints admit no common version. Conflicts are never auto-resolved
// by silently dropping one constraint.
type DependencyConflictError struct {
	Name   string
	First  Entry
	Second Entry
}

func (e *DependencyConflictError) Error() string {
	return fmt.Sprintf("dependency conflict on %s: %q (from %s) vs %q (from %s)",
		e.Name, e.First.Constraint, e.First.Source, e.Second.Constraint, e.Second.Source)
}

// Resolve derives the dependency configuration from the selected pattern
// and the utility list: base tools, pattern extras, pattern packages, and
// packages implied by each utility's external-system text, with pairwise
// constraint compatibility checked across all entries.
func Resolve(def pattern.Definition, utilities []spec.UtilitySpec) (*Config, error) {
	var tools []Entry
	tools = append(tools, baseTools...)
	tools = append(tools, patternTools[def.Name]...)

	var packages []Entry
	for _, p := range def.Packages {
		packages = append(packages, Entry{
			Name:       p.Name,
			Constraint: p.Constraint,
			Source:     "pattern " + string(def.Name),
		})
	}
	for _, u := range utilities {
		packages = append(packages, impliedPackages(u)...)
	}

	tools, err := merge(tools)
	if err != nil {
		return nil, err
	}
	packages, err = merge(packages)
	if err != nil {
		return nil, err
	}

	// Tool and package namespaces are checked against each other too.
	if _, err := merge(append(append([]Entry{}, tools...), packages...)); err != nil {
		return nil, err
	}

	return &Config{Tools: tools, Packages: packages}, nil
}

// impliedPackages mines a utility's external-system text for known system
// keywords. One entry per distinct package; the first matching keyword for
// a package wins.
func impliedPackages(u spec.UtilitySpec) []Entry {
	text := strings.ToLower(u.ExternalSystem)
	seen := make(map[string]bool)
	var entries []Entry
	for _, k := range keywordPackages {
		if !strings.Contains(text, k.Keyword) || seen[k.Name] {
			continue
		}
		seen[k.Name] = true
		entries = append(entries, Entry{
			Name:       k.Name,
			Constraint: k.Constraint,
			Source:     "utility " + u.Name,
		})
	}
	return entries
}

// merge deduplicates entries by name, failing on the first pair whose
// constraints are incompatible. Entry order is preserved.
func merge(entries []Entry) ([]Entry, error) {
	chosen := make(map[string]Entry)
	var out []Entry
	for _, e := range entries {
		prev, ok := chosen[e.Name]
		if !ok {
			chosen[e.Name] = e
			out = append(out, e)
			continue
		}
		if !compatible(prev.Constraint, e.Constraint) {
			return nil, &DependencyConflictError{Name: e.Name, First: prev, Second: e}
		}
	}
	return out, nil
}

var versionAnchor = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// compatible reports whether two constraints admit a common version. The
// candidate set is every version mentioned in either constraint plus its
// minor and patch successors; a version satisfying both constraints proves
// compatibility.
func compatible(a, b string) bool {
	if a == b {
		return true
	}

	ca, err := semver.NewConstraint(a)
	if err != nil {
		return false
	}
	cb, err := semver.NewConstraint(b)
	if err != nil {
		return false
	}

	for _, raw := range append(versionAnchor.FindAllString(a, -1), versionAnchor.FindAllString(b, -1)...) {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		for _, candidate := range []semver.Version{*v, v.IncPatch(), v.IncMinor()} {
			if ca.Check(&candidate) && cb.Check(&candidate) {
				return true
			}
		}
	}
	return false
}

// Compact rewrites a constraint for rendering into the generated
// dependency file, e.g. ">=8.0, <9.0" → ">=8.0,<9.0".
func Compact(constraint string) string {
	return strings.ReplaceAll(constraint, " ", "")
}
