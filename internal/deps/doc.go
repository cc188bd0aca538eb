// Package deps derives the tooling and dependency configuration for a
// generated project: the pattern's base tool entries, pattern-specific
// packages, and packages implied by each utility's external-system
// description, with pairwise version-constraint compatibility checked via
// semver. The first incompatible pair is reported as a conflict rather
// than silently resolved.
package deps
