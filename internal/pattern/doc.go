// Package pattern defines the closed architecture-pattern taxonomy and the
// recognizer that scores a specification against it. Each pattern is plain
// data: indicator phrases, default node and utility skeletons, a template
// bundle name, and pattern-specific packages.
package pattern
