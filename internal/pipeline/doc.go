// Package pipeline sequences the five generation stages for one
// specification: load, recognize, generate, validate, and resolve
// dependencies. Each run owns its specification, artifact set, and report
// exclusively; stages communicate only through the values passed forward,
// never through shared mutable state.
package pipeline
