// Package spec loads and validates specification documents, the sole input
// to the generation pipeline. Loading is a fast-fail gate: a document either
// parses into an immutable Specification or is rejected with a
// MalformedSpecificationError naming the first structural problem. No
// partial recovery is attempted.
package spec
