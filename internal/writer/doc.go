// Package writer persists a generated artifact set to a filesystem
// location, writing each artifact verbatim to its named path plus a
// structural index that lets the validator re-inspect a written set later.
// The pipeline itself never persists anything; writing is the caller's
// explicit final step.
package writer
