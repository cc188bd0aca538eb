// Package cli wires the cobra command tree for the forgeflow binary:
// generate, recognize, validate, patterns, config, and version.
package cli
