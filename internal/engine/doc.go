// Package engine expands a selected pattern's template bundle into the
// concrete artifact set for a specification: one module per node with the
// prep/exec/post lifecycle, one flow-assembly module holding the full
// transition table, one shared-schema module, and one module per utility.
// Node and utility artifacts have no cross-dependencies and render
// concurrently; the flow and schema artifacts summarize the node set and
// render after the join.
package engine
