// Package mapdesc canonicalizes a caller-supplied level description —
// arbitrary node identifiers, per-node shape sets, and edges — into the
// dense integer-indexed graph the rest of the engine operates on.
package mapdesc
