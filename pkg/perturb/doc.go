// Package perturb implements the layout controller: given a partial
// layout and a chain, it proposes a single local edit — a shape change or
// a position change of one already-placed node — and recomputes the
// affected energy. RoomShapesHandler additionally enforces each node's
// repeat-mode policy when filtering candidate shapes.
package perturb
