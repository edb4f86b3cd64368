// Package configspace precomputes, for every ordered pair of shape
// variants, the set of relative offsets at which the two shapes connect
// legally — at least one door pair coincides and no area overlaps. It is
// built once per generation and is immutable thereafter.
package configspace
