// Package events publishes layout snapshots to interested observers
// during a generation: OnPerturbed after each accepted perturbation,
// OnPartialValid after each chain completes validly, OnValid for the
// final full layout. Publishing never blocks generation; a subscriber
// that falls behind simply misses intermediate snapshots.
package events
