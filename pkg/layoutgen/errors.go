package layoutgen

import "errors"

// ErrConfiguration marks a setup-time failure: an invalid graph,
// contradictory options, or a missing shape variant. Detected
// synchronously, before any event is published.
var ErrConfiguration = errors.New("layoutgen: configuration error")

// ErrGenerationFailed marks a run-time failure: the planner exhausted
// its backtracking budget without finding a valid layout. Cancellation is
// not reported through it; a cancelled run returns Result.Cancelled with a
// nil error. Observers may already have received partial events.
var ErrGenerationFailed = errors.New("layoutgen: generation failed")

// ErrInvariantViolation marks a defect that should never occur under
// correct operation: negative energy, configuration-space asymmetry, or
// a constraint returning stale cached data.
var ErrInvariantViolation = errors.New("layoutgen: invariant violation")
