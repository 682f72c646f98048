// Package errors provides structured error types for the stitching engine.
//
// Every error carries a Phase (where in processing it occurred) and a Kind
// (what went wrong), plus the instance/state/label coordinates of the
// offending automaton location when known. Errors.Is matches on Phase and
// Kind, so callers can test for a category without string comparison:
//
//	if errors.Is(err, &errors.Error{Phase: errors.PhasePrepare, Kind: errors.KindSentinelCollision}) {
//	    ...
//	}
package errors
