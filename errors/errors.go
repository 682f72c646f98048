package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // reading a compiled automaton
	PhasePrepare  Phase = "prepare"  // structural transform and validation
	PhaseConfig   Phase = "config"   // load-time configuration
	PhaseResolve  Phase = "resolve"  // context resolution at a stitch point
	PhaseTraverse Phase = "traverse" // composite arc enumeration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData       Kind = "invalid_data"
	KindBadLabel          Kind = "bad_label"
	KindSentinelCollision Kind = "sentinel_collision"
	KindMixedArcs         Kind = "mixed_arcs"
	KindFanMismatch       Kind = "fan_mismatch"
	KindUnknownNonterm    Kind = "unknown_nonterminal"
	KindReentryConflict   Kind = "reentry_conflict"
	KindNotPrepared       Kind = "not_prepared"
	KindNotFound          Kind = "not_found"
	KindOutOfRange        Kind = "out_of_range"
	KindBadConfig         Kind = "bad_config"
)

// Error is the structured error type used throughout the engine. Instance,
// State and Label pinpoint the automaton location the error refers to; a
// negative value means that dimension does not apply.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Instance int64
	State    int64
	Label    int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Instance >= 0 {
		fmt.Fprintf(&b, " at instance %d", e.Instance)
		if e.State >= 0 {
			fmt.Fprintf(&b, " state %d", e.State)
		}
	} else if e.State >= 0 {
		fmt.Fprintf(&b, " at state %d", e.State)
	}

	if e.Label >= 0 {
		fmt.Fprintf(&b, " label %d", e.Label)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:    phase,
			Kind:     kind,
			Instance: -1,
			State:    -1,
			Label:    -1,
		},
	}
}

// Instance sets the instance id the error refers to
func (b *Builder) Instance(id uint32) *Builder {
	b.err.Instance = int64(id)
	return b
}

// State sets the local state id the error refers to
func (b *Builder) State(s uint32) *Builder {
	b.err.State = int64(s)
	return b
}

// Label sets the offending arc label
func (b *Builder) Label(l uint32) *Builder {
	b.err.Label = int64(l)
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Load creates an automaton loading error
func Load(detail string, cause error) *Error {
	return New(PhaseLoad, KindInvalidData).Detail(detail).Cause(cause).Build()
}

// BadLabel creates an undecodable-label error
func BadLabel(phase Phase, state, label uint32, detail string) *Error {
	return New(phase, KindBadLabel).State(state).Label(label).Detail(detail).Build()
}

// SentinelCollision reports a genuine final cost equal to the special-state
// sentinel, which would silently misclassify the state at runtime
func SentinelCollision(state uint32) *Error {
	return New(PhasePrepare, KindSentinelCollision).State(state).
		Detail("final cost equals the special-state sentinel").Build()
}

// FanMismatch reports a context fan whose phones do not match the configured
// left-context set
func FanMismatch(phase Phase, state uint32, detail string, args ...any) *Error {
	return New(phase, KindFanMismatch).State(state).Detail(detail, args...).Build()
}

// UnknownNonterminal reports a label referencing a nonterminal with no
// registered automaton
func UnknownNonterminal(phase Phase, nonterm int32) *Error {
	return New(phase, KindUnknownNonterm).
		Detail("nonterminal %d has no registered automaton", nonterm).Build()
}

// NotPrepared reports use of an automaton that skipped the structural
// transform
func NotPrepared(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindNotPrepared).Detail(detail, args...).Build()
}

// BadConfig creates a configuration error
func BadConfig(detail string, args ...any) *Error {
	return New(PhaseConfig, KindBadConfig).Detail(detail, args...).Build()
}

// NotFound reports a reference to an instance the engine never activated
func NotFound(phase Phase, instance uint32, detail string) *Error {
	return New(phase, KindNotFound).Instance(instance).Detail(detail).Build()
}
