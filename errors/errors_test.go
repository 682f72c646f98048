package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "phase and kind only",
			err:  New(PhasePrepare, KindMixedArcs).Build(),
			want: []string{"[prepare]", "mixed_arcs"},
		},
		{
			name: "with location",
			err:  New(PhaseResolve, KindBadLabel).Instance(3).State(17).Label(1004005).Build(),
			want: []string{"[resolve]", "bad_label", "instance 3", "state 17", "label 1004005"},
		},
		{
			name: "with detail",
			err:  BadConfig("phone set is empty"),
			want: []string{"[config]", "bad_config", "phone set is empty"},
		},
		{
			name: "with cause",
			err:  Load("read header", stderrors.New("unexpected EOF")),
			want: []string{"[load]", "invalid_data", "read header", "caused by: unexpected EOF"},
		},
		{
			name: "unknown instance",
			err:  NotFound(PhaseTraverse, 7, "unknown instance"),
			want: []string{"[traverse]", "not_found", "instance 7", "unknown instance"},
		},
		{
			name: "unprepared automaton",
			err:  NotPrepared(PhaseConfig, "sub-grammar %d lacks a left-context entry fan", 5),
			want: []string{"[config]", "not_prepared", "sub-grammar 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, frag := range tt.want {
				if !strings.Contains(msg, frag) {
					t.Errorf("Error() = %q, missing %q", msg, frag)
				}
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	err := SentinelCollision(9)

	if !stderrors.Is(err, &Error{Phase: PhasePrepare, Kind: KindSentinelCollision}) {
		t.Error("Is() should match on phase and kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseResolve, Kind: KindSentinelCollision}) {
		t.Error("Is() should not match across phases")
	}
	if stderrors.Is(err, &Error{Phase: PhasePrepare, Kind: KindFanMismatch}) {
		t.Error("Is() should not match across kinds")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := stderrors.New("short read")
	err := Load("read arcs", cause)

	if !stderrors.Is(err, cause) {
		t.Error("Unwrap chain should reach the cause")
	}
}

func TestBuilderOmitsUnsetLocation(t *testing.T) {
	err := New(PhaseTraverse, KindNotPrepared).Detail("raw automaton").Build()

	msg := err.Error()
	if strings.Contains(msg, "instance") || strings.Contains(msg, "state") {
		t.Errorf("Error() = %q, should omit unset location fields", msg)
	}
}
