package symbol

import (
	"testing"

	grammarfst "github.com/aurelab/grammarfst"
)

func TestNewEncoderMultiple(t *testing.T) {
	tests := []struct {
		offset int32
		want   uint32
		wantOk bool
	}{
		{0, 1000, true},
		{1, 1000, true},
		{999, 1000, true},
		{1000, 2000, true}, // strictly greater than the offset
		{1001, 2000, true},
		{400, 1000, true},
		{123456, 124000, true},
		{-1, 0, false},
		{999_999_999, 0, false}, // multiple would swallow the label base
	}
	for _, tt := range tests {
		enc, err := NewEncoder(tt.offset)
		if (err == nil) != tt.wantOk {
			t.Errorf("NewEncoder(%d) err = %v, wantOk %v", tt.offset, err, tt.wantOk)
			continue
		}
		if err == nil && enc.Multiple() != tt.want {
			t.Errorf("NewEncoder(%d).Multiple() = %d, want %d", tt.offset, enc.Multiple(), tt.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc, err := NewEncoder(400)
	if err != nil {
		t.Fatal(err)
	}

	nonterms := []Nonterminal{Begin, End, Reenter, UserBase, 7, 100}
	phones := []grammarfst.PhoneID{0, 1, 2, 399, 400, 999}

	for _, nt := range nonterms {
		for _, p := range phones {
			label, err := enc.Encode(nt, p)
			if err != nil {
				t.Fatalf("Encode(%v, %d): %v", nt, p, err)
			}
			if label < LabelBase {
				t.Fatalf("Encode(%v, %d) = %d, below the label base", nt, p, label)
			}
			gotNT, gotP, ok := enc.Decode(label)
			if !ok {
				t.Fatalf("Decode(%d) failed", label)
			}
			if gotNT != nt || gotP != p {
				t.Errorf("round trip (%v, %d) -> %d -> (%v, %d)", nt, p, label, gotNT, gotP)
			}
			// Re-encoding must reproduce the original label exactly.
			again, err := enc.Encode(gotNT, gotP)
			if err != nil || again != label {
				t.Errorf("re-encode (%v, %d) = %d, want %d", gotNT, gotP, again, label)
			}
		}
	}
}

func TestEncodeRejectsOutOfRange(t *testing.T) {
	enc, err := NewEncoder(400)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := enc.Encode(Begin, 1000); err == nil {
		t.Error("Encode should reject a phone at the encoding multiple")
	}
	if _, err := enc.Encode(Begin, -1); err == nil {
		t.Error("Encode should reject a negative phone")
	}
	if _, err := enc.Encode(0, 1); err == nil {
		t.Error("Encode should reject nonterminal 0")
	}
	// 1e6 + 1000*nt + phone must stay within uint32.
	if _, err := enc.Encode(Nonterminal(5_000_000), 0); err == nil {
		t.Error("Encode should reject a nonterminal overflowing the label space")
	}
}

func TestDecodeOrdinaryLabels(t *testing.T) {
	enc, err := NewEncoder(400)
	if err != nil {
		t.Fatal(err)
	}

	for _, label := range []grammarfst.Label{0, 1, 42, LabelBase - 1} {
		if enc.IsSpecial(label) {
			t.Errorf("IsSpecial(%d) = true for ordinary label", label)
		}
		if _, _, ok := enc.Decode(label); ok {
			t.Errorf("Decode(%d) succeeded for ordinary label", label)
		}
	}
	if !enc.IsSpecial(LabelBase) {
		t.Error("IsSpecial(LabelBase) = false")
	}
}

func TestDecodeRejectsZeroNonterminal(t *testing.T) {
	enc, err := NewEncoder(400)
	if err != nil {
		t.Fatal(err)
	}
	// A label in the special range whose quotient is zero names no
	// nonterminal.
	if _, _, ok := enc.Decode(LabelBase + 5); ok {
		t.Error("Decode should reject labels packing nonterminal 0")
	}
}

func TestNonterminalKinds(t *testing.T) {
	for _, nt := range []Nonterminal{Begin, End, Reenter} {
		if !nt.Structural() || nt.User() {
			t.Errorf("%v should be structural, not user", nt)
		}
	}
	for _, nt := range []Nonterminal{UserBase, 99} {
		if nt.Structural() || !nt.User() {
			t.Errorf("%v should be user, not structural", nt)
		}
	}
}

func TestNonterminalString(t *testing.T) {
	tests := []struct {
		nt   Nonterminal
		want string
	}{
		{Begin, "#nonterm:begin"},
		{End, "#nonterm:end"},
		{Reenter, "#nonterm:reenter"},
		{7, "#nonterm:7"},
		{0, "#invalid-nonterm:0"},
	}
	for _, tt := range tests {
		if got := tt.nt.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int32(tt.nt), got, tt.want)
		}
	}
}
