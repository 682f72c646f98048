package symbol

import (
	"math"
	"testing"

	grammarfst "github.com/aurelab/grammarfst"
)

func TestNewContextSet(t *testing.T) {
	cs, err := NewContextSet([]grammarfst.PhoneID{1, 2, 3}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if cs.Size() != 3 {
		t.Errorf("Size() = %d, want 3", cs.Size())
	}
	if cs.BOS() != 3 {
		t.Errorf("BOS() = %d, want 3", cs.BOS())
	}
	if !cs.Contains(2) || cs.Contains(4) {
		t.Error("Contains membership wrong")
	}
	if got, want := float64(cs.LogSize()), math.Log(3); math.Abs(got-want) > 1e-6 {
		t.Errorf("LogSize() = %v, want %v", got, want)
	}
}

func TestNewContextSetRejects(t *testing.T) {
	tests := []struct {
		name   string
		phones []grammarfst.PhoneID
		bos    grammarfst.PhoneID
	}{
		{"empty set", nil, 0},
		{"duplicate phone", []grammarfst.PhoneID{1, 1, 2}, 1},
		{"negative phone", []grammarfst.PhoneID{1, -2}, 1},
		{"bos outside set", []grammarfst.PhoneID{1, 2}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewContextSet(tt.phones, tt.bos); err == nil {
				t.Error("want error, got nil")
			}
		})
	}
}

func TestContextSetPhonesIsCopy(t *testing.T) {
	cs, err := NewContextSet([]grammarfst.PhoneID{1, 2, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := cs.Phones()
	got[0] = 99
	if cs.Phones()[0] != 1 {
		t.Error("Phones() exposed internal storage")
	}
}
