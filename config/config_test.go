package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/symbol"
)

const validYAML = `
top_level: top.fst
grammars:
  - name: address
    path: address.fst
    id: 5
context_phones: [1, 2, 3]
bos_phone: 3
nonterm_phones_offset: 400
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.TopLevel != "top.fst" {
		t.Errorf("TopLevel = %q", c.TopLevel)
	}
	if len(c.Grammars) != 1 || c.Grammars[0].Name != "address" || c.Grammars[0].ID != 5 {
		t.Errorf("Grammars = %+v", c.Grammars)
	}
	if c.BOSPhone != 3 || c.NontermPhonesOffset != 400 {
		t.Errorf("phone fields = %d, %d", c.BOSPhone, c.NontermPhonesOffset)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed yaml", "top_level: [", "parse yaml"},
		{"missing top level", "context_phones: [1]", "top_level"},
		{"empty context set", "top_level: a.fst", "context_phones"},
		{
			"grammar without path",
			"top_level: a.fst\ncontext_phones: [1]\ngrammars:\n  - name: x\n    id: 5",
			"no path",
		},
		{
			"reserved grammar id",
			"top_level: a.fst\ncontext_phones: [1]\ngrammars:\n  - name: x\n    path: x.fst\n    id: 2",
			"reserved range",
		},
		{
			"duplicate grammar id",
			"top_level: a.fst\ncontext_phones: [1]\ngrammars:\n  - name: x\n    path: x.fst\n    id: 5\n  - name: y\n    path: y.fst\n    id: 5",
			"share id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse accepted invalid configuration")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	c, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	opts := c.Options()
	if len(opts.ContextPhones) != 3 || opts.ContextPhones[2] != 3 {
		t.Errorf("ContextPhones = %v", opts.ContextPhones)
	}
	if opts.BOSPhone != 3 || opts.NontermPhonesOffset != 400 {
		t.Errorf("Options = %+v", opts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

// writeTestAutomata writes a minimal top-level graph and one sub-grammar
// in the binary codec so BuildEngine can assemble a working engine.
func writeTestAutomata(t *testing.T, dir string) {
	t.Helper()

	enc, err := symbol.NewEncoder(400)
	if err != nil {
		t.Fatal(err)
	}
	label := func(nt symbol.Nonterminal, p grammarfst.PhoneID) grammarfst.Label {
		l, err := enc.Encode(nt, p)
		if err != nil {
			t.Fatal(err)
		}
		return l
	}
	phones := []grammarfst.PhoneID{1, 2, 3}

	top := fst.NewBuilder()
	t0 := top.AddState()
	t1 := top.AddState()
	t2 := top.AddState()
	t3 := top.AddState()
	top.SetStart(t0)
	top.AddArc(t0, grammarfst.Arc{ILabel: 1, OLabel: 100, Weight: 0.5, NextState: t1})
	for _, p := range phones {
		top.AddArc(t1, grammarfst.Arc{ILabel: label(symbol.Nonterminal(5), p), NextState: t2})
		top.AddArc(t2, grammarfst.Arc{ILabel: label(symbol.Reenter, p), NextState: t3})
	}
	top.SetFinal(t3, 0)
	topA, err := top.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := fst.WriteFile(filepath.Join(dir, "top.fst"), topA); err != nil {
		t.Fatal(err)
	}

	sub := fst.NewBuilder()
	s0 := sub.AddState()
	s1 := sub.AddState()
	s2 := sub.AddState()
	s3 := sub.AddState()
	sub.SetStart(s0)
	for _, p := range phones {
		sub.AddArc(s0, grammarfst.Arc{ILabel: label(symbol.Begin, p), NextState: s1})
		sub.AddArc(s2, grammarfst.Arc{ILabel: label(symbol.End, p), NextState: s3})
	}
	sub.AddArc(s1, grammarfst.Arc{ILabel: 2, OLabel: 200, Weight: 0.3, NextState: s2})
	sub.SetFinal(s3, 0)
	subA, err := sub.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := fst.WriteFile(filepath.Join(dir, "address.fst"), subA); err != nil {
		t.Fatal(err)
	}
}

func TestBuildEngine(t *testing.T) {
	dir := t.TempDir()
	writeTestAutomata(t, dir)

	c, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	eng, err := BuildEngine(c, dir)
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}

	start := eng.Start()
	if start.Instance() != 0 || start.Local() != 0 {
		t.Errorf("Start() = (%d, %d), want the top-level start", start.Instance(), start.Local())
	}
	arcs, err := eng.Arcs(start, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(arcs) != 1 || arcs[0].ILabel != 1 || arcs[0].OLabel != 100 {
		t.Errorf("arcs from the start state = %+v", arcs)
	}
}

func TestBuildEngineMissingAutomaton(t *testing.T) {
	dir := t.TempDir()
	writeTestAutomata(t, dir)
	if err := os.Remove(filepath.Join(dir, "address.fst")); err != nil {
		t.Fatal(err)
	}

	c, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildEngine(c, dir); err == nil {
		t.Error("BuildEngine should fail when an automaton file is missing")
	}
}
