package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/symbol"
)

var genDemoCmd = &cobra.Command{
	Use:   "gen-demo",
	Short: "Write a small demo graph pair and its configuration",
	Long: `Writes a top-level graph that invokes one sub-grammar, the sub-grammar
itself, and a grammar.yaml binding them, so walk and explore have something
to run against.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGenDemo(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	genDemoCmd.Flags().String("dir", ".", "Output directory")
	rootCmd.AddCommand(genDemoCmd)
}

const demoConfig = `top_level: top.fst
grammars:
  - name: address
    path: address.fst
    id: 4
context_phones: [1, 2, 3]
bos_phone: 3
nonterm_phones_offset: 400
`

func runGenDemo(cmd *cobra.Command) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	enc, err := symbol.NewEncoder(400)
	if err != nil {
		return err
	}
	phones := []grammarfst.PhoneID{1, 2, 3}
	// Fan arcs carry the compile-time compensation the engine cancels when
	// it selects one alternative.
	fanW := grammarfst.Weight(math.Log(float64(len(phones))))
	label := func(nt symbol.Nonterminal, p grammarfst.PhoneID) grammarfst.Label {
		l, err := enc.Encode(nt, p)
		if err != nil {
			panic(err)
		}
		return l
	}

	// Top level: one word, then the sub-grammar, then one more word.
	top := fst.NewBuilder()
	t0 := top.AddState()
	t1 := top.AddState()
	t2 := top.AddState()
	t3 := top.AddState()
	t4 := top.AddState()
	top.SetStart(t0)
	top.AddArc(t0, grammarfst.Arc{ILabel: 1, OLabel: 100, Weight: 0.5, NextState: t1})
	for _, p := range phones {
		top.AddArc(t1, grammarfst.Arc{ILabel: label(symbol.UserBase, p), Weight: 0.25, NextState: t2})
		top.AddArc(t2, grammarfst.Arc{ILabel: label(symbol.Reenter, p), Weight: fanW, NextState: t3})
	}
	top.AddArc(t3, grammarfst.Arc{ILabel: 3, OLabel: 101, Weight: 0.5, NextState: t4})
	top.SetFinal(t4, 0)
	topA, err := top.Build()
	if err != nil {
		return err
	}

	// Sub-grammar: entry fan, two alternative words, exit fan.
	sub := fst.NewBuilder()
	s0 := sub.AddState()
	s1 := sub.AddState()
	s2 := sub.AddState()
	s3 := sub.AddState()
	sub.SetStart(s0)
	for _, p := range phones {
		sub.AddArc(s0, grammarfst.Arc{ILabel: label(symbol.Begin, p), Weight: fanW, NextState: s1})
		sub.AddArc(s2, grammarfst.Arc{ILabel: label(symbol.End, p), Weight: fanW, NextState: s3})
	}
	sub.AddArc(s1, grammarfst.Arc{ILabel: 2, OLabel: 200, Weight: 0.3, NextState: s2})
	sub.AddArc(s1, grammarfst.Arc{ILabel: 3, OLabel: 201, Weight: 0.7, NextState: s2})
	sub.SetFinal(s3, 0)
	subA, err := sub.Build()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := fst.WriteFile(filepath.Join(dir, "top.fst"), topA); err != nil {
		return err
	}
	if err := fst.WriteFile(filepath.Join(dir, "address.fst"), subA); err != nil {
		return err
	}
	cfg := filepath.Join(dir, "grammar.yaml")
	if err := os.WriteFile(cfg, []byte(demoConfig), 0o644); err != nil {
		return err
	}

	fmt.Printf("Wrote top.fst, address.fst, %s\n", cfg)
	fmt.Printf("Try: grammarfst walk -c %s\n", cfg)
	return nil
}
