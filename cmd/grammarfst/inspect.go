package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/fst"
	"github.com/aurelab/grammarfst/symbol"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <automaton.fst>",
	Short: "Dump the states and arcs of one compiled automaton",
	Long: `Reads a single automaton in the binary codec and prints every state
with its arcs and final cost. Sentinel-marked states print as [sentinel].
With --offset, labels in the packed range are decoded into their nonterminal
and context phone.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInspect(cmd, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	inspectCmd.Flags().Int32("offset", -1, "nonterm_phones_offset for decoding packed labels")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, path string) error {
	offset, err := cmd.Flags().GetInt32("offset")
	if err != nil {
		return err
	}

	var enc symbol.Encoder
	decode := offset >= 0
	if decode {
		enc, err = symbol.NewEncoder(offset)
		if err != nil {
			return err
		}
	}

	a, err := fst.ReadFile(path)
	if err != nil {
		return err
	}
	return dumpAutomaton(os.Stdout, path, a, enc, decode)
}

func dumpAutomaton(w io.Writer, path string, a *fst.Automaton, enc symbol.Encoder, decode bool) error {
	fmt.Fprintf(w, "Automaton: %s\n", path)
	fmt.Fprintf(w, "States: %d, start: %d\n\n", a.NumStates(), a.Start())

	for s := 0; s < a.NumStates(); s++ {
		sid := grammarfst.StateID(s)
		fmt.Fprintf(w, "state %d", s)
		// The sentinel is excluded from IsFinal, so it needs its own branch.
		switch f := a.Final(sid); {
		case grammarfst.IsSpecialFinal(f):
			fmt.Fprintf(w, "  [sentinel]")
		case grammarfst.IsFinal(f):
			fmt.Fprintf(w, "  final=%g", f)
		}
		fmt.Fprintln(w)
		for _, arc := range a.Arcs(sid) {
			fmt.Fprintf(w, "  %s : %d / %g -> %d\n",
				labelString(enc, decode, arc.ILabel), arc.OLabel, arc.Weight, arc.NextState)
		}
	}
	return nil
}

func labelString(enc symbol.Encoder, decode bool, l grammarfst.Label) string {
	if !decode || !enc.IsSpecial(l) {
		return fmt.Sprintf("%d", l)
	}
	nt, phone, ok := enc.Decode(l)
	if !ok {
		return fmt.Sprintf("%d (undecodable)", l)
	}
	return fmt.Sprintf("(%v, phone %d)", nt, phone)
}
