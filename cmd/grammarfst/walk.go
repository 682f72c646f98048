package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/stitch"
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Walk the stitched composite graph breadth first",
	Long: `Builds the engine from the configuration file and enumerates composite
states breadth first from the start state, printing each state's arcs with
their instance-qualified targets. Input labels that name context phones
update the left context carried to the next state; states reached before
any such label use the beginning-of-utterance unit.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWalk(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	walkCmd.Flags().Int("max-states", 200, "Stop after visiting this many composite states")
	rootCmd.AddCommand(walkCmd)
}

type walkItem struct {
	state grammarfst.CompositeState
	phone grammarfst.PhoneID
}

func runWalk(cmd *cobra.Command) error {
	maxStates, err := cmd.Flags().GetInt("max-states")
	if err != nil {
		return err
	}
	eng, _, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	ctx := eng.ContextSet()

	queue := []walkItem{{state: eng.Start(), phone: ctx.BOS()}}
	visited := map[walkItem]bool{queue[0]: true}
	var cur stitch.Cursor

	for len(queue) > 0 && len(visited) <= maxStates {
		it := queue[0]
		queue = queue[1:]

		fmt.Printf("(%d, %d) ctx=%d", it.state.Instance(), it.state.Local(), it.phone)
		if f, err := eng.Final(it.state); err == nil && grammarfst.IsFinal(f) {
			fmt.Printf("  final=%g", f)
		}
		fmt.Println()

		if err := cur.Reset(eng, it.state, it.phone); err != nil {
			return err
		}
		for cur.Next() {
			arc := cur.Arc()
			fmt.Printf("  %d : %d / %g -> (%d, %d)\n",
				arc.ILabel, arc.OLabel, arc.Weight,
				arc.NextState.Instance(), arc.NextState.Local())

			// Transition labels double as context units in this tool.
			phone := it.phone
			if p := grammarfst.PhoneID(arc.ILabel); arc.ILabel != grammarfst.Epsilon && ctx.Contains(p) {
				phone = p
			}
			next := walkItem{state: arc.NextState, phone: phone}
			if !visited[next] && len(visited) < maxStates {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	stats := eng.Stats()
	fmt.Printf("\nVisited %d composite states, %d instances, %d cached expansions\n",
		len(visited), stats.Instances, stats.Expansions)
	return nil
}
