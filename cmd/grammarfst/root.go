package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aurelab/grammarfst/config"
	"github.com/aurelab/grammarfst/stitch"
)

var rootCmd = &cobra.Command{
	Use:   "grammarfst",
	Short: "Lazy grammar stitching over compiled automata",
	Long: `grammarfst works with decoding graphs that invoke sub-grammars through
packed stitch-point labels. It can dump a single compiled automaton, walk
the stitched composite graph, or explore it interactively.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		if verbose {
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			stitch.SetLogger(log)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "grammar.yaml", "Engine configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine activity")
}

// loadEngine builds the stitching engine named by the --config flag.
// Relative automaton paths resolve against the configuration file's
// directory.
func loadEngine(cmd *cobra.Command) (*stitch.Stitcher, *config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	eng, err := config.BuildEngine(c, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	return eng, c, nil
}
