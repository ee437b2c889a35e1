package cmd

import (
	"fmt"

	"github.com/jsphweid/auxloop/lily"
	"github.com/jsphweid/auxloop/mutate"
	"github.com/spf13/cobra"
)

var inspectIO ioFlags

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectIO.register(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Prints the measures and logical ties of the input",
	RunE: func(cmd *cobra.Command, args []string) error {
		music, err := inspectIO.music()
		if err != nil {
			return err
		}
		return inspect(cmd, music)
	},
}

func inspect(cmd *cobra.Command, music string) error {
	c, err := lily.Parse(music)
	if err != nil {
		return err
	}
	sigs, err := mutate.ExtractTimeSignatures(c)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "duration: %v\n", c.Duration())
	fmt.Fprintf(w, "measures: %d\n", len(sigs))
	for i, ts := range sigs {
		fmt.Fprintf(w, "  %d: %v\n", i+1, ts)
	}
	ties := c.LogicalTies()
	fmt.Fprintf(w, "logical ties: %d (%d pitched)\n", len(ties), len(c.PitchedLogicalTies()))
	for i, lt := range ties {
		fmt.Fprintf(w, "  %d at %v: %s\n", i, lt.Offset, lily.Format(c.Tie(lt)))
	}
	return nil
}
