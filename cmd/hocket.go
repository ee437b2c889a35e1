package cmd

import (
	"github.com/jsphweid/auxloop/config"
	"github.com/spf13/cobra"
)

var (
	hocketIO  ioFlags
	hocketCfg struct {
		voices, k int
		weights   []float64
		distinct  bool
	}
)

func init() {
	rootCmd.AddCommand(hocketCmd)
	hocketIO.register(hocketCmd)
	fl := hocketCmd.Flags()
	fl.IntVar(&hocketCfg.voices, "voices", 2, "number of voices")
	fl.IntVarP(&hocketCfg.k, "k", "k", 1, "voices each logical tie is drawn into")
	fl.Float64SliceVar(&hocketCfg.weights, "weights", nil, "one weight per voice")
	fl.BoolVar(&hocketCfg.distinct, "distinct", false, "draw k different voices for every logical tie")
}

var hocketCmd = &cobra.Command{
	Use:   "hocket",
	Short: "Splits the input between several voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := hocketIO.request(cmd)
		if err != nil {
			return err
		}
		out, err := runHocket(hocketConfig(cmd), req)
		if err != nil {
			return err
		}
		return hocketIO.emit(cmd, out)
	},
}

func hocketConfig(cmd *cobra.Command) config.Hocket {
	c := preset.Hocket
	fl := cmd.Flags()
	if fl.Changed("voices") {
		c.NVoices = hocketCfg.voices
	}
	if fl.Changed("k") {
		c.K = hocketCfg.k
	}
	if fl.Changed("weights") {
		c.Weights = hocketCfg.weights
	}
	if fl.Changed("distinct") {
		c.ForceKDistinctVoices = hocketCfg.distinct
	}
	return c
}
