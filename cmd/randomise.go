package cmd

import (
	"github.com/jsphweid/auxloop/config"
	"github.com/spf13/cobra"
)

var (
	randomiseIO  ioFlags
	randomiseCfg struct {
		pitches string
		weights []float64
		tenney  bool
		carto   bool
		decay   float64
		skip    bool
	}
)

func init() {
	rootCmd.AddCommand(randomiseCmd)
	randomiseIO.register(randomiseCmd)
	fl := randomiseCmd.Flags()
	fl.StringVarP(&randomiseCfg.pitches, "pitches", "p", "", "pitch pool in LilyPond, for example \"c' d' e' g'\"")
	fl.Float64SliceVar(&randomiseCfg.weights, "weights", nil, "one weight per pitch")
	fl.BoolVar(&randomiseCfg.tenney, "tenney", false, "favour pitches that have not been heard for a while")
	fl.BoolVar(&randomiseCfg.carto, "cartography", false, "favour the pitches at the front of the pool")
	fl.Float64Var(&randomiseCfg.decay, "decay-rate", 0.75, "weight ratio between neighbouring pitches with --cartography")
	fl.BoolVar(&randomiseCfg.skip, "keep-first", false, "return the input unchanged on the first call")
}

var randomiseCmd = &cobra.Command{
	Use:     "randomise",
	Aliases: []string{"randomize"},
	Short:   "Rewrites the pitches of the input from a pitch pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := randomiseIO.request(cmd)
		if err != nil {
			return err
		}
		out, err := runRandomise(randomiseConfig(cmd), req)
		if err != nil {
			return err
		}
		return randomiseIO.emit(cmd, out)
	},
}

func randomiseConfig(cmd *cobra.Command) config.Randomise {
	c := preset.Randomise
	fl := cmd.Flags()
	if fl.Changed("pitches") {
		c.Pitches = randomiseCfg.pitches
	}
	if fl.Changed("weights") {
		c.Weights = randomiseCfg.weights
	}
	if fl.Changed("tenney") {
		c.UseTenney = randomiseCfg.tenney
	}
	if fl.Changed("cartography") {
		c.UseCartography = randomiseCfg.carto
	}
	if fl.Changed("decay-rate") {
		c.DecayRate = randomiseCfg.decay
	}
	if fl.Changed("keep-first") {
		first := !randomiseCfg.skip
		c.ProcessOnFirstCall = &first
	}
	return c
}
