package cmd

import (
	"github.com/jsphweid/auxloop/config"
	"github.com/spf13/cobra"
)

var (
	fadeIO  ioFlags
	fadeCfg struct {
		direction     string
		maxSteps      int
		mask          []int
		onFirst, omit bool
		force, noMM   bool
	}
)

func init() {
	rootCmd.AddCommand(fadeCmd)
	fadeIO.register(fadeCmd)
	fl := fadeCmd.Flags()
	fl.StringVar(&fadeCfg.direction, "type", "out", "in or out")
	fl.IntVar(&fadeCfg.maxSteps, "max-steps", 1, "largest number of logical ties changed at once")
	fl.IntSliceVar(&fadeCfg.mask, "mask", nil, "starting mask, one 0 or 1 per logical tie")
	fl.BoolVar(&fadeCfg.onFirst, "fade-on-first-call", false, "change the mask before the first window")
	fl.BoolVar(&fadeCfg.omit, "omit-time-signatures", false, "drop all time signatures")
	fl.BoolVar(&fadeCfg.force, "force-time-signature", false, "repeat the time signature on every window")
	fl.BoolVar(&fadeCfg.noMM, "no-multimeasure-rests", false, "write empty measures as plain rests")
}

var fadeCmd = &cobra.Command{
	Use:   "fade",
	Short: "Fades the input in or out one logical tie at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := fadeIO.request(cmd)
		if err != nil {
			return err
		}
		out, err := runFade(fadeConfig(cmd), req)
		if err != nil {
			return err
		}
		return fadeIO.emit(cmd, out)
	},
}

func fadeConfig(cmd *cobra.Command) config.Fade {
	c := preset.Fade
	fl := cmd.Flags()
	if fl.Changed("type") || c.Type == "" {
		c.Type = fadeCfg.direction
	}
	if fl.Changed("max-steps") {
		c.MaxSteps = fadeCfg.maxSteps
	}
	if fl.Changed("mask") {
		c.Mask = fadeCfg.mask
	}
	if fl.Changed("fade-on-first-call") {
		c.FadeOnFirstCall = fadeCfg.onFirst
	}
	if fl.Changed("omit-time-signatures") {
		c.OmitTimeSignatures = fadeCfg.omit
	}
	if fl.Changed("force-time-signature") {
		c.ForceTimeSignature = fadeCfg.force
	}
	if fl.Changed("no-multimeasure-rests") {
		use := !fadeCfg.noMM
		c.UseMultimeasureRests = &use
	}
	return c
}
