package cmd

import (
	"github.com/jsphweid/auxloop/config"
	"github.com/spf13/cobra"
)

var (
	loopIO  ioFlags
	loopCfg struct {
		mode, window, step                     string
		maxSteps, maxDots                      int
		repetition, forward                    float64
		first, fill, force, omit, noMeter, tie bool
	}
)

func init() {
	rootCmd.AddCommand(loopCmd)
	loopIO.register(loopCmd)
	fl := loopCmd.Flags()
	fl.StringVar(&loopCfg.mode, "mode", "window", "window, element or list")
	fl.StringVar(&loopCfg.window, "window", "", "window size: a meter such as 3/4, or a count for element and list modes")
	fl.StringVar(&loopCfg.step, "step", "", "step size: a duration such as 1/16, or a count")
	fl.IntVar(&loopCfg.maxSteps, "max-steps", 1, "largest number of steps taken at once")
	fl.Float64Var(&loopCfg.repetition, "repetition-chance", 0, "chance of repeating a window")
	fl.Float64Var(&loopCfg.forward, "forward-bias", 1, "chance of stepping forward")
	fl.BoolVar(&loopCfg.first, "process-on-first-call", false, "move before the first window")
	fl.BoolVar(&loopCfg.fill, "fill-with-rests", true, "pad windows running past the end")
	fl.BoolVar(&loopCfg.force, "force-time-signatures", false, "repeat the time signature on every window")
	fl.BoolVar(&loopCfg.omit, "omit-time-signatures", false, "drop all time signatures")
	fl.BoolVar(&loopCfg.noMeter, "disable-rewrite-meter", false, "keep the notation of cut windows as it is")
	fl.IntVar(&loopCfg.maxDots, "max-dots", 0, "largest number of dots when rewriting meter, 0 for any")
	fl.BoolVar(&loopCfg.tie, "tie-identical", false, "tie identical pitches across windows")
}

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Loops a window over the input",
	Long: `Loops a window over the input. In window mode the window is a duration
and leaves are cut where needed; in element mode it is a number of logical
ties; in list mode the input is a list of whitespace separated items.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loopIO.request(cmd)
		if err != nil {
			return err
		}
		out, err := runLoop(loopConfig(cmd), req)
		if err != nil {
			return err
		}
		return loopIO.emit(cmd, out)
	},
}

// loopConfig lays the flags that were set over the preset.
func loopConfig(cmd *cobra.Command) config.Loop {
	c := preset.Loop
	fl := cmd.Flags()
	if fl.Changed("mode") || c.Mode == "" {
		c.Mode = loopCfg.mode
	}
	if fl.Changed("window") {
		c.Window = loopCfg.window
	}
	if fl.Changed("step") {
		c.Step = loopCfg.step
	}
	if fl.Changed("max-steps") {
		c.Head.MaxSteps = loopCfg.maxSteps
	}
	if fl.Changed("repetition-chance") {
		c.Head.RepetitionChance = loopCfg.repetition
	}
	if fl.Changed("forward-bias") {
		c.Head.ForwardBias = &loopCfg.forward
	}
	if fl.Changed("process-on-first-call") {
		c.Head.ProcessOnFirstCall = loopCfg.first
	}
	if fl.Changed("fill-with-rests") {
		c.FillWithRests = &loopCfg.fill
	}
	if fl.Changed("force-time-signatures") {
		c.ForceTimeSignatures = loopCfg.force
	}
	if fl.Changed("omit-time-signatures") {
		c.OmitTimeSignatures = loopCfg.omit
	}
	if fl.Changed("disable-rewrite-meter") {
		c.DisableRewriteMeter = loopCfg.noMeter
	}
	if fl.Changed("max-dots") {
		c.MaximumDotCount = loopCfg.maxDots
	}
	if fl.Changed("tie-identical") {
		c.TieIdenticalPitches = loopCfg.tie
	}
	return c
}
