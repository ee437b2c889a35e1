package cmd

import (
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jsphweid/auxloop/config"
	"github.com/jsphweid/auxloop/constants"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	seed       int64
	configPath string
	preset     config.File
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "auxloop",
	Short: "Loops, fades, hockets and randomises music",
	Long: `auxloop transforms passages written in LilyPond notation: it loops
windows over them, fades them in and out, splits them between voices and
rewrites their pitches.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		if configPath == "" {
			return nil
		}
		f, err := config.Load(configPath)
		if err != nil {
			return err
		}
		preset = f
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (default from the config, AUXLOOP_SEED or the clock)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML preset file")
}

// newRand picks the first seed given by the flag, the preset or the
// environment, and falls back to the clock.
func newRand(cmd *cobra.Command) *rand.Rand {
	if cmd != nil && cmd.Flags().Changed("seed") {
		return rand.New(rand.NewSource(seed))
	}
	if preset.Seed != nil {
		return rand.New(rand.NewSource(*preset.Seed))
	}
	if s, ok := constants.GetSeed(); ok {
		return rand.New(rand.NewSource(s))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
