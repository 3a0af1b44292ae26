package main

import (
	"os"

	"github.com/spf13/cobra"

	"studiocheck/doctor"
	"studiocheck/shutdown"
)

var doctorYes bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run audio diagnostics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := shutdown.Context(cmd.Context())
		defer stop()
		code := doctor.Run(ctx, doctor.Options{
			Out:        cmd.OutOrStdout(),
			In:         os.Stdin,
			Device:     cfg.Device,
			SampleRate: cfg.SampleRate,
			Volume:     &cfg.Volume,
			Confirm:    !doctorYes,
		})
		if code != 0 {
			endSession()
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVarP(&doctorYes, "yes", "y", false, "skip the did-you-hear-it prompt")
	rootCmd.AddCommand(doctorCmd)
}
