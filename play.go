package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studiocheck/sfx"
	"studiocheck/shutdown"
)

var playCmd = &cobra.Command{
	Use:       "play <effect>...",
	Short:     "Play sound effects and wait for them to finish",
	Long:      "Plays each named effect in order. Effects: " + effectList() + ".",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: effectNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := shutdown.Context(cmd.Context())
		defer stop()
		return playEffects(ctx, engine, args)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func effectNames() []string {
	var names []string
	for _, fx := range sfx.Effects() {
		names = append(names, fx.String())
	}
	return names
}

func effectList() string { return strings.Join(effectNames(), ", ") }

func playEffects(ctx context.Context, eng *sfx.Engine, names []string) error {
	effects := make([]sfx.Effect, 0, len(names))
	for _, name := range names {
		fx, err := sfx.ParseEffect(name)
		if err != nil {
			return fmt.Errorf("%w (want one of: %s)", err, effectList())
		}
		effects = append(effects, fx)
	}

	for _, fx := range effects {
		eng.Play(fx)
		waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := eng.Wait(waitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("waiting for %s: %w", fx, err)
		}
	}
	return nil
}
