package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"studiocheck/encoder"
	"studiocheck/log"
	"studiocheck/sfx"
)

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Render every effect to <dir>/<effect>.flac",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := exportEffects(args[0], cfg.SampleRate)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func exportEffects(dir string, sampleRate int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var paths []string
	for _, fx := range sfx.Effects() {
		path := filepath.Join(dir, fx.String()+".flac")
		if err := exportEffect(path, fx, sampleRate); err != nil {
			return paths, err
		}
		log.Info("exported " + path)
		paths = append(paths, path)
	}
	return paths, nil
}

func exportEffect(path string, fx sfx.Effect, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := encoder.WriteFlac(f, sfx.RenderEffect(fx, sampleRate), sampleRate); err != nil {
		f.Close()
		return fmt.Errorf("exporting %s: %w", fx, err)
	}
	return f.Close()
}
