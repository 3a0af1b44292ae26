package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"studiocheck/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List playback devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		actx, err := audio.NewContext()
		if err != nil {
			return fmt.Errorf("initializing audio: %w", err)
		}
		defer actx.Close()
		return listDevices(cmd.OutOrStdout(), actx, cfg.Device)
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func listDevices(w io.Writer, actx audio.Context, selected string) error {
	devices, err := actx.Devices()
	if err != nil {
		return fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "no playback devices reported; the system default will be used")
		return nil
	}

	current, _ := audio.FindDevice(actx, selected)
	for _, d := range devices {
		mark := " "
		if current != nil && current.ID == d.ID {
			mark = "*"
		}
		note := ""
		if audio.IsBluetooth(d.Name) {
			note = " (BT!)"
		}
		fmt.Fprintf(w, "%s %s%s\t%s\n", mark, d.Name, note, d.ID)
	}
	return nil
}
