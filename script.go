package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studiocheck/checklist"
	"studiocheck/log"
	"studiocheck/sfx"
	"studiocheck/shutdown"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Drive the checklist headlessly from stdin",
	Long: `Reads one command per line from stdin:

  TOGGLE <item>   toggle CAMERA, SCREEN, AUDIO or MIDI
  PRESS <1-4>     toggle by panel position
  RESET           clear every button silently
  STATUS          print the button states and ready percentage
  WAIT            block until every sound has finished
  SLEEP <ms>      pause
  QUIT            exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := shutdown.Context(cmd.Context())
		defer stop()
		return runScript(ctx, os.Stdin, cmd.OutOrStdout(), host, engine)
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

// runScript executes commands until QUIT, EOF or ctx is done. Bad lines are
// reported and skipped. eng may be nil.
func runScript(ctx context.Context, in io.Reader, out io.Writer, h *checklist.Host, eng *sfx.Engine) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("reading script: %w", err)
					}
				default:
				}
				return nil
			}
			line = l
		}

		done, err := execLine(ctx, line, out, h, eng)
		if err != nil {
			fmt.Fprintf(out, "ERR %v\n", err)
			log.Warnf("script: %v", err)
		}
		if done {
			return nil
		}
	}
}

func execLine(ctx context.Context, line string, out io.Writer, h *checklist.Host, eng *sfx.Engine) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}
	cmd := strings.ToUpper(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "TOGGLE", "PRESS":
		if arg == "" {
			return false, fmt.Errorf("%s needs an argument", cmd)
		}
		if cmd == "PRESS" {
			if _, err := strconv.Atoi(arg); err != nil {
				return false, fmt.Errorf("PRESS wants a position 1-%d, got %q", checklist.NumItems, arg)
			}
		}
		it, err := checklist.ParseItem(arg)
		if err != nil {
			return false, err
		}
		tr := h.Toggle(it)
		fmt.Fprintf(out, "%s %s ready=%d%%\n", it, tr.Direction, h.ReadyPercent())
		if tr.BecameReady {
			fmt.Fprintln(out, "READY")
		}
	case "RESET":
		h.Reset()
		fmt.Fprintln(out, "RESET")
	case "STATUS":
		fmt.Fprintf(out, "%s ready=%d%%\n", h, h.ReadyPercent())
	case "WAIT":
		if eng != nil {
			if err := eng.Wait(ctx); err != nil {
				return true, nil
			}
		}
	case "SLEEP":
		ms, err := strconv.Atoi(arg)
		if err != nil || ms < 0 {
			return false, fmt.Errorf("SLEEP wants milliseconds, got %q", arg)
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return true, nil
		}
	case "QUIT":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return false, nil
}
