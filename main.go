package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"studiocheck/audio"
	"studiocheck/checklist"
	"studiocheck/config"
	"studiocheck/log"
	"studiocheck/sfx"
)

var version = "dev"

var (
	cfg        config.Config
	vcfg       = config.New()
	configPath string
	logPath    string
	setup      bool

	// Set up by the root PersistentPreRunE for every command.
	engine *sfx.Engine
	host   *checklist.Host
)

var rootCmd = &cobra.Command{
	Use:   "studiocheck",
	Short: "Studio rack pre-flight checklist with synthesized switch sounds",
	Long: `studiocheck shows four toggle buttons (CAMERA, SCREEN, AUDIO, MIDI), a ready
meter and a READY lamp. Every toggle plays a synthesized mechanical click and
completing the checklist fires a solenoid chime. No audio files are used.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setupSession,
	PersistentPostRun: func(*cobra.Command, []string) { endSession() },
	RunE:              runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	pf.StringVar(&logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir, - for stderr)")
	pf.Float64("volume", 1, "master volume between 0 and 1")
	pf.Bool("mute", false, "disable sound effects")
	pf.String("device", "", "playback device name or ID (default: system default)")
	pf.Int("sample-rate", sfx.DefaultSampleRate, "synthesis sample rate in Hz")

	mustBind(config.KeyVolume, "volume")
	mustBind(config.KeyMute, "mute")
	mustBind(config.KeyDevice, "device")
	mustBind(config.KeySampleRate, "sample-rate")

	rootCmd.Flags().BoolVar(&setup, "setup", false, "pick the playback device interactively and save it")
}

func mustBind(key, flag string) {
	if err := vcfg.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func setupSession(*cobra.Command, []string) error {
	var err error
	cfg, err = config.Load(vcfg, configPath)
	if err != nil {
		return err
	}

	if logPath == "" {
		logPath = cfg.LogPath
	}
	if err := initLogging(logPath); err != nil {
		return err
	}

	engine = sfx.Configure(
		sfx.WithDevice(cfg.Device),
		sfx.WithVolume(cfg.Volume),
		sfx.WithSampleRate(cfg.SampleRate),
	)
	if cfg.Mute {
		engine.Disable()
	}
	host = checklist.NewHost(engine)

	log.SessionStart(cfg.Device, cfg.SampleRate, cfg.Volume, cfg.Mute)
	return nil
}

// initLogging points diagnostics at the resolved log directory, or at
// stderr when path is "-".
func initLogging(path string) error {
	if path == "-" {
		log.InitWriter(os.Stderr)
		return nil
	}
	dir, err := log.ResolveDir(path)
	if err != nil {
		return fmt.Errorf("resolving log directory: %w", err)
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog()
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	return nil
}

func endSession() {
	if host != nil {
		log.SessionEnd(host.Stats())
	}
	if engine != nil {
		engine.Close()
	}
	log.Close()
}

func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

// pickDevice runs the raw-mode picker and saves the choice to the config
// file. It returns the chosen device name, or "" when cancelled.
func pickDevice() (string, error) {
	actx, err := audio.NewContext()
	if err != nil {
		return "", fmt.Errorf("initializing audio: %w", err)
	}
	defer actx.Close()

	dev, err := audio.SelectDevice(actx)
	if errors.Is(err, audio.ErrPickerCancelled) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if dev == nil {
		return "", nil
	}
	if err := config.SaveDevice(configPath, dev.Name); err != nil {
		return "", err
	}
	log.Info("device saved: " + dev.Name)
	return dev.Name, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
