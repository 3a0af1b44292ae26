package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const (
	appName  = "studiocheck"
	envPath  = "STUDIOCHECK_LOG_PATH"
	diagName = "diagnostics_log.txt"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: --logpath flag (or log_path from the config file)
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: STUDIOCHECK_LOG_PATH environment variable
	if p := os.Getenv(envPath); p != "" {
		return absolute(p)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	var err error
	diagFile, err = os.OpenFile(filepath.Join(dir, diagName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	initLogger(diagFile)
	return nil
}

// InitWriter logs to w instead of a file. Used when --logpath is "-".
func InitWriter(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	initLogger(w)
}

func initLogger(w io.Writer) {
	pid = os.Getpid()
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()
	logReady = true
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(device string, sampleRate int, volume float64, muted bool) {
	if !logReady {
		return
	}
	if device == "" {
		device = "default"
	}
	diagLog.Info().
		Str("device", device).
		Int("sample_rate", sampleRate).
		Float64("volume", volume).
		Bool("muted", muted).
		Msg("session_start")
}

// AudioUnavailable records that playback could not be opened. Effects are
// silent for the rest of the session.
func AudioUnavailable(err error) {
	if !logReady {
		return
	}
	diagLog.Warn().Err(err).Msg("audio_unavailable")
}

func Effect(name string, voices int, at float64) {
	if !logReady {
		return
	}
	diagLog.Debug().
		Str("effect", name).
		Int("voices", voices).
		Float64("at_s", at).
		Msg("effect")
}

func Toggle(item string, engaged bool, readyPct int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("item", item).
		Bool("engaged", engaged).
		Int("ready_pct", readyPct).
		Msg("toggle")
}

func Ready(count int) {
	if !logReady {
		return
	}
	diagLog.Info().Int("count", count).Msg("ready")
}

func SessionEnd(toggles, readies int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("toggles", toggles).
		Int("readies", readies).
		Msg("session_end")
}
