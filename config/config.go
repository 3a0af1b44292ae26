// Package config loads studiocheck settings from config.yaml, STUDIOCHECK_*
// environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName   = "studiocheck"
	envPrefix = "STUDIOCHECK"
	fileName  = "config.yaml"
)

// Keys shared by the file, the environment and flag bindings.
const (
	KeyVolume     = "volume"
	KeyMute       = "mute"
	KeyDevice     = "device"
	KeyLogPath    = "log_path"
	KeySampleRate = "sample_rate"
)

type Config struct {
	Volume     float64 `mapstructure:"volume"`
	Mute       bool    `mapstructure:"mute"`
	Device     string  `mapstructure:"device"`      // playback device name or ID, empty for default
	LogPath    string  `mapstructure:"log_path"`    // diagnostics directory override
	SampleRate int     `mapstructure:"sample_rate"` // Hz
}

func Defaults() Config {
	return Config{
		Volume:     1,
		SampleRate: 44100,
	}
}

func (c Config) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("volume %g: must be between 0 and 1", c.Volume)
	}
	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		return fmt.Errorf("sample_rate %d: must be between 8000 and 192000", c.SampleRate)
	}
	return nil
}

// DefaultPath returns <user config dir>/studiocheck/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(dir, appName, fileName)
}

// New returns a viper instance with defaults and environment binding set up.
// Callers bind flags on it before Load.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyVolume, d.Volume)
	v.SetDefault(KeyMute, d.Mute)
	v.SetDefault(KeyDevice, d.Device)
	v.SetDefault(KeyLogPath, d.LogPath)
	v.SetDefault(KeySampleRate, d.SampleRate)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path (or the default location when empty) into v and decodes
// the result. A missing file is not an error; a malformed one is.
func Load(v *viper.Viper, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// SaveDevice persists the chosen playback device to path, keeping the other
// keys already in the file.
func SaveDevice(path, device string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	v.Set(KeyDevice, device)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
