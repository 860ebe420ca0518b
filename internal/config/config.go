// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the ecdc command.
package config

import (
	"log/slog"
	"time"

	"github.com/ik5/ecdc/codec"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Slog maps the level to slog. Unknown values map to info.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

func (f LogFormat) IsValid() bool {
	return f == FormatText || f == FormatJSON
}

// Rounding names how decoded floats become 16-bit samples.
type Rounding string

const (
	RoundTruncate Rounding = "truncate"
	RoundNearest  Rounding = "nearest"
)

func (r Rounding) IsValid() bool {
	return r == RoundTruncate || r == RoundNearest
}

// Downmix names how multichannel input becomes mono.
type Downmix string

const (
	// DownmixFirst keeps channel Codec.Channel and drops the rest.
	DownmixFirst Downmix = "first"
	// DownmixAverage averages all channels.
	DownmixAverage Downmix = "average"
)

func (d Downmix) IsValid() bool {
	return d == DownmixFirst || d == DownmixAverage
}

// Config is the root of the YAML file.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Codec   CodecConfig   `yaml:"codec"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	// Workers bounds concurrent encodes in batch mode. Zero means one per CPU.
	Workers int `yaml:"workers"`
}

// ModelConfig selects and loads the neural codec.
type ModelConfig struct {
	// Backend is a registered model backend name, e.g. "remote".
	Backend string `yaml:"backend"`
	// Endpoint is the backend location: a URL for "remote".
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds one model request.
	Timeout time.Duration `yaml:"timeout"`
	// LoadAttempts is how many times loading is tried before giving up.
	LoadAttempts int `yaml:"load_attempts"`
	// LoadBackoff is the first wait between load attempts; it doubles.
	LoadBackoff time.Duration `yaml:"load_backoff"`
}

// CodecConfig holds encode settings. Quantizers and BandwidthKbps are
// alternatives; setting both is an error. With neither set,
// codec.DefaultQuantizers is used.
type CodecConfig struct {
	Quantizers    int     `yaml:"quantizers"`
	BandwidthKbps float64 `yaml:"bandwidth_kbps"`
	Channel       int     `yaml:"channel"`
	Downmix       Downmix `yaml:"downmix"`
}

// TargetQuantizers resolves Quantizers or BandwidthKbps to a quantizer count.
func (c CodecConfig) TargetQuantizers() (int, error) {
	if c.BandwidthKbps != 0 {
		return codec.QuantizersForBandwidth(c.BandwidthKbps)
	}
	if c.Quantizers == 0 {
		return codec.DefaultQuantizers, nil
	}
	return c.Quantizers, nil
}

type OutputConfig struct {
	Rounding Rounding `yaml:"rounding"`
}

type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Backend:      "remote",
			Endpoint:     "http://127.0.0.1:8000",
			Timeout:      2 * time.Minute,
			LoadAttempts: 3,
			LoadBackoff:  600 * time.Millisecond,
		},
		Codec: CodecConfig{
			Downmix: DownmixFirst,
		},
		Output: OutputConfig{
			Rounding: RoundTruncate,
		},
		Logging: LoggingConfig{
			Level:  LogInfo,
			Format: FormatText,
		},
	}
}
