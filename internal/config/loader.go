// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of Default and validates it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r on top of Default and validates it.
// Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem in cfg joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Model.Backend == "" {
		errs = append(errs, errors.New("model.backend is required"))
	}
	if cfg.Model.Timeout < 0 {
		errs = append(errs, fmt.Errorf("model.timeout %v is negative", cfg.Model.Timeout))
	}
	if cfg.Model.LoadAttempts < 1 {
		errs = append(errs, fmt.Errorf("model.load_attempts %d must be at least 1", cfg.Model.LoadAttempts))
	}
	if cfg.Model.LoadBackoff < 0 {
		errs = append(errs, fmt.Errorf("model.load_backoff %v is negative", cfg.Model.LoadBackoff))
	}

	if cfg.Codec.Quantizers < 0 {
		errs = append(errs, fmt.Errorf("codec.quantizers %d is negative", cfg.Codec.Quantizers))
	}
	if cfg.Codec.BandwidthKbps != 0 && cfg.Codec.Quantizers != 0 {
		errs = append(errs, errors.New("codec.quantizers and codec.bandwidth_kbps are mutually exclusive"))
	}
	if _, err := cfg.Codec.TargetQuantizers(); err != nil {
		errs = append(errs, fmt.Errorf("codec: %w", err))
	}
	if cfg.Codec.Channel < 0 {
		errs = append(errs, fmt.Errorf("codec.channel %d is negative", cfg.Codec.Channel))
	}
	if cfg.Codec.Downmix != "" && !cfg.Codec.Downmix.IsValid() {
		errs = append(errs, fmt.Errorf("codec.downmix %q is invalid; valid values: first, average", cfg.Codec.Downmix))
	}

	if cfg.Output.Rounding != "" && !cfg.Output.Rounding.IsValid() {
		errs = append(errs, fmt.Errorf("output.rounding %q is invalid; valid values: truncate, nearest", cfg.Output.Rounding))
	}

	if cfg.Logging.Level != "" && !cfg.Logging.Level.IsValid() {
		errs = append(errs, fmt.Errorf("logging.level %q is invalid; valid values: debug, info, warn, error", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "" && !cfg.Logging.Format.IsValid() {
		errs = append(errs, fmt.Errorf("logging.format %q is invalid; valid values: text, json", cfg.Logging.Format))
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d is negative", cfg.Workers))
	}

	return errors.Join(errs...)
}
