// SPDX-License-Identifier: EPL-2.0

// Command ecdc encodes speech into compact neural-codec token files and
// decodes them back to WAV.
//
// Usage:
//
//	ecdc [-config file.yaml] [-log-level level] <command> [flags] [args]
//
// Commands:
//
//	encode    audio file(s) to .ecdc
//	decode    .ecdc to mono 16-bit WAV
//	inspect   print the header and bandwidth of .ecdc files
//	truncate  drop quantizer rows from an .ecdc file
//	rewrite   apply a pronunciation lexicon to text
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/ecdc"
	"github.com/ik5/ecdc/internal/config"
	"github.com/ik5/ecdc/internal/observe"
	"github.com/ik5/ecdc/model"
	"github.com/ik5/ecdc/model/remote"
)

// errUsage marks bad invocations; they exit with status 2.
var errUsage = errors.New("usage error")

const usage = `usage: ecdc [-config file.yaml] [-log-level level] <command> [flags] [args]

commands:
  encode    [-q n | -kbps x] [-channel n] [-average] <in> <out.ecdc>
  encode    [-q n | -kbps x] [-channel n] [-average] [-workers n] -outdir dir <in>...
  decode    [-rounding truncate|nearest] <in.ecdc> <out.wav>
  inspect   <in.ecdc>...
  truncate  -q n | -kbps x <in.ecdc> <out.ecdc>
  rewrite   [-lexicon file.json] [-no-fallback] [text...]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := newApp().run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// openCodec loads the model named by the configuration.
	openCodec func(cfg *config.Config, logger *slog.Logger) (model.Codec, error)
	metrics   *observe.Metrics

	cfg    *config.Config
	logger *slog.Logger
}

func newApp() *app {
	return &app{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		openCodec: openCodec,
	}
}

// run executes one invocation and returns the process exit status.
func (a *app) run(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("ecdc", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() { fmt.Fprint(a.stderr, usage) }
	configPath := fs.String("config", "", "path to the YAML configuration file")
	logLevel := fs.String("log-level", "", "override logging.level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintf(a.stderr, "ecdc: %v\n", err)
		return 1
	}
	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Logging)
	slog.SetDefault(a.logger)

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "encode":
		err = a.encode(ctx, rest)
	case "decode":
		err = a.decode(ctx, rest)
	case "inspect":
		err = a.inspect(rest)
	case "truncate":
		err = a.truncate(rest)
	case "rewrite":
		err = a.rewrite(rest)
	default:
		fmt.Fprintf(a.stderr, "ecdc: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(a.stderr, "ecdc %s: %v\n", cmd, err)
		return 2
	default:
		a.logger.Error(cmd+" failed", "err", err, "kind", ecdc.Kind(err))
		return 1
	}
}

func loadConfig(path, level string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if level != "" {
		cfg.Logging.Level = config.LogLevel(level)
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.Slog()}
	if cfg.Format == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openCodec resolves the configured backend and loads it with the configured
// retry policy.
func openCodec(cfg *config.Config, logger *slog.Logger) (model.Codec, error) {
	reg := model.NewRegistry()
	reg.Register("remote", remote.Loader(cfg.Model.Timeout))

	logger.Info("loading model", "backend", cfg.Model.Backend, "endpoint", cfg.Model.Endpoint)

	return reg.Open(cfg.Model.Backend, cfg.Model.Endpoint, model.RetryPolicy{
		Attempts: cfg.Model.LoadAttempts,
		Backoff:  cfg.Model.LoadBackoff,
		Logger:   logger,
	})
}
