// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/internal/config"
	"github.com/ik5/ecdc/lexicon"
	"github.com/ik5/ecdc/pipeline"
	"github.com/ik5/ecdc/utils"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// bandwidthFlags registers -q and -kbps on fs.
func bandwidthFlags(fs *flag.FlagSet) (q *int, kbps *float64) {
	q = fs.Int("q", 0, "quantizer rows to keep")
	kbps = fs.Float64("kbps", 0, "target bandwidth in kbps (multiple of 0.75)")
	return q, kbps
}

func (a *app) encode(ctx context.Context, args []string) error {
	fs := a.flagSet("encode")
	q, kbps := bandwidthFlags(fs)
	channel := fs.Int("channel", -1, "input channel to keep (overrides codec.channel)")
	average := fs.Bool("average", false, "average all input channels")
	outDir := fs.String("outdir", "", "write <name>.ecdc for every input into this directory")
	workers := fs.Int("workers", -1, "concurrent encodes with -outdir (overrides workers)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg := *a.cfg
	if *q != 0 || *kbps != 0 {
		cfg.Codec.Quantizers, cfg.Codec.BandwidthKbps = *q, *kbps
	}
	if *channel >= 0 {
		cfg.Codec.Channel = *channel
	}
	if *average {
		cfg.Codec.Downmix = config.DownmixAverage
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if err := config.Validate(&cfg); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var jobs []pipeline.Job
	switch {
	case *outDir != "" && fs.NArg() > 0:
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return err
		}
		for _, in := range fs.Args() {
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			jobs = append(jobs, pipeline.Job{In: in, Out: filepath.Join(*outDir, base+".ecdc")})
		}
	case *outDir == "" && fs.NArg() == 2:
		jobs = []pipeline.Job{{In: fs.Arg(0), Out: fs.Arg(1)}}
	default:
		return fmt.Errorf("%w: want <in> <out.ecdc> or -outdir dir <in>...", errUsage)
	}

	p, err := a.pipeline(&cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := p.EncodeFiles(ctx, jobs, cfg.Workers); err != nil {
		return err
	}
	a.logger.Info("encode finished",
		"files", len(jobs),
		"quantizers", p.Quantizers(),
		"kbps", codec.Bandwidth(p.Quantizers()),
		"elapsed", time.Since(start),
	)

	return nil
}

func (a *app) decode(ctx context.Context, args []string) error {
	fs := a.flagSet("decode")
	rounding := fs.String("rounding", "", "truncate or nearest (overrides output.rounding)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: want <in.ecdc> <out.wav>", errUsage)
	}

	cfg := *a.cfg
	if *rounding != "" {
		cfg.Output.Rounding = config.Rounding(*rounding)
		if err := config.Validate(&cfg); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
	}

	p, err := a.pipeline(&cfg)
	if err != nil {
		return err
	}

	in, out := fs.Arg(0), fs.Arg(1)
	if err := p.DecodeFile(ctx, in, out); err != nil {
		return err
	}
	a.logger.Info("decoded", "in", in, "out", out)

	return nil
}

func (a *app) inspect(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: want <in.ecdc>...", errUsage)
	}

	for _, path := range args {
		g, err := container.ReadFile(path)
		if err != nil {
			return err
		}

		seconds := float64(g.Steps()*codec.FrameHop) / codec.SampleRate
		fmt.Fprintf(a.stdout, "%s: quantizers=%d steps=%d bandwidth=%.2fkbps duration=%.2fs max_token=%d\n",
			path, g.Quantizers(), g.Steps(), codec.Bandwidth(g.Quantizers()), seconds, g.Max())
	}

	return nil
}

func (a *app) truncate(args []string) error {
	fs := a.flagSet("truncate")
	q, kbps := bandwidthFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: want <in.ecdc> <out.ecdc>", errUsage)
	}

	target := *q
	switch {
	case *q != 0 && *kbps != 0:
		return fmt.Errorf("%w: -q and -kbps are mutually exclusive", errUsage)
	case *kbps != 0:
		n, err := codec.QuantizersForBandwidth(*kbps)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		target = n
	case *q == 0:
		return fmt.Errorf("%w: one of -q or -kbps is required", errUsage)
	}

	in, out := fs.Arg(0), fs.Arg(1)
	g, err := container.ReadFile(in)
	if err != nil {
		return err
	}

	low, err := codec.Truncate(g, target)
	if err != nil {
		return err
	}
	if err := container.WriteFile(out, low); err != nil {
		return err
	}
	a.logger.Info("truncated", "in", in, "out", out, "from", g.Quantizers(), "to", low.Quantizers())

	return nil
}

func (a *app) rewrite(args []string) error {
	fs := a.flagSet("rewrite")
	lexPath := fs.String("lexicon", "", "JSON object mapping spellings to replacements")
	noFallback := fs.Bool("no-fallback", false, "skip the built-in readings")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var lex lexicon.Lexicon
	if *lexPath != "" {
		var err error
		if lex, err = lexicon.LoadFile(*lexPath); err != nil {
			return err
		}
	}

	apply := lexicon.RewriteWithFallback
	if *noFallback {
		apply = lexicon.Rewrite
	}

	if fs.NArg() > 0 {
		_, err := fmt.Fprintln(a.stdout, apply(strings.Join(fs.Args(), " "), lex))
		return err
	}

	text, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	_, err = io.WriteString(a.stdout, apply(string(text), lex))

	return err
}

// pipeline opens the model and builds a pipeline configured by cfg.
func (a *app) pipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	n, err := cfg.Codec.TargetQuantizers()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	c, err := a.openCodec(cfg, a.logger)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithQuantizers(n),
		pipeline.WithChannel(cfg.Codec.Channel),
		pipeline.WithRounding(rounding(cfg.Output.Rounding)),
		pipeline.WithLogger(a.logger),
		pipeline.WithMetrics(a.metrics),
	}
	if cfg.Codec.Downmix == config.DownmixAverage {
		opts = append(opts, pipeline.WithAveragedDownmix())
	}

	return pipeline.New(c, opts...), nil
}

func rounding(r config.Rounding) utils.Rounding {
	if r == config.RoundNearest {
		return utils.RoundNearest
	}
	return utils.RoundTowardZero
}
