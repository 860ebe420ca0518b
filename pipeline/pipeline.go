// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs complete encode and decode invocations around a
// loaded codec.
//
// Encode: input file → decoded audio → one channel → 24 kHz → padded to whole
// frames → codec → first N quantizers → .ecdc container.
//
// Decode: .ecdc container → token grid → codec → 16-bit PCM → mono WAV.
//
// Outputs are built completely in memory and then written atomically, so a
// failed invocation never leaves a partial file behind. Stages run strictly
// in order and the first failure ends the invocation. A Pipeline holds no
// per-call state and may run many invocations concurrently; they share only
// the read-only codec.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ik5/ecdc"
	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/formats/wav"
	"github.com/ik5/ecdc/internal/atomicfile"
	"github.com/ik5/ecdc/internal/observe"
	"github.com/ik5/ecdc/model"
	"github.com/ik5/ecdc/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrUnsupportedFormat is returned when no decoder is registered for an
// input file's extension.
var ErrUnsupportedFormat = errors.New("unsupported input format")

const (
	opEncode = "encode"
	opDecode = "decode"

	outputPerm = 0o644
)

type Pipeline struct {
	codec      model.Codec
	quantizers int
	rounding   utils.Rounding
	channel    int
	average    bool
	logger     *slog.Logger
	metrics    *observe.Metrics
	registry   *audio.Registry
}

// New returns a pipeline around c. Without options it keeps
// codec.DefaultQuantizers rows, keeps channel 0, truncates on quantization,
// logs to slog.Default and records to observe.DefaultMetrics.
func New(c model.Codec, opts ...Option) *Pipeline {
	p := &Pipeline{
		codec:      c,
		quantizers: codec.DefaultQuantizers,
		rounding:   utils.RoundTowardZero,
		logger:     slog.Default(),
		metrics:    observe.DefaultMetrics(),
		registry:   DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Quantizers returns the number of quantizer rows kept on encode.
func (p *Pipeline) Quantizers() int { return p.quantizers }

// EncodeSamples encodes mono samples at the codec's sample rate.
func (p *Pipeline) EncodeSamples(ctx context.Context, samples []float32) (data []byte, err error) {
	defer p.track(ctx, opEncode, time.Now(), &err)

	return p.encodeSamples(ctx, samples)
}

// EncodeSource drains src, reduces it to mono at the codec's sample rate and
// encodes it. src is not closed.
func (p *Pipeline) EncodeSource(ctx context.Context, src audio.Source) (data []byte, err error) {
	defer p.track(ctx, opEncode, time.Now(), &err)

	return p.encodeSource(ctx, src)
}

// EncodeFile encodes the audio file in and atomically writes the container
// to out. The input decoder is chosen by file extension.
func (p *Pipeline) EncodeFile(ctx context.Context, in, out string) (err error) {
	defer p.track(ctx, opEncode, time.Now(), &err)

	return p.encodeFile(ctx, in, out)
}

// DecodeContainer parses data and returns 16-bit PCM at the codec's sample
// rate. Frame padding added on encode is kept.
func (p *Pipeline) DecodeContainer(ctx context.Context, data []byte) (pcm []int16, err error) {
	defer p.track(ctx, opDecode, time.Now(), &err)

	return p.decodeContainer(ctx, data)
}

// DecodeToWAV is DecodeContainer followed by a mono 16-bit WAV encode.
func (p *Pipeline) DecodeToWAV(ctx context.Context, data []byte) (out []byte, err error) {
	defer p.track(ctx, opDecode, time.Now(), &err)

	return p.decodeToWAV(ctx, data)
}

// DecodeFile decodes the container in and atomically writes a WAV to out.
func (p *Pipeline) DecodeFile(ctx context.Context, in, out string) (err error) {
	defer p.track(ctx, opDecode, time.Now(), &err)

	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ecdc.ErrIO, in, err)
	}
	p.logger.Debug("container read", "path", in, "bytes", len(data))

	wavData, err := p.decodeToWAV(ctx, data)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	return p.write(out, wavData)
}

func (p *Pipeline) encodeFile(ctx context.Context, in, out string) error {
	dec, ok := p.registry.ForPath(in)
	if !ok {
		return fmt.Errorf("%w: %s (known: %v)", ErrUnsupportedFormat, in, p.registry.Formats())
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", ecdc.ErrIO, in, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", in, err)
	}
	defer src.Close()

	p.logger.Debug("input opened",
		"path", in,
		"sample_rate", src.SampleRate(),
		"channels", src.Channels(),
	)

	data, err := p.encodeSource(ctx, src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	return p.write(out, data)
}

func (p *Pipeline) encodeSource(ctx context.Context, src audio.Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rate := p.codec.SampleRate()

	var (
		samples []float32
		err     error
	)
	if p.average {
		samples, err = ecdc.LoadSamplesMixed(src, rate)
	} else {
		samples, err = ecdc.LoadSamples(src, p.channel, rate)
	}
	if err != nil {
		return nil, fmt.Errorf("loading samples: %w", err)
	}

	p.logger.Debug("samples loaded",
		"samples", len(samples),
		"sample_rate", rate,
		"from_rate", src.SampleRate(),
		"averaged", p.average,
	)

	return p.encodeSamples(ctx, samples)
}

func (p *Pipeline) encodeSamples(ctx context.Context, samples []float32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	g, err := ecdc.EncodeGrid(p.codec, samples, p.quantizers)
	p.metrics.RecordModel(ctx, opEncode, time.Since(start))
	if err != nil {
		return nil, err
	}

	data, err := container.Marshal(g)
	if err != nil {
		return nil, err
	}

	p.metrics.Tokens.Add(ctx, int64(g.Len()))
	p.metrics.RecordContainer(ctx, opEncode, len(data))
	p.logger.Debug("tokens encoded",
		"samples", len(samples),
		"padding", audio.Padding(len(samples), codec.FrameHop),
		"grid", g.String(),
		"kbps", codec.Bandwidth(g.Quantizers()),
		"bytes", len(data),
	)

	return data, nil
}

func (p *Pipeline) decodeContainer(ctx context.Context, data []byte) ([]int16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := ecdc.DecodeFromContainer(data)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordContainer(ctx, opDecode, len(data))
	p.logger.Debug("container parsed", "grid", g.String(), "kbps", codec.Bandwidth(g.Quantizers()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	samples, err := ecdc.DecodeGrid(p.codec, g)
	p.metrics.RecordModel(ctx, opDecode, time.Since(start))
	if err != nil {
		return nil, err
	}

	pcm := make([]int16, len(samples))
	utils.QuantizeInto(pcm, samples, p.rounding)
	p.logger.Debug("waveform quantized", "samples", len(pcm), "rounding", p.rounding.String())

	return pcm, nil
}

func (p *Pipeline) decodeToWAV(ctx context.Context, data []byte) ([]byte, error) {
	pcm, err := p.decodeContainer(ctx, data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(44 + 2*len(pcm))
	if err := wav.WriteWAV16(&buf, p.codec.SampleRate(), pcm); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (p *Pipeline) write(path string, data []byte) error {
	if err := atomicfile.WriteFile(path, data, outputPerm); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ecdc.ErrIO, path, err)
	}
	p.logger.Debug("output written", "path", path, "bytes", len(data))

	return nil
}

// track records the duration and outcome of one public call.
func (p *Pipeline) track(ctx context.Context, op string, start time.Time, errp *error) {
	elapsed := time.Since(start).Seconds()
	attrs := metric.WithAttributes(attribute.String("status", status(*errp)))

	switch op {
	case opEncode:
		p.metrics.EncodeDuration.Record(ctx, elapsed, attrs)
	case opDecode:
		p.metrics.DecodeDuration.Record(ctx, elapsed, attrs)
	}

	if *errp != nil {
		p.metrics.RecordError(ctx, op, ecdc.Kind(*errp))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
