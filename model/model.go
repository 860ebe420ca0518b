// SPDX-License-Identifier: EPL-2.0

// Package model defines the boundary to the neural audio codec.
//
// The codec itself is a black box: it maps a mono sample buffer at its
// SampleRate to a token grid and back. Weights are loaded behind a Loader,
// so nothing in this module touches raw model data. A loaded Codec is
// treated as immutable and may be shared by concurrent pipelines.
//
// Handles are created explicitly with Open, which retries a failing Loader
// with exponential backoff:
//
//	c, err := model.Open(remote.Load, "http://localhost:8000", model.RetryPolicy{
//	    Attempts: 3,
//	    Backoff:  600 * time.Millisecond,
//	})
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ik5/ecdc/codec"
)

// ErrUpstream marks failures reported by the codec implementation.
var ErrUpstream = errors.New("upstream model failure")

// ErrUnknownBackend is returned by Registry.Open for unregistered names.
var ErrUnknownBackend = errors.New("unknown model backend")

// Codec is a loaded neural codec. Both calls are atomic: they either return
// a complete result or an error.
type Codec interface {
	// SampleRate the codec consumes and produces, in Hz.
	SampleRate() int
	// Encode maps mono samples (length a multiple of the frame hop) to tokens.
	Encode(samples []float32) (*codec.Grid, error)
	// Decode maps tokens back to mono samples.
	Decode(grid *codec.Grid) ([]float32, error)
}

// Loader opens a codec from a location such as a weights path or an URL.
type Loader func(location string) (Codec, error)

// RetryPolicy controls Open.
type RetryPolicy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int
	// Backoff is the wait after the first failure; it doubles after each
	// further failure.
	Backoff time.Duration
	// Logger receives one warning per failed attempt. Defaults to slog.Default().
	Logger *slog.Logger

	sleep func(time.Duration)
}

// Open calls load until it succeeds or the policy's attempts run out.
// The last error is returned wrapped in ErrUpstream.
func Open(load Loader, location string, policy RetryPolicy) (Codec, error) {
	attempts := max(policy.Attempts, 1)
	logger := policy.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := policy.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	backoff := policy.Backoff
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		c, err := load(location)
		if err == nil {
			if attempt > 1 {
				logger.Info("model loaded after retry", "location", location, "attempt", attempt)
			}
			return c, nil
		}

		lastErr = err
		logger.Warn("model load failed",
			"location", location,
			"attempt", attempt,
			"of", attempts,
			"err", err,
		)

		if attempt < attempts && backoff > 0 {
			sleep(backoff)
			backoff *= 2
		}
	}

	if errors.Is(lastErr, ErrUpstream) {
		return nil, fmt.Errorf("loading model from %s: %w", location, lastErr)
	}

	return nil, fmt.Errorf("%w: loading model from %s: %w", ErrUpstream, location, lastErr)
}

// Registry maps backend names to loaders.
type Registry struct {
	loaders map[string]Loader

	mtx sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
	}
}

func (r *Registry) Register(name string, load Loader) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.loaders[name] = load
}

func (r *Registry) Get(name string) (Loader, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	l, ok := r.loaders[name]
	return l, ok
}

// Backends lists registered backend names in sorted order.
func (r *Registry) Backends() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Open resolves backend and opens location with policy.
func (r *Registry) Open(backend, location string, policy RetryPolicy) (Codec, error) {
	load, ok := r.Get(backend)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownBackend, backend, r.Backends())
	}

	return Open(load, location, policy)
}
