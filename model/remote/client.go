// SPDX-License-Identifier: EPL-2.0

// Package remote talks to a neural codec served over HTTP.
//
// The server exposes three endpoints below a base URL:
//
//	GET  /info    -> {"sample_rate": 24000}
//	POST /encode  body: float32 little-endian mono samples
//	              resp: .ecdc container bytes
//	POST /decode  body: .ecdc container bytes
//	              resp: float32 little-endian mono samples
//
// Load probes /info, so a server that is still starting up fails Load and
// can be retried with model.Open.
package remote

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/model"
)

const (
	contentType    = "application/octet-stream"
	defaultTimeout = 2 * time.Minute
	// maxErrorBody caps how much of a failed response is quoted in errors.
	maxErrorBody = 512
)

var (
	ErrBadEndpoint = errors.New("invalid codec endpoint")
	ErrBadResponse = errors.New("malformed codec response")
)

// Config for a Client.
type Config struct {
	Endpoint string
	// Timeout bounds each request. Defaults to two minutes.
	Timeout time.Duration
	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Client is a model.Codec backed by a remote server. It is safe for
// concurrent use.
type Client struct {
	base       *url.URL
	timeout    time.Duration
	httpClient *http.Client
	sampleRate int
}

type info struct {
	SampleRate int `json:"sample_rate"`
}

// New connects to cfg.Endpoint and reads the server's sample rate.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadEndpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q needs an http or https scheme", ErrBadEndpoint, cfg.Endpoint)
	}

	c := &Client{
		base:       base,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}

	body, err := c.do(http.MethodGet, "info", nil)
	if err != nil {
		return nil, err
	}

	var in info
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("%w: info: %w", ErrBadResponse, err)
	}
	if in.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: info reports sample rate %d", ErrBadResponse, in.SampleRate)
	}
	c.sampleRate = in.SampleRate

	return c, nil
}

// Load is a model.Loader for an endpoint URL with default settings.
func Load(location string) (model.Codec, error) {
	return New(Config{Endpoint: location})
}

// Loader returns a model.Loader that applies timeout to every request.
func Loader(timeout time.Duration) model.Loader {
	return func(location string) (model.Codec, error) {
		return New(Config{Endpoint: location, Timeout: timeout})
	}
}

func (c *Client) SampleRate() int { return c.sampleRate }

func (c *Client) Encode(samples []float32) (*codec.Grid, error) {
	body, err := c.do(http.MethodPost, "encode", encodeFloats(samples))
	if err != nil {
		return nil, err
	}

	g, err := container.Unmarshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrBadResponse, err)
	}

	return g, nil
}

func (c *Client) Decode(grid *codec.Grid) ([]float32, error) {
	payload, err := container.Marshal(grid)
	if err != nil {
		return nil, err
	}

	body, err := c.do(http.MethodPost, "decode", payload)
	if err != nil {
		return nil, err
	}

	samples, err := decodeFloats(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrBadResponse, err)
	}

	return samples, nil
}

func (c *Client) do(method, endpoint string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(endpoint).String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadEndpoint, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading response: %w", method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data[:min(len(data), maxErrorBody)]))
		return nil, fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, msg)
	}

	return data, nil
}

func encodeFloats(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return buf
}

func decodeFloats(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%d bytes is not a whole number of float32 samples", len(data))
	}

	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return samples, nil
}
