// SPDX-License-Identifier: EPL-2.0

package remote

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/model"
)

// fakeServer mimics the codec server: /encode returns a 2-quantizer grid
// with one step per 320 samples, /decode returns 320 samples per step.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"sample_rate": 24000}`)
	})
	mux.HandleFunc("POST /encode", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		samples, err := decodeFloats(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		steps := len(samples) / codec.FrameHop
		g, _ := codec.NewGrid(2, steps)
		for s := range steps {
			g.Set(0, s, uint32(s))
			g.Set(1, s, uint32(1023-s))
		}
		_ = container.Encode(w, g)
	})
	mux.HandleFunc("POST /decode", func(w http.ResponseWriter, r *http.Request) {
		g, err := container.Decode(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out := make([]float32, g.Steps()*codec.FrameHop)
		for i := range out {
			out[i] = 0.25
		}
		_, _ = w.Write(encodeFloats(out))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestNew_ReadsSampleRate(t *testing.T) {
	t.Parallel()

	srv := fakeServer(t)

	c, err := New(Config{Endpoint: srv.URL + "/", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.SampleRate() != 24000 {
		t.Errorf("SampleRate() = %d, want 24000", c.SampleRate())
	}
}

func TestNew_BadEndpoint(t *testing.T) {
	t.Parallel()

	for _, endpoint := range []string{"", "localhost:8000", "ftp://example.com", "://"} {
		if _, err := New(Config{Endpoint: endpoint}); !errors.Is(err, ErrBadEndpoint) {
			t.Errorf("New(%q) error = %v, want ErrBadEndpoint", endpoint, err)
		}
	}
}

func TestNew_BadInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"not json", "ok"},
		{"zero rate", `{"sample_rate": 0}`},
		{"missing rate", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			if _, err := New(Config{Endpoint: srv.URL}); !errors.Is(err, ErrBadResponse) {
				t.Errorf("New() error = %v, want ErrBadResponse", err)
			}
		})
	}
}

func TestNew_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "weights still loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(Config{Endpoint: srv.URL})
	if err == nil {
		t.Fatal("New() succeeded against a failing server")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "weights still loading") {
		t.Errorf("New() error = %q, want status and body", err)
	}
}

func TestClient_EncodeDecode(t *testing.T) {
	t.Parallel()

	srv := fakeServer(t)
	c, err := New(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	g, err := c.Encode(make([]float32, 3*codec.FrameHop))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if g.Quantizers() != 2 || g.Steps() != 3 {
		t.Fatalf("Encode() grid = %v, want 2x3", g)
	}
	if got := g.Row(1); !slices.Equal(got, []uint32{1023, 1022, 1021}) {
		t.Errorf("Encode() row 1 = %v", got)
	}

	samples, err := c.Decode(g)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(samples) != 3*codec.FrameHop {
		t.Fatalf("len(Decode()) = %d, want %d", len(samples), 3*codec.FrameHop)
	}
	if samples[0] != 0.25 || samples[len(samples)-1] != 0.25 {
		t.Errorf("Decode() samples = %v..., want 0.25", samples[:4])
	}
}

func TestClient_DecodeRejectsPartialFloat(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"sample_rate": 24000}`)
	})
	mux.HandleFunc("POST /decode", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte{1, 2, 3, 4, 5})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	g, _ := codec.NewGrid(1, 1)
	if _, err := c.Decode(g); !errors.Is(err, ErrBadResponse) {
		t.Errorf("Decode() error = %v, want ErrBadResponse", err)
	}
}

func TestClient_EncodeRejectsShortContainer(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"sample_rate": 24000}`)
	})
	mux.HandleFunc("POST /encode", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte{2, 0, 0})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(Config{Endpoint: srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.Encode(make([]float32, codec.FrameHop))
	if !errors.Is(err, ErrBadResponse) || !errors.Is(err, container.ErrShortInput) {
		t.Errorf("Encode() error = %v, want ErrBadResponse wrapping ErrShortInput", err)
	}
}

func TestLoader_WithOpen(t *testing.T) {
	t.Parallel()

	srv := fakeServer(t)

	c, err := model.Open(Loader(time.Second), srv.URL, model.RetryPolicy{Attempts: 1})
	if err != nil {
		t.Fatalf("model.Open() error = %v", err)
	}
	if c.SampleRate() != codec.SampleRate {
		t.Errorf("SampleRate() = %d", c.SampleRate())
	}

	_, err = model.Open(Load, "http://127.0.0.1:1", model.RetryPolicy{Attempts: 1})
	if !errors.Is(err, model.ErrUpstream) {
		t.Errorf("model.Open(unreachable) error = %v, want ErrUpstream", err)
	}
}
