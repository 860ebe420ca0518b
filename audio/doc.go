// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample-level building blocks that prepare PCM
// for the neural codec.
//
// # Source Interface
//
// Everything that produces samples implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders under formats/ return a Source, and the stages below wrap one,
// so they can be chained.
//
// # Downmix
//
// The codec is mono. ChannelSelector keeps one channel verbatim and drops
// the rest; this is the default downmix and discards stereo information
// instead of merging it:
//
//	mono, err := audio.NewChannelSelector(src, 0)
//
// MonoMixer averages all channels instead.
//
// # Resampling
//
// Resampler converts a mono stream to the codec rate with cubic
// interpolation:
//
//	res, err := audio.NewResampler(mono, 24000)
//
// # Frame Alignment
//
// The codec consumes whole frames of a fixed hop. Align appends silence so
// the buffer length is a multiple of the hop:
//
//	samples, _ := audio.ReadAll(res, 4096)
//	samples = audio.Align(samples, 320) // 321 samples become 640
//
// # Format Registry
//
// The registry maps format keys or file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, ok := registry.ForPath("speech.WAV")
//
// # Sample Format
//
// Samples are float32, nominally in [-1.0, 1.0] with 0.0 as silence.
// Values outside the range are passed through untouched; clamping happens
// only when converting to 16-bit PCM (see utils.Float32ToInt16).
//
// # Error Handling
//
// ReadSamples returns io.EOF when the stream is finished, possibly together
// with the last samples:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // process buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
