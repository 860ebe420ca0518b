// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/formats/aiff"
	"github.com/ik5/ecdc/formats/mp3"
	"github.com/ik5/ecdc/formats/vorbis"
	"github.com/ik5/ecdc/formats/wav"
)

// DefaultRegistry maps file extensions to every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}
