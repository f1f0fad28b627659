package audiocodec

import (
	"github.com/dh1tw/opuscodec/audio"
)

// Params carries the configuration a codec is constructed with. All
// fields are optional at this level; each codec validates the fields it
// requires and fails construction with ErrInvalidParam when a required
// field is absent (zero).
type Params struct {
	SampleRate int
	Format     audio.SampleFormat
	Layout     audio.ChannelLayout

	// BitRate is the target bit rate in bit/s for encoders. Zero leaves
	// the codec default untouched.
	BitRate int

	// Level is a codec specific quality/effort level for encoders. Zero
	// means unset.
	Level int
}
