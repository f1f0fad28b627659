package opus

import (
	"github.com/dh1tw/opuscodec/audio"
)

// nativeDecoder is the narrow capability surface of one native decoder
// handle. It is owned by exactly one Decoder, which guarantees a single
// destroy on all exit paths. Negative return values are native status
// codes; strerror renders them.
type nativeDecoder interface {
	// decode decodes data into pcm, which must provide room for
	// maxSamples samples per channel of the given format. fec asserts
	// the native FEC-mode flag for recovery decodes. Returns the number
	// of decoded samples per channel, or a negative status code.
	decode(data, pcm []byte, maxSamples int, format audio.SampleFormat, fec bool) int

	// ctl issues a generic control call.
	ctl(request, value int) int

	// packetSamples returns the sample count (per channel, at the
	// decoder's rate) a packet's header declares, or a negative status
	// code.
	packetSamples(data []byte) int

	destroy()
}

// nativeEncoder is the capability surface of one native encoder handle.
type nativeEncoder interface {
	// encode encodes frameSize samples per channel from pcm into out and
	// returns the number of bytes written, or a negative status code.
	encode(pcm []byte, frameSize int, format audio.SampleFormat, out []byte) int

	ctl(request, value int) int

	destroy()
}

// Constructor and error-rendering hooks. They default to the libopus
// bindings in api.go; tests substitute scripted fakes.
var (
	newNativeDecoder = newLibopusDecoder
	newNativeEncoder = newLibopusEncoder
	strerror         = opusStrerror
)
