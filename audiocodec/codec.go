// Package audiocodec defines the interfaces and supporting types through
// which the audio pipeline talks to audio codecs. Codecs are push/pull
// pumps: input is handed over with Send, produced output is drained with
// Receive until ErrAgain signals that more input is needed.
package audiocodec

import (
	"github.com/dh1tw/opuscodec/audio"
)

// CodecID identifies a codec implementation in the registry.
type CodecID string

// Opus is the only codec shipped with this module.
const Opus CodecID = "opus"

// Codec is the part of the contract shared by encoders and decoders.
//
// Codec instances are not internally synchronized. Concurrent calls on the
// same instance must be serialized by the caller; the intended model is
// one instance per worker.
type Codec interface {
	Name() string
	// SetOption updates a single string-keyed option. Unknown keys fail
	// with ErrUnsupported.
	SetOption(key string, value interface{}) error
	Flush() error
	// Close releases the underlying codec resources. It is safe to call
	// Close more than once.
	Close() error
}

// Decoder turns encoded packets into raw PCM frames. One Send may enqueue
// zero, one or several frames; callers must drain Receive until ErrAgain
// before sending further input.
type Decoder interface {
	Codec
	Send(*audio.Packet) error
	Receive() (*audio.Frame, error)
	// ReceiveBorrowed returns a frame which stays owned by the decoder.
	// Codecs which cannot offer zero-copy output fail with ErrUnsupported.
	ReceiveBorrowed() (*audio.Frame, error)
}

// Encoder turns raw PCM frames into encoded packets, with the same
// Send/Receive pump contract as the Decoder.
type Encoder interface {
	Codec
	Send(*audio.Frame) error
	Receive() (*audio.Packet, error)
}
