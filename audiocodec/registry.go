package audiocodec

import (
	"fmt"
	"sync"
)

// DecoderFactory constructs a decoder for the given codec id.
type DecoderFactory func(id CodecID, params *Params, opts Options) (Decoder, error)

// EncoderFactory constructs an encoder for the given codec id.
type EncoderFactory func(id CodecID, params *Params, opts Options) (Encoder, error)

// Registry maps codec ids to their factories. Codecs do not register
// themselves on package load; the host application registers the codecs
// it wants at startup (e.g. opus.Register(registry)).
type Registry struct {
	sync.RWMutex
	decoders map[CodecID]DecoderFactory
	encoders map[CodecID]EncoderFactory
}

// NewRegistry returns an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[CodecID]DecoderFactory),
		encoders: make(map[CodecID]EncoderFactory),
	}
}

// RegisterDecoder makes a decoder factory available under the given id.
// A later registration for the same id replaces the earlier one.
func (r *Registry) RegisterDecoder(id CodecID, f DecoderFactory) {
	r.Lock()
	defer r.Unlock()
	r.decoders[id] = f
}

// RegisterEncoder makes an encoder factory available under the given id.
func (r *Registry) RegisterEncoder(id CodecID, f EncoderFactory) {
	r.Lock()
	defer r.Unlock()
	r.encoders[id] = f
}

// NewDecoder constructs a decoder for the given codec id.
func (r *Registry) NewDecoder(id CodecID, params *Params, opts Options) (Decoder, error) {
	r.RLock()
	f, ok := r.decoders[id]
	r.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no decoder registered for codec %q", ErrUnsupported, id)
	}
	return f(id, params, opts)
}

// NewEncoder constructs an encoder for the given codec id.
func (r *Registry) NewEncoder(id CodecID, params *Params, opts Options) (Encoder, error) {
	r.RLock()
	f, ok := r.encoders[id]
	r.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no encoder registered for codec %q", ErrUnsupported, id)
	}
	return f(id, params, opts)
}
