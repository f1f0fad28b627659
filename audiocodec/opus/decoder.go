package opus

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
)

const decoderName = "opus-dec"

// Decoder adapts one native Opus decoder handle to the audiocodec.Decoder
// contract. Decoded frames are queued until the caller pops them with
// Receive; an empty queue yields audiocodec.ErrAgain.
//
// The decoder tracks two flags for packet loss handling: fec enables
// recovery decoding from the redundant data embedded in the packet that
// follows a loss, packetLost marks the previous packet as lost. Both are
// set through options ("fec", "packet_loss"); the decoder clears
// packetLost itself after a recovery attempt. An empty input packet does
// not set the flag implicitly, signalling loss is the caller's job.
type Decoder struct {
	name    string
	params  *audiocodec.Params
	pool    *audio.Pool
	native  nativeDecoder
	pending audiocodec.Queue[*audio.Frame]

	fec        bool
	packetLost bool
	closed     bool
}

// NewDecoder constructs an Opus decoder. The parameters must carry a
// sample rate and a channel layout; the sample format is read per decode
// call, so it may change between calls.
func NewDecoder(id audiocodec.CodecID, params *audiocodec.Params, opts audiocodec.Options) (*Decoder, error) {
	if id != audiocodec.Opus {
		return nil, fmt.Errorf("%w: codec id %q", audiocodec.ErrUnsupported, id)
	}
	if params == nil || params.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: no sample rate", audiocodec.ErrInvalidParam)
	}
	if params.Layout.Count() < 1 {
		return nil, fmt.Errorf("%w: no channel layout", audiocodec.ErrInvalidParam)
	}

	native, err := newNativeDecoder(params.SampleRate, params.Layout.Count())
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		name:   decoderName,
		params: params,
		native: native,
	}

	for _, key := range []string{"fec", "packet_loss", "gain"} {
		if !opts.Has(key) {
			continue
		}
		if err := d.SetOption(key, opts[key]); err != nil {
			native.destroy()
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"codec":      d.name,
		"samplerate": params.SampleRate,
		"channels":   params.Layout.Count(),
	}).Debug("created opus decoder")

	return d, nil
}

// Name returns the name of the audio codec.
func (d *Decoder) Name() string {
	return d.name
}

// SetPool makes the decoder draw its output frame buffers from the given
// shared pool instead of allocating fresh ones.
func (d *Decoder) SetPool(p *audio.Pool) {
	d.pool = p
}

func (d *Decoder) newFrame(desc audio.FrameDescriptor) *audio.Frame {
	if d.pool != nil {
		return d.pool.NewFrame(desc)
	}
	return audio.NewFrame(desc)
}

// decodeOne runs a single native decode into a fresh frame and queues it.
// samples is the requested sample count per channel; the frame is
// truncated to the count the engine actually produced.
func (d *Decoder) decodeOne(data []byte, desc audio.FrameDescriptor, samples int, fec bool) error {
	frame := d.newFrame(desc)
	if !frame.Writable() {
		frame.Release()
		return fmt.Errorf("%w: decode output frame", audiocodec.ErrNotWritable)
	}

	ret := d.native.decode(data, frame.PlaneBuffer(0), samples, desc.Format, fec)
	if ret < 0 {
		frame.Release()
		return fmt.Errorf("%w: %s", audiocodec.ErrDecodeFailed, strerror(ret))
	}
	if err := frame.Truncate(ret); err != nil {
		frame.Release()
		return fmt.Errorf("%w: %v", audiocodec.ErrDecodeFailed, err)
	}

	d.pending.Push(frame)
	return nil
}

// Send decodes one packet. A packet following a signalled loss first
// yields a recovery frame reconstructed from the packet's redundant data
// (when fec is enabled), then the packet's own frame. An empty packet
// produces no output. A failure never discards frames already queued,
// including a recovery frame queued earlier in the same call.
func (d *Decoder) Send(packet *audio.Packet) error {
	desc, err := decodeDescriptor(d.params)
	if err != nil {
		return err
	}

	if d.fec && d.packetLost && len(packet.Data) > 0 {
		lost := d.native.packetSamples(packet.Data)
		if lost < 0 {
			return fmt.Errorf("%w: %s", audiocodec.ErrDecodeFailed, strerror(lost))
		}
		if lost > desc.MaxSamples {
			lost = desc.MaxSamples
		}
		if err := d.decodeOne(packet.Data, desc, lost, true); err != nil {
			return err
		}
		d.packetLost = false
	}

	if len(packet.Data) == 0 {
		return nil
	}

	return d.decodeOne(packet.Data, desc, desc.MaxSamples, false)
}

// Receive pops the oldest decoded frame. It returns audiocodec.ErrAgain
// when no frame is available yet; feed more input.
func (d *Decoder) Receive() (*audio.Frame, error) {
	frame, ok := d.pending.Pop()
	if !ok {
		return nil, fmt.Errorf("%w: no frame available", audiocodec.ErrAgain)
	}
	return frame, nil
}

// ReceiveBorrowed is not offered by this codec; output frames are always
// transferred to the caller.
func (d *Decoder) ReceiveBorrowed() (*audio.Frame, error) {
	return nil, fmt.Errorf("%w: borrowed frames", audiocodec.ErrUnsupported)
}

// SetOption updates a single decoder option. "gain" issues the native
// gain control call; "packet_loss" and "fec" only update the decoder's
// own loss bookkeeping, the native engine is not involved in the
// recovery decision.
func (d *Decoder) SetOption(key string, value interface{}) error {
	v, err := ctlValue(value)
	if err != nil {
		return err
	}

	switch key {
	case "gain":
		if ret := d.native.ctl(ctlSetGain, v); ret != opusOK {
			return fmt.Errorf("%w: %s", audiocodec.ErrSetFailed, strerror(ret))
		}
		return nil
	case "packet_loss":
		d.packetLost = v != 0
		return nil
	case "fec":
		d.fec = v != 0
		return nil
	}
	return fmt.Errorf("%w: unknown option %q", audiocodec.ErrUnsupported, key)
}

// Flush resets the native decoder's internal history. Queued frames and
// the loss/fec flags stay untouched.
func (d *Decoder) Flush() error {
	if ret := d.native.ctl(ctlResetState, 0); ret != opusOK {
		return fmt.Errorf("%w: %s", audiocodec.ErrSetFailed, strerror(ret))
	}
	return nil
}

// Close releases the native decoder handle. Close is idempotent.
func (d *Decoder) Close() error {
	if !d.closed {
		d.native.destroy()
		d.closed = true
	}
	return nil
}
