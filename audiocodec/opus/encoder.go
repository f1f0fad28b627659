package opus

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
)

const encoderName = "opus-enc"

// Encoder adapts one native Opus encoder handle to the audiocodec.Encoder
// contract. An input frame is split into consecutive chunks of exactly
// one codec frame; a short final chunk is padded with silence through the
// scratch buffer. Each chunk becomes one queued packet.
type Encoder struct {
	name    string
	params  *audiocodec.Params
	pool    *audio.Pool
	native  nativeEncoder
	pending audiocodec.Queue[*audio.Packet]

	opts    codecOptions
	scratch []byte
	closed  bool
}

// NewEncoder constructs an Opus encoder. All configuration is validated
// before the native handle is allocated, so a rejected configuration
// leaks nothing.
//
// The frame duration must be one of the nine durations the Opus format
// allows (2.5, 5, 10, 20, 40, 60, 80, 100 and 120 ms). The 2.5 and 5 ms
// durations only exist in the low-delay mode, which therefore overrides
// the requested application.
func NewEncoder(id audiocodec.CodecID, params *audiocodec.Params, opts audiocodec.Options) (*Encoder, error) {
	if id != audiocodec.Opus {
		return nil, fmt.Errorf("%w: codec id %q", audiocodec.ErrUnsupported, id)
	}

	o, err := optionsFromMap(opts)
	if err != nil {
		return nil, err
	}

	if params == nil {
		return nil, fmt.Errorf("%w: no codec parameters", audiocodec.ErrInvalidParam)
	}
	switch params.Format {
	case audio.FormatS16, audio.FormatF32:
	case audio.FormatUnknown:
		return nil, fmt.Errorf("%w: no sample format", audiocodec.ErrInvalidParam)
	default:
		return nil, fmt.Errorf("%w: sample format %v", audiocodec.ErrUnsupported, params.Format)
	}
	if params.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: no sample rate", audiocodec.ErrInvalidParam)
	}
	channels := params.Layout.Count()
	if channels < 1 {
		return nil, fmt.Errorf("%w: no channel layout", audiocodec.ErrInvalidParam)
	}

	// The legal frame durations map onto these sample counts at the
	// canonical 48 kHz rate.
	frameSize48 := frameSamples(48000, o.frameDuration)
	switch frameSize48 {
	case 120, 240: // 2.5 ms, 5 ms
		o.application = AppRestrictedLowdelay
	case 480, 960, 1920, 2880, 3840, 4800, 5760:
	default:
		return nil, fmt.Errorf("%w: frame duration %v ms", audiocodec.ErrInvalidParam, o.frameDuration)
	}
	o.frameSize = frameSize48 * params.SampleRate / 48000

	native, err := newNativeEncoder(params.SampleRate, channels, o.application)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		name:    encoderName,
		params:  params,
		native:  native,
		opts:    o,
		scratch: make([]byte, o.frameSize*channels*params.Format.BytesPerSample()),
	}

	if params.BitRate > 0 {
		if err := e.ctl(ctlSetBitrate, params.BitRate); err != nil {
			native.destroy()
			return nil, err
		}
	}
	if params.Level != 0 {
		if params.Level >= 0 && params.Level <= 10 {
			e.opts.complexity = params.Level
		} else {
			e.opts.complexity = 10
		}
	}

	if err := e.updateOptions(); err != nil {
		native.destroy()
		return nil, err
	}

	log.WithFields(log.Fields{
		"codec":       e.name,
		"samplerate":  params.SampleRate,
		"channels":    channels,
		"application": e.opts.application,
		"frame_size":  e.opts.frameSize,
	}).Debug("created opus encoder")

	return e, nil
}

// Name returns the name of the audio codec.
func (e *Encoder) Name() string {
	return e.name
}

// SetPool makes the encoder draw its output packet buffers from the
// given shared pool instead of allocating fresh ones.
func (e *Encoder) SetPool(p *audio.Pool) {
	e.pool = p
}

func (e *Encoder) ctl(request, value int) error {
	if ret := e.native.ctl(request, value); ret != opusOK {
		return fmt.Errorf("%w: %s", audiocodec.ErrSetFailed, strerror(ret))
	}
	return nil
}

// updateOptions pushes the full cached option set to the native handle.
func (e *Encoder) updateOptions() error {
	vbr := 0
	if e.opts.vbr > 0 {
		vbr = 1
	}
	if err := e.ctl(ctlSetVBR, vbr); err != nil {
		return err
	}

	constrained := 0
	if e.opts.vbr == 2 {
		constrained = 1
	}
	if err := e.ctl(ctlSetVBRConstraint, constrained); err != nil {
		return err
	}

	if err := e.ctl(ctlSetPacketLossPerc, e.opts.packetLoss); err != nil {
		return err
	}

	fec := 0
	if e.opts.fec {
		fec = 1
	}
	if err := e.ctl(ctlSetInbandFEC, fec); err != nil {
		return err
	}

	if e.opts.complexity > 0 {
		if err := e.ctl(ctlSetComplexity, e.opts.complexity); err != nil {
			return err
		}
	}

	if e.opts.maxBandwidth > 0 {
		if err := e.ctl(ctlSetMaxBandwidth, e.opts.maxBandwidth); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) newPacket(size int) *audio.Packet {
	if e.pool != nil {
		return e.pool.NewPacket(size)
	}
	return audio.NewPacket(size)
}

// Send encodes one frame. The frame's samples are consumed in chunks of
// exactly one codec frame; every chunk yields one packet in the pending
// queue. The first packet carries the frame's pts (0 when absent), each
// further packet the running sum of the preceding durations. Durations
// are expressed in the frame's time-base, or in 1/sample_rate when the
// frame carries none.
func (e *Encoder) Send(frame *audio.Frame) error {
	format := frame.Desc.Format
	switch format {
	case audio.FormatS16, audio.FormatF32:
	default:
		return fmt.Errorf("%w: sample format %v", audiocodec.ErrUnsupported, format)
	}
	if frame.PlaneBuffer(0) == nil {
		return fmt.Errorf("%w: input frame", audiocodec.ErrNotReadable)
	}

	channels := frame.Desc.Layout.Count()
	sampleBytes := channels * format.BytesPerSample()
	chunkSize := e.opts.frameSize * sampleBytes
	if len(e.scratch) != chunkSize {
		e.scratch = make([]byte, chunkSize)
	}
	// Stale samples from an earlier call must not leak into a padded
	// tail chunk.
	for i := range e.scratch {
		e.scratch[i] = 0
	}

	sampleRate := int64(frame.Desc.SampleRate)
	samples := int64(e.opts.frameSize)
	var timeBase audio.Rational
	var duration int64
	if !frame.TimeBase.IsZero() {
		timeBase = frame.TimeBase
		duration = audio.NewRational(samples, sampleRate).Div(timeBase).Int()
	} else {
		timeBase = audio.NewRational(1, sampleRate)
		duration = samples
	}

	data := frame.Plane(0)
	pts := frame.PTS

	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[off:end]

		pcm := chunk
		if len(chunk) < chunkSize {
			copy(e.scratch, chunk)
			pcm = e.scratch
		}

		packet := e.newPacket(maxPacketBytes)
		if !packet.Writable() {
			packet.Release()
			return fmt.Errorf("%w: encode output packet", audiocodec.ErrNotWritable)
		}

		ret := e.native.encode(pcm, e.opts.frameSize, format, packet.Data)
		if ret < 0 {
			packet.Release()
			return fmt.Errorf("%w: %s", audiocodec.ErrEncodeFailed, strerror(ret))
		}

		packet.PTS = pts
		packet.Duration = duration
		packet.TimeBase = timeBase
		pts += duration

		if err := packet.Truncate(ret); err != nil {
			packet.Release()
			return fmt.Errorf("%w: %v", audiocodec.ErrEncodeFailed, err)
		}

		e.pending.Push(packet)
	}

	return nil
}

// Receive pops the oldest encoded packet. It returns audiocodec.ErrAgain
// when no packet is available yet; feed more input.
func (e *Encoder) Receive() (*audio.Packet, error) {
	packet, ok := e.pending.Pop()
	if !ok {
		return nil, fmt.Errorf("%w: no packet available", audiocodec.ErrAgain)
	}
	return packet, nil
}

// SetOption updates a single encoder option. Each recognized key updates
// the cached option state and issues the matching native control call in
// one step. The cached state is not rolled back when the native call
// fails.
func (e *Encoder) SetOption(key string, value interface{}) error {
	v, err := ctlValue(value)
	if err != nil {
		return err
	}

	switch key {
	case "bit_rate":
		return e.ctl(ctlSetBitrate, v)
	case "packet_loss_percent":
		e.opts.packetLoss = v
		return e.ctl(ctlSetPacketLossPerc, v)
	case "fec":
		e.opts.fec = v != 0
		return e.ctl(ctlSetInbandFEC, v)
	case "vbr":
		e.opts.vbr = v
		return e.ctl(ctlSetVBR, v)
	case "max_bandwidth":
		e.opts.maxBandwidth = v
		return e.ctl(ctlSetMaxBandwidth, v)
	case "complexity":
		e.opts.complexity = v
		return e.ctl(ctlSetComplexity, v)
	}
	return fmt.Errorf("%w: unknown option %q", audiocodec.ErrUnsupported, key)
}

// Flush re-zeroes the scratch buffer. The native bit-rate history and the
// pending queue stay untouched.
func (e *Encoder) Flush() error {
	for i := range e.scratch {
		e.scratch[i] = 0
	}
	return nil
}

// Close releases the native encoder handle. Close is idempotent.
func (e *Encoder) Close() error {
	if !e.closed {
		e.native.destroy()
		e.closed = true
	}
	return nil
}
