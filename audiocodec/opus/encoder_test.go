package opus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
)

func encoderParams(sampleRate int) *audiocodec.Params {
	return &audiocodec.Params{
		SampleRate: sampleRate,
		Format:     audio.FormatS16,
		Layout:     audio.LayoutMono,
	}
}

// pcmFrame builds a mono s16 frame holding the given number of samples,
// every byte set to fill.
func pcmFrame(sampleRate, samples int, fill byte) *audio.Frame {
	f := audio.NewFrame(audio.FrameDescriptor{
		Format:     audio.FormatS16,
		SampleRate: sampleRate,
		Layout:     audio.LayoutMono,
		MaxSamples: samples,
		Samples:    samples,
	})
	buf := f.PlaneBuffer(0)
	for i := range buf {
		buf[i] = fill
	}
	return f
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestNewEncoderRejectsForeignCodec(t *testing.T) {
	stubNative(t, nil, nil)

	_, err := NewEncoder("vorbis", encoderParams(48000), nil)
	assert.ErrorIs(t, err, audiocodec.ErrUnsupported)
}

func TestNewEncoderValidatesParams(t *testing.T) {
	stubNative(t, nil, nil)

	_, err := NewEncoder(audiocodec.Opus, nil, nil)
	assert.ErrorIs(t, err, audiocodec.ErrInvalidParam)

	p := encoderParams(48000)
	p.Format = audio.FormatUnknown
	_, err = NewEncoder(audiocodec.Opus, p, nil)
	assert.ErrorIs(t, err, audiocodec.ErrInvalidParam)

	p = encoderParams(48000)
	p.Format = audio.FormatS32
	_, err = NewEncoder(audiocodec.Opus, p, nil)
	assert.ErrorIs(t, err, audiocodec.ErrUnsupported)

	p = encoderParams(0)
	_, err = NewEncoder(audiocodec.Opus, p, nil)
	assert.ErrorIs(t, err, audiocodec.ErrInvalidParam)

	p = encoderParams(48000)
	p.Layout = audio.ChannelLayout{}
	_, err = NewEncoder(audiocodec.Opus, p, nil)
	assert.ErrorIs(t, err, audiocodec.ErrInvalidParam)
}

// An illegal frame duration must fail before the native handle is
// allocated; stubNative fails the test on any construction attempt.
func TestNewEncoderRejectsIllegalFrameDuration(t *testing.T) {
	stubNative(t, nil, nil)

	for _, ms := range []float64{0, 1, 15, 25, 50, 130} {
		_, err := NewEncoder(audiocodec.Opus, encoderParams(48000),
			audiocodec.Options{"frame_duration": ms})
		assert.ErrorIs(t, err, audiocodec.ErrInvalidParam, "duration %v ms", ms)
	}
}

func TestNewEncoderForcesLowdelayForShortFrames(t *testing.T) {
	for _, ms := range []float64{2.5, 5} {
		fake := &fakeNativeEncoder{}
		stubNative(t, nil, fake)

		e, err := NewEncoder(audiocodec.Opus, encoderParams(48000),
			audiocodec.Options{"application": "audio", "frame_duration": ms})
		require.NoError(t, err)

		assert.Equal(t, AppRestrictedLowdelay, fake.application, "duration %v ms", ms)
		e.Close()
	}
}

func TestNewEncoderScalesFrameSizeToRate(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(16000),
		audiocodec.Options{"frame_duration": 20})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, 320, e.opts.frameSize)
	assert.Len(t, e.scratch, 640) // mono s16
}

func TestNewEncoderCtlSequenceDefaults(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []ctlCall{
		{request: ctlSetVBR, value: 1},
		{request: ctlSetVBRConstraint, value: 0},
		{request: ctlSetPacketLossPerc, value: 0},
		{request: ctlSetInbandFEC, value: 0},
		{request: ctlSetComplexity, value: 10},
	}, fake.ctls)
	assert.Equal(t, AppAudio, fake.application)
}

func TestNewEncoderCtlSequenceConfigured(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	params := encoderParams(48000)
	params.BitRate = 64000
	params.Level = 5

	e, err := NewEncoder(audiocodec.Opus, params, audiocodec.Options{
		"application":   "voip",
		"vbr":           "constrained",
		"fec":           true,
		"packet_loss":   20,
		"max_bandwidth": "wideband",
	})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, []ctlCall{
		{request: ctlSetBitrate, value: 64000},
		{request: ctlSetVBR, value: 1},
		{request: ctlSetVBRConstraint, value: 1},
		{request: ctlSetPacketLossPerc, value: 20},
		{request: ctlSetInbandFEC, value: 1},
		{request: ctlSetComplexity, value: 5},
		{request: ctlSetMaxBandwidth, value: Wideband},
	}, fake.ctls)
	assert.Equal(t, AppVoIP, fake.application)
}

func TestNewEncoderDestroysHandleWhenCtlFails(t *testing.T) {
	fake := &fakeNativeEncoder{
		ctlFn: func(ctlCall) int { return -1 },
	}
	stubNative(t, nil, fake)

	_, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	assert.ErrorIs(t, err, audiocodec.ErrSetFailed)
	assert.Equal(t, 1, fake.destroyed)
}

func TestEncodeOneSecondYieldsFiftyPackets(t *testing.T) {
	fake := &fakeNativeEncoder{
		encodeFn: func(encodeCall, []byte) int { return 120 },
	}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 48000, 0x7f)
	defer frame.Release()
	require.NoError(t, e.Send(frame))

	require.Len(t, fake.encodes, 50)
	for _, call := range fake.encodes {
		assert.Equal(t, 960, call.frameSize)
		assert.Len(t, call.pcm, 1920)
	}

	for i := 0; i < 50; i++ {
		packet, err := e.Receive()
		require.NoError(t, err)
		assert.Equal(t, int64(i)*960, packet.PTS)
		assert.Equal(t, int64(960), packet.Duration)
		assert.Equal(t, audio.NewRational(1, 48000), packet.TimeBase)
		assert.Len(t, packet.Data, 120)
		packet.Release()
	}

	_, err = e.Receive()
	assert.ErrorIs(t, err, audiocodec.ErrAgain)
}

func TestEncodeShortTailPaddedWithSilence(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 1000, 0xab)
	defer frame.Release()
	require.NoError(t, e.Send(frame))

	require.Len(t, fake.encodes, 2)
	tail := fake.encodes[1].pcm
	require.Len(t, tail, 1920)
	assert.False(t, allZero(tail[:80])) // 40 real samples
	assert.True(t, allZero(tail[80:]))

	// Stale tail data must not bleed into the padding of a later send.
	second := pcmFrame(48000, 970, 0x11)
	defer second.Release()
	require.NoError(t, e.Send(second))

	require.Len(t, fake.encodes, 4)
	tail = fake.encodes[3].pcm
	assert.True(t, allZero(tail[20:]))
}

func TestEncodeConvertsDurationToFrameTimeBase(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 1920, 0x01)
	defer frame.Release()
	frame.PTS = 1000
	frame.TimeBase = audio.NewRational(1, 90000)

	require.NoError(t, e.Send(frame))

	first, err := e.Receive()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.PTS)
	assert.Equal(t, int64(1800), first.Duration)
	assert.Equal(t, audio.NewRational(1, 90000), first.TimeBase)
	first.Release()

	second, err := e.Receive()
	require.NoError(t, err)
	assert.Equal(t, int64(2800), second.PTS)
	second.Release()
}

func TestEncodeFailureKeepsEarlierPackets(t *testing.T) {
	fake := &fakeNativeEncoder{}
	calls := 0
	fake.encodeFn = func(encodeCall, []byte) int {
		calls++
		if calls == 3 {
			return -2
		}
		return 42
	}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 2880, 0x55) // three chunks
	defer frame.Release()

	err = e.Send(frame)
	assert.ErrorIs(t, err, audiocodec.ErrEncodeFailed)

	for i := 0; i < 2; i++ {
		packet, err := e.Receive()
		require.NoError(t, err)
		packet.Release()
	}
	_, err = e.Receive()
	assert.ErrorIs(t, err, audiocodec.ErrAgain)
}

func TestEncoderRejectsForeignFrameFormat(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 960, 0x00)
	defer frame.Release()
	frame.Desc.Format = audio.FormatS32

	assert.ErrorIs(t, e.Send(frame), audiocodec.ErrUnsupported)
	assert.Empty(t, fake.encodes)
}

func TestEncoderSetOptionMapsCtls(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()
	fake.ctls = nil

	cases := []struct {
		key     string
		value   interface{}
		request int
		want    int
	}{
		{"bit_rate", 24000, ctlSetBitrate, 24000},
		{"packet_loss_percent", 15, ctlSetPacketLossPerc, 15},
		{"fec", true, ctlSetInbandFEC, 1},
		{"vbr", 0, ctlSetVBR, 0},
		{"max_bandwidth", Fullband, ctlSetMaxBandwidth, Fullband},
		{"complexity", 3, ctlSetComplexity, 3},
	}

	for _, tc := range cases {
		require.NoError(t, e.SetOption(tc.key, tc.value), tc.key)
		assert.Contains(t, fake.ctls, ctlCall{request: tc.request, value: tc.want}, tc.key)
	}

	assert.Equal(t, 15, e.opts.packetLoss)
	assert.True(t, e.opts.fec)
	assert.Equal(t, 0, e.opts.vbr)
	assert.Equal(t, Fullband, e.opts.maxBandwidth)
	assert.Equal(t, 3, e.opts.complexity)
}

func TestEncoderSetOptionUnknownKey(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()
	fake.ctls = nil

	err = e.SetOption("gain", 256)
	assert.ErrorIs(t, err, audiocodec.ErrUnsupported)
	assert.Empty(t, fake.ctls)
}

// A failed native call still leaves the cached value updated; there is
// no rollback.
func TestEncoderSetOptionNoRollback(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	fake.ctlFn = func(ctlCall) int { return -1 }
	err = e.SetOption("packet_loss_percent", 30)
	assert.ErrorIs(t, err, audiocodec.ErrSetFailed)
	assert.Equal(t, 30, e.opts.packetLoss)
}

func TestEncoderFlushZeroesScratch(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)
	defer e.Close()

	frame := pcmFrame(48000, 100, 0xee) // single padded chunk
	defer frame.Release()
	require.NoError(t, e.Send(frame))
	require.False(t, allZero(e.scratch))

	require.NoError(t, e.Flush())
	assert.True(t, allZero(e.scratch))
}

func TestEncoderCloseIdempotent(t *testing.T) {
	fake := &fakeNativeEncoder{}
	stubNative(t, nil, fake)

	e, err := NewEncoder(audiocodec.Opus, encoderParams(48000), nil)
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, 1, fake.destroyed)
}
