package opus

// Scripted stand-ins for the native libopus handles. They record every
// call so the tests can assert on the exact native interaction, and their
// behavior can be overridden per test through the function fields.

import (
	"fmt"
	"testing"

	"github.com/dh1tw/opuscodec/audio"
)

type decodeCall struct {
	data    []byte
	samples int
	format  audio.SampleFormat
	fec     bool
}

type ctlCall struct {
	request int
	value   int
}

type fakeNativeDecoder struct {
	sampleRate int
	channels   int

	decodeFn        func(call decodeCall, pcm []byte) int
	ctlFn           func(call ctlCall) int
	packetSamplesFn func(data []byte) int

	decodes   []decodeCall
	ctls      []ctlCall
	destroyed int
}

func (f *fakeNativeDecoder) decode(data, pcm []byte, maxSamples int, format audio.SampleFormat, fec bool) int {
	call := decodeCall{data: append([]byte(nil), data...), samples: maxSamples, format: format, fec: fec}
	f.decodes = append(f.decodes, call)
	if f.decodeFn != nil {
		return f.decodeFn(call, pcm)
	}
	return maxSamples
}

func (f *fakeNativeDecoder) ctl(request, value int) int {
	call := ctlCall{request: request, value: value}
	f.ctls = append(f.ctls, call)
	if f.ctlFn != nil {
		return f.ctlFn(call)
	}
	return opusOK
}

func (f *fakeNativeDecoder) packetSamples(data []byte) int {
	if f.packetSamplesFn != nil {
		return f.packetSamplesFn(data)
	}
	return frameSamples(f.sampleRate, 20)
}

func (f *fakeNativeDecoder) destroy() {
	f.destroyed++
}

type encodeCall struct {
	pcm       []byte
	frameSize int
	format    audio.SampleFormat
}

type fakeNativeEncoder struct {
	sampleRate  int
	channels    int
	application int

	encodeFn func(call encodeCall, out []byte) int
	ctlFn    func(call ctlCall) int

	encodes   []encodeCall
	ctls      []ctlCall
	destroyed int
}

func (f *fakeNativeEncoder) encode(pcm []byte, frameSize int, format audio.SampleFormat, out []byte) int {
	call := encodeCall{pcm: append([]byte(nil), pcm...), frameSize: frameSize, format: format}
	f.encodes = append(f.encodes, call)
	if f.encodeFn != nil {
		return f.encodeFn(call, out)
	}
	return 42
}

func (f *fakeNativeEncoder) ctl(request, value int) int {
	call := ctlCall{request: request, value: value}
	f.ctls = append(f.ctls, call)
	if f.ctlFn != nil {
		return f.ctlFn(call)
	}
	return opusOK
}

func (f *fakeNativeEncoder) destroy() {
	f.destroyed++
}

// stubNative wires the fakes into the constructor hooks for the duration
// of one test and makes native error texts deterministic.
func stubNative(t *testing.T, dec *fakeNativeDecoder, enc *fakeNativeEncoder) {
	t.Helper()

	origDec, origEnc, origStrerror := newNativeDecoder, newNativeEncoder, strerror
	t.Cleanup(func() {
		newNativeDecoder, newNativeEncoder, strerror = origDec, origEnc, origStrerror
	})

	newNativeDecoder = func(sampleRate, channels int) (nativeDecoder, error) {
		if dec == nil {
			t.Fatal("unexpected native decoder construction")
		}
		dec.sampleRate = sampleRate
		dec.channels = channels
		return dec, nil
	}
	newNativeEncoder = func(sampleRate, channels, application int) (nativeEncoder, error) {
		if enc == nil {
			t.Fatal("unexpected native encoder construction")
		}
		enc.sampleRate = sampleRate
		enc.channels = channels
		enc.application = application
		return enc, nil
	}
	strerror = func(code int) string {
		return fmt.Sprintf("opus error %d", code)
	}
}
