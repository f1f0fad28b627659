package opus

/*
#cgo pkg-config: opus
#include <opus.h>

// The opus ctl entry points are variadic. These bridges pin them down to
// the single int-argument form this adapter uses. Requests without an
// argument (e.g. OPUS_RESET_STATE) ignore the trailing value.
static int
bridge_encoder_ctl(OpusEncoder *st, int request, opus_int32 value)
{
	return opus_encoder_ctl(st, request, value);
}

static int
bridge_decoder_ctl(OpusDecoder *st, int request, opus_int32 value)
{
	return opus_decoder_ctl(st, request, value);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
)

// opusStrerror renders a native status code as the engine's own
// human-readable error text.
func opusStrerror(code int) string {
	return C.GoString(C.opus_strerror(C.int(code)))
}

type libopusDecoder struct {
	st         *C.OpusDecoder
	sampleRate int
}

func newLibopusDecoder(sampleRate, channels int) (nativeDecoder, error) {
	var cerr C.int
	st := C.opus_decoder_create(C.opus_int32(sampleRate), C.int(channels), &cerr)
	if st == nil || cerr != C.OPUS_OK {
		return nil, fmt.Errorf("%w: %s", audiocodec.ErrCreationFailed, opusStrerror(int(cerr)))
	}
	return &libopusDecoder{st: st, sampleRate: sampleRate}, nil
}

func (d *libopusDecoder) decode(data, pcm []byte, maxSamples int, format audio.SampleFormat, fec bool) int {
	var dptr *C.uchar
	if len(data) > 0 {
		dptr = (*C.uchar)(unsafe.Pointer(&data[0]))
	}
	decodeFEC := C.int(0)
	if fec {
		decodeFEC = 1
	}
	if format == audio.FormatF32 {
		return int(C.opus_decode_float(d.st, dptr, C.opus_int32(len(data)),
			(*C.float)(unsafe.Pointer(&pcm[0])), C.int(maxSamples), decodeFEC))
	}
	return int(C.opus_decode(d.st, dptr, C.opus_int32(len(data)),
		(*C.opus_int16)(unsafe.Pointer(&pcm[0])), C.int(maxSamples), decodeFEC))
}

func (d *libopusDecoder) ctl(request, value int) int {
	return int(C.bridge_decoder_ctl(d.st, C.int(request), C.opus_int32(value)))
}

func (d *libopusDecoder) packetSamples(data []byte) int {
	if len(data) == 0 {
		return -1
	}
	return int(C.opus_packet_get_nb_samples((*C.uchar)(unsafe.Pointer(&data[0])),
		C.opus_int32(len(data)), C.opus_int32(d.sampleRate)))
}

func (d *libopusDecoder) destroy() {
	if d.st != nil {
		C.opus_decoder_destroy(d.st)
		d.st = nil
	}
}

type libopusEncoder struct {
	st *C.OpusEncoder
}

func newLibopusEncoder(sampleRate, channels, application int) (nativeEncoder, error) {
	var cerr C.int
	st := C.opus_encoder_create(C.opus_int32(sampleRate), C.int(channels),
		C.int(application), &cerr)
	if st == nil || cerr != C.OPUS_OK {
		return nil, fmt.Errorf("%w: %s", audiocodec.ErrCreationFailed, opusStrerror(int(cerr)))
	}
	return &libopusEncoder{st: st}, nil
}

func (e *libopusEncoder) encode(pcm []byte, frameSize int, format audio.SampleFormat, out []byte) int {
	if format == audio.FormatF32 {
		return int(C.opus_encode_float(e.st, (*C.float)(unsafe.Pointer(&pcm[0])),
			C.int(frameSize), (*C.uchar)(unsafe.Pointer(&out[0])), C.opus_int32(len(out))))
	}
	return int(C.opus_encode(e.st, (*C.opus_int16)(unsafe.Pointer(&pcm[0])),
		C.int(frameSize), (*C.uchar)(unsafe.Pointer(&out[0])), C.opus_int32(len(out))))
}

func (e *libopusEncoder) ctl(request, value int) int {
	return int(C.bridge_encoder_ctl(e.st, C.int(request), C.opus_int32(value)))
}

func (e *libopusEncoder) destroy() {
	if e.st != nil {
		C.opus_encoder_destroy(e.st)
		e.st = nil
	}
}
