package opus

import (
	"fmt"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
)

// frameSamples returns the number of samples per channel a duration of
// durationMs covers at the given sample rate, truncated to an integer.
func frameSamples(sampleRate int, durationMs float64) int {
	return int(durationMs * float64(sampleRate) / 1000)
}

// decodeDescriptor derives the output frame shape from the current codec
// parameters. The capacity is always computed for the maximum 120 ms
// frame duration: the true decoded length is unknown until after the
// decode, so the buffer is over-allocated and the frame truncated to the
// sample count the engine reports.
//
// Opus only produces 16 bit integer or 32 bit float samples. A requested
// float format stays float; any other format falls back to the integer
// format as the compatibility default.
func decodeDescriptor(params *audiocodec.Params) (audio.FrameDescriptor, error) {
	if params == nil {
		return audio.FrameDescriptor{}, fmt.Errorf("%w: no codec parameters", audiocodec.ErrInvalidParam)
	}
	if params.SampleRate <= 0 {
		return audio.FrameDescriptor{}, fmt.Errorf("%w: no sample rate", audiocodec.ErrInvalidParam)
	}
	if params.Format == audio.FormatUnknown {
		return audio.FrameDescriptor{}, fmt.Errorf("%w: no sample format", audiocodec.ErrInvalidParam)
	}
	if params.Layout.Count() < 1 {
		return audio.FrameDescriptor{}, fmt.Errorf("%w: no channel layout", audiocodec.ErrInvalidParam)
	}

	format := audio.FormatS16
	if params.Format == audio.FormatF32 {
		format = audio.FormatF32
	}

	return audio.FrameDescriptor{
		Format:     format,
		SampleRate: params.SampleRate,
		Layout:     params.Layout,
		MaxSamples: frameSamples(params.SampleRate, maxFrameDurationMs),
	}, nil
}
