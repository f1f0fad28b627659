package audio

// SampleFormat describes the in-memory representation of a single PCM
// sample. All formats are packed (interleaved) formats.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatU8
	FormatS16
	FormatS32
	FormatF32
	FormatF64
)

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatF32:
		return "f32"
	case FormatF64:
		return "f64"
	}
	return "unknown"
}

// BytesPerSample returns the size of one sample of this format in bytes.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS32, FormatF32:
		return 4
	case FormatF64:
		return 8
	}
	return 0
}
