package audiocodec

import "errors"

// The closed set of failure kinds surfaced by codecs. Concrete errors wrap
// one of these sentinels (fmt.Errorf with %w) together with detail text,
// for the native codec failures the engine's own error message. Callers
// match with errors.Is.
var (
	// ErrAgain is not a failure. It is returned by Receive when the
	// output queue is empty and more input is needed, and by Send when a
	// codec temporarily cannot accept input.
	ErrAgain = errors.New("again")

	// ErrInvalidParam marks missing or malformed configuration.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrUnsupported marks unknown codec ids, unknown option keys and
	// capabilities a codec does not offer.
	ErrUnsupported = errors.New("unsupported")

	// ErrCreationFailed marks a rejected native handle construction.
	ErrCreationFailed = errors.New("creation failed")

	ErrDecodeFailed = errors.New("decode failed")
	ErrEncodeFailed = errors.New("encode failed")
	ErrSetFailed    = errors.New("setting option failed")

	// ErrNotWritable and ErrNotReadable mark buffers whose required
	// exclusive or shared access was unavailable, e.g. because they are
	// still referenced elsewhere.
	ErrNotWritable = errors.New("buffer not writable")
	ErrNotReadable = errors.New("buffer not readable")
)
