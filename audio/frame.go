// Package audio provides the data types which are passed between the
// elements of an audio pipeline: raw PCM frames, encoded packets and the
// buffer pool they can be drawn from.
package audio

import (
	"fmt"
	"sync/atomic"
)

// FrameDescriptor describes the shape of the PCM data held by a Frame.
// MaxSamples is the buffer capacity in samples per channel; Samples is the
// number of valid samples per channel, which is always <= MaxSamples.
type FrameDescriptor struct {
	Format     SampleFormat
	SampleRate int
	Layout     ChannelLayout
	MaxSamples int
	Samples    int
}

// bytesPerSampleUnit is the size of one sample across all channels.
func (d FrameDescriptor) bytesPerSampleUnit() int {
	return d.Layout.Count() * d.Format.BytesPerSample()
}

// PlaneSize returns the size in bytes of the (single, interleaved) data
// plane needed to hold MaxSamples samples.
func (d FrameDescriptor) PlaneSize() int {
	return d.MaxSamples * d.bytesPerSampleUnit()
}

// Frame holds raw PCM samples together with their shape and optional
// presentation timestamp. The sample data is stored in planes; all sample
// formats supported here are packed, so there is exactly one plane with
// the channels interleaved.
//
// Frames are reference counted. A freshly created frame has a reference
// count of one and is owned by its creator. Retain/Release transfer shared
// ownership; once the last reference is released, a pool-backed frame
// returns its buffer to the pool.
type Frame struct {
	Desc     FrameDescriptor
	PTS      int64
	TimeBase Rational

	planes [][]byte
	refs   *int32
	pool   *Pool
}

// NewFrame allocates a frame with a freshly owned buffer sized for
// desc.MaxSamples samples.
func NewFrame(desc FrameDescriptor) *Frame {
	refs := int32(1)
	return &Frame{
		Desc:   desc,
		planes: [][]byte{make([]byte, desc.PlaneSize())},
		refs:   &refs,
	}
}

// Planes returns the number of data planes.
func (f *Frame) Planes() int {
	return len(f.planes)
}

// Plane returns the raw data of plane i, limited to the valid sample
// count of the frame.
func (f *Frame) Plane(i int) []byte {
	return f.planes[i][:f.Desc.Samples*f.Desc.bytesPerSampleUnit()]
}

// PlaneBuffer returns the full capacity of plane i, including samples
// beyond the valid count. It is the write target for decoders which only
// know the true sample count after decoding.
func (f *Frame) PlaneBuffer(i int) []byte {
	return f.planes[i]
}

// Truncate sets the valid sample count of the frame. It fails if samples
// exceeds the allocated capacity.
func (f *Frame) Truncate(samples int) error {
	if samples < 0 || samples > f.Desc.MaxSamples {
		return fmt.Errorf("cannot truncate frame to %d samples (capacity %d)",
			samples, f.Desc.MaxSamples)
	}
	f.Desc.Samples = samples
	return nil
}

// Retain increments the reference count and returns the frame.
func (f *Frame) Retain() *Frame {
	atomic.AddInt32(f.refs, 1)
	return f
}

// Release drops one reference. When the last reference is released, a
// pool-backed buffer is handed back to the pool.
func (f *Frame) Release() {
	if atomic.AddInt32(f.refs, -1) != 0 {
		return
	}
	if f.pool != nil {
		for _, p := range f.planes {
			f.pool.put(p)
		}
	}
	f.planes = nil
}

// Writable reports whether the frame holds the only reference to its
// buffer and may therefore be written to.
func (f *Frame) Writable() bool {
	return atomic.LoadInt32(f.refs) == 1
}
