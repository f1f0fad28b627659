package audio

import (
	"fmt"
	"sync/atomic"
)

// Packet holds one unit of encoded audio data plus its timing metadata.
// PTS and Duration are expressed in TimeBase units; a zero TimeBase means
// no timing information is attached.
//
// Packets share the reference counting model of Frames.
type Packet struct {
	Data     []byte
	PTS      int64
	Duration int64
	TimeBase Rational

	capacity int
	refs     *int32
	pool     *Pool
}

// NewPacket allocates a packet with a freshly owned buffer of the given
// size. Data initially spans the full buffer.
func NewPacket(size int) *Packet {
	refs := int32(1)
	return &Packet{
		Data:     make([]byte, size),
		capacity: size,
		refs:     &refs,
	}
}

// Truncate shortens the packet to n valid bytes.
func (p *Packet) Truncate(n int) error {
	if n < 0 || n > p.capacity {
		return fmt.Errorf("cannot truncate packet to %d bytes (capacity %d)",
			n, p.capacity)
	}
	p.Data = p.Data[:n]
	return nil
}

// Retain increments the reference count and returns the packet.
func (p *Packet) Retain() *Packet {
	atomic.AddInt32(p.refs, 1)
	return p
}

// Release drops one reference. When the last reference is released, a
// pool-backed buffer is handed back to the pool.
func (p *Packet) Release() {
	if atomic.AddInt32(p.refs, -1) != 0 {
		return
	}
	if p.pool != nil {
		p.pool.put(p.Data[:cap(p.Data)])
	}
	p.Data = nil
}

// Writable reports whether the packet holds the only reference to its
// buffer.
func (p *Packet) Writable() bool {
	return atomic.LoadInt32(p.refs) == 1
}
