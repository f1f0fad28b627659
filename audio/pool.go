package audio

import (
	"sync"
)

// Pool hands out reference counted Frames and Packets backed by reusable
// buffers. Buffers are keyed by their size; a released buffer becomes
// available again for the next request of the same size class.
//
// A Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	sync.Mutex
	buckets map[int]*sync.Pool
}

// NewPool returns an empty buffer pool.
func NewPool() *Pool {
	return &Pool{
		buckets: make(map[int]*sync.Pool),
	}
}

func (p *Pool) bucket(size int) *sync.Pool {
	p.Lock()
	defer p.Unlock()
	b, ok := p.buckets[size]
	if !ok {
		b = &sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		}
		p.buckets[size] = b
	}
	return b
}

func (p *Pool) get(size int) []byte {
	return p.bucket(size).Get().([]byte)[:size]
}

func (p *Pool) put(buf []byte) {
	if buf == nil {
		return
	}
	buf = buf[:cap(buf)]
	p.bucket(len(buf)).Put(buf) //nolint:staticcheck // []byte headers, not pointers
}

// NewFrame returns a frame whose plane buffer is drawn from the pool. The
// buffer returns to the pool when the frame's last reference is released.
func (p *Pool) NewFrame(desc FrameDescriptor) *Frame {
	refs := int32(1)
	return &Frame{
		Desc:   desc,
		planes: [][]byte{p.get(desc.PlaneSize())},
		refs:   &refs,
		pool:   p,
	}
}

// NewPacket returns a packet whose data buffer is drawn from the pool.
func (p *Pool) NewPacket(size int) *Packet {
	refs := int32(1)
	return &Packet{
		Data:     p.get(size),
		capacity: size,
		refs:     &refs,
		pool:     p,
	}
}
