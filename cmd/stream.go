package cmd

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// The .opr container is a minimal length-prefixed Opus packet stream:
// a "OPRS" magic, the sample rate (uint32) and channel count (uint16),
// followed by one uint32 length prefix plus payload per packet. All
// integers are little-endian.
var oprMagic = [4]byte{'O', 'P', 'R', 'S'}

type oprHeader struct {
	SampleRate uint32
	Channels   uint16
}

func writeOprHeader(w io.Writer, h oprHeader) error {
	if _, err := w.Write(oprMagic[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, h)
}

func readOprHeader(r io.Reader) (oprHeader, error) {
	var magic [4]byte
	var h oprHeader
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, err
	}
	if magic != oprMagic {
		return h, fmt.Errorf("not an opus packet stream (bad magic %q)", magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, err
	}
	if h.SampleRate == 0 || h.Channels == 0 {
		return h, fmt.Errorf("corrupt opus packet stream header")
	}
	return h, nil
}

func writeOprPacket(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// readOprPacket returns io.EOF at the regular end of the stream.
func readOprPacket(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return nil, err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("truncated opus packet: %w", err)
	}
	return data, nil
}

// float32LEBytes packs float32 samples into their little-endian byte
// representation.
func float32LEBytes(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

// int16LESamples unpacks little-endian int16 PCM bytes into ints.
func int16LESamples(data []byte) []int {
	samples := make([]int, len(data)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return samples
}
