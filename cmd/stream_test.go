package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOprRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeOprHeader(&buf, oprHeader{SampleRate: 48000, Channels: 2}))
	require.NoError(t, writeOprPacket(&buf, []byte{0xfc, 0x01, 0x02}))
	require.NoError(t, writeOprPacket(&buf, nil)) // lost packet marker
	require.NoError(t, writeOprPacket(&buf, []byte{0xfd}))

	h, err := readOprHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(48000), h.SampleRate)
	assert.Equal(t, uint16(2), h.Channels)

	p, err := readOprPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfc, 0x01, 0x02}, p)

	p, err = readOprPacket(&buf)
	require.NoError(t, err)
	assert.Empty(t, p)

	p, err = readOprPacket(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfd}, p)

	_, err = readOprPacket(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadOprHeaderRejectsBadInput(t *testing.T) {
	_, err := readOprHeader(bytes.NewReader([]byte("RIFF....")))
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeOprHeader(&buf, oprHeader{SampleRate: 0, Channels: 1}))
	_, err = readOprHeader(&buf)
	assert.Error(t, err)
}

func TestReadOprPacketTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOprPacket(&buf, []byte{1, 2, 3, 4}))
	short := buf.Bytes()[:buf.Len()-2]

	_, err := readOprPacket(bytes.NewReader(short))
	assert.Error(t, err)
}

func TestPCMByteConversions(t *testing.T) {
	b := float32LEBytes([]float32{0, 1, -1})
	require.Len(t, b, 12)
	assert.Equal(t, []byte{0, 0, 0, 0}, b[:4])
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, b[4:8]) // 1.0

	samples := int16LESamples([]byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80})
	assert.Equal(t, []int{0, 32767, -32768}, samples)
}
