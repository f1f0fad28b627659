// Package opus adapts the libopus codec engine to the audiocodec
// send/receive contract. The package provides a Decoder and an Encoder
// which each own exactly one native libopus handle, translate between the
// pipeline's Frame/Packet types and the native call interface, and queue
// produced output until the caller drains it.
package opus

import (
	"github.com/dh1tw/opuscodec/audiocodec"
)

// Codec application modes, as defined by libopus.
const (
	AppVoIP               = 2048
	AppAudio              = 2049
	AppRestrictedLowdelay = 2051
)

// Bandwidth caps, as defined by libopus.
const (
	Narrowband    = 1101
	Mediumband    = 1102
	Wideband      = 1103
	Superwideband = 1104
	Fullband      = 1105
)

// ctl request ids of the native control calls used by this adapter.
const (
	ctlSetBitrate        = 4002
	ctlSetMaxBandwidth   = 4004
	ctlSetVBR            = 4006
	ctlSetComplexity     = 4010
	ctlSetInbandFEC      = 4012
	ctlSetPacketLossPerc = 4014
	ctlSetVBRConstraint  = 4020
	ctlResetState        = 4028
	ctlSetGain           = 4034
)

// opusOK is the status code libopus returns on success.
const opusOK = 0

// Fixed properties of the Opus wire format.
const (
	// maxFrameDurationMs is the longest frame duration the format allows.
	// Decode buffers are always sized for it, since the true decoded
	// length is only known after decoding.
	maxFrameDurationMs = 120

	// A physical packet is at most a 7 byte header followed by up to
	// 6 sub-frames of 1275 bytes each.
	packetHeaderBytes = 7
	maxPacketFrames   = 6
	maxFrameBytes     = 1275
)

// maxPacketBytes is the worst case size of a single encoded packet.
const maxPacketBytes = packetHeaderBytes + maxPacketFrames*maxFrameBytes

// Register adds the Opus decoder and encoder factories to the given
// registry. Hosts call this once at startup; the package performs no
// registration on its own.
func Register(r *audiocodec.Registry) {
	r.RegisterDecoder(audiocodec.Opus,
		func(id audiocodec.CodecID, params *audiocodec.Params, opts audiocodec.Options) (audiocodec.Decoder, error) {
			return NewDecoder(id, params, opts)
		})
	r.RegisterEncoder(audiocodec.Opus,
		func(id audiocodec.CodecID, params *audiocodec.Params, opts audiocodec.Options) (audiocodec.Encoder, error) {
			return NewEncoder(id, params, opts)
		})
}
