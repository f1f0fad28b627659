package audio

// Channel identifies the position of a single audio channel within a
// channel layout.
type Channel int

const (
	ChFrontLeft Channel = iota
	ChFrontRight
	ChFrontCenter
	ChLowFrequency
	ChBackLeft
	ChBackRight
)

// ChannelLayout is an ordered set of channels. The order of the channels
// defines the interleaving order of the samples within a frame.
type ChannelLayout struct {
	Channels []Channel
}

// Common layouts.
var (
	LayoutMono   = ChannelLayout{Channels: []Channel{ChFrontCenter}}
	LayoutStereo = ChannelLayout{Channels: []Channel{ChFrontLeft, ChFrontRight}}
)

// Count returns the number of channels in the layout.
func (l ChannelLayout) Count() int {
	return len(l.Channels)
}

func (l ChannelLayout) String() string {
	switch l.Count() {
	case 0:
		return "none"
	case 1:
		return "mono"
	case 2:
		return "stereo"
	}
	return "multichannel"
}
