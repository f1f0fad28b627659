package audiocodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsAccessors(t *testing.T) {
	opts := Options{
		"bitrate":  64000,
		"duration": 2.5,
		"fec":      true,
		"vbr":      "constrained",
		"wide":     int64(1),
		"loss":     float64(20),
	}

	assert.True(t, opts.Has("bitrate"))
	assert.False(t, opts.Has("gain"))

	assert.Equal(t, 64000, opts.Int("bitrate", 0))
	assert.Equal(t, 1, opts.Int("wide", 0))
	assert.Equal(t, 20, opts.Int("loss", 0))
	assert.Equal(t, 1, opts.Int("fec", 0))
	assert.Equal(t, 7, opts.Int("gain", 7))
	assert.Equal(t, 7, opts.Int("vbr", 7)) // foreign type falls back

	assert.Equal(t, 2.5, opts.Float("duration", 0))
	assert.Equal(t, 64000.0, opts.Float("bitrate", 0))
	assert.Equal(t, 20.0, opts.Float("missing", 20))

	assert.True(t, opts.Bool("fec", false))
	assert.True(t, opts.Bool("wide", false))
	assert.False(t, opts.Bool("missing", false))
	assert.True(t, opts.Bool("vbr", true))

	assert.Equal(t, "constrained", opts.String("vbr", "on"))
	assert.Equal(t, "on", opts.String("bitrate", "on"))
}

func TestOptionsNilMap(t *testing.T) {
	var opts Options

	assert.False(t, opts.Has("fec"))
	assert.Equal(t, 3, opts.Int("fec", 3))
	assert.Equal(t, 1.5, opts.Float("fec", 1.5))
	assert.True(t, opts.Bool("fec", true))
	assert.Equal(t, "x", opts.String("fec", "x"))
}
