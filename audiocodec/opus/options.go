package opus

import (
	"fmt"
	"strings"

	"github.com/dh1tw/opuscodec/audiocodec"
)

// codecOptions caches the encoder-side option state. Every mutation goes
// through the option mapper, which updates the cached field and issues the
// matching native control call in the same step; nothing else may touch
// native state directly.
type codecOptions struct {
	application   int
	frameDuration float64 // ms
	frameSize     int     // samples per channel at the configured rate
	packetLoss    int     // percent
	fec           bool
	vbr           int // 0 off, 1 on, 2 constrained
	maxBandwidth  int // 0 leaves the codec default
	complexity    int // 0..10
}

func defaultOptions() codecOptions {
	return codecOptions{
		application:   AppAudio,
		frameDuration: 20,
		frameSize:     960,
		packetLoss:    0,
		fec:           false,
		vbr:           1,
		maxBandwidth:  0,
		complexity:    10,
	}
}

// optionsFromMap reads the construction-time option map on top of the
// defaults. The frame size is the canonical 48 kHz based count; the
// encoder rescales it to the actual sample rate during construction.
func optionsFromMap(opts audiocodec.Options) (codecOptions, error) {
	o := defaultOptions()
	if opts == nil {
		return o, nil
	}

	if opts.Has("application") {
		app, err := parseApplication(opts["application"])
		if err != nil {
			return o, err
		}
		o.application = app
	}

	o.frameDuration = opts.Float("frame_duration", o.frameDuration)
	o.frameSize = frameSamples(48000, o.frameDuration)
	o.packetLoss = opts.Int("packet_loss", o.packetLoss)
	o.fec = opts.Bool("fec", o.fec)
	o.complexity = opts.Int("complexity", o.complexity)

	if opts.Has("vbr") {
		vbr, err := parseVBR(opts["vbr"])
		if err != nil {
			return o, err
		}
		o.vbr = vbr
	}

	if opts.Has("max_bandwidth") {
		bw, err := parseMaxBandwidth(opts["max_bandwidth"])
		if err != nil {
			return o, err
		}
		o.maxBandwidth = bw
	}

	return o, nil
}

// parseApplication accepts the symbolic application names used in
// configuration files as well as the raw libopus values.
func parseApplication(v interface{}) (int, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "voip":
			return AppVoIP, nil
		case "audio":
			return AppAudio, nil
		case "restricted_lowdelay", "lowdelay":
			return AppRestrictedLowdelay, nil
		}
		return 0, fmt.Errorf("%w: unknown application %q", audiocodec.ErrInvalidParam, s)
	}

	app := audiocodec.Options{"application": v}.Int("application", -1)
	switch app {
	case AppVoIP, AppAudio, AppRestrictedLowdelay:
		return app, nil
	}
	return 0, fmt.Errorf("%w: unknown application %v", audiocodec.ErrInvalidParam, v)
}

// parseMaxBandwidth accepts the symbolic bandwidth names as well as the
// raw libopus values. Zero means "leave the codec default".
func parseMaxBandwidth(v interface{}) (int, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "narrowband":
			return Narrowband, nil
		case "mediumband":
			return Mediumband, nil
		case "wideband":
			return Wideband, nil
		case "superwideband":
			return Superwideband, nil
		case "fullband":
			return Fullband, nil
		}
		return 0, fmt.Errorf("%w: unknown max bandwidth %q", audiocodec.ErrInvalidParam, s)
	}

	bw := audiocodec.Options{"max_bandwidth": v}.Int("max_bandwidth", -1)
	switch bw {
	case 0, Narrowband, Mediumband, Wideband, Superwideband, Fullband:
		return bw, nil
	}
	return 0, fmt.Errorf("%w: unknown max bandwidth %v", audiocodec.ErrInvalidParam, v)
}

// parseVBR accepts "off", "on" and "constrained" as well as 0, 1, 2.
func parseVBR(v interface{}) (int, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "off":
			return 0, nil
		case "on":
			return 1, nil
		case "constrained":
			return 2, nil
		}
		return 0, fmt.Errorf("%w: unknown vbr mode %q", audiocodec.ErrInvalidParam, s)
	}

	vbr := audiocodec.Options{"vbr": v}.Int("vbr", -1)
	if vbr < 0 || vbr > 2 {
		return 0, fmt.Errorf("%w: unknown vbr mode %v", audiocodec.ErrInvalidParam, v)
	}
	return vbr, nil
}

// ctlValue coerces a SetOption value into the integer argument of a
// native control call. Booleans map to 0/1.
func ctlValue(v interface{}) (int, error) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case float64:
		return int(n), nil
	case float32:
		return int(n), nil
	}
	return 0, fmt.Errorf("%w: option value %v (%T) is not a scalar", audiocodec.ErrInvalidParam, v, v)
}
