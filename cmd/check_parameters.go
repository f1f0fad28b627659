package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dh1tw/opuscodec/utils"
)

// legal Opus frame durations in milliseconds
var opusFrameDurations = []float64{2.5, 5, 10, 20, 40, 60, 80, 100, 120}

func checkOpusParameterValues() error {

	app := strings.ToLower(viper.GetString("opus.application"))
	if !utils.StringInSlice(app, []string{"voip", "audio", "restricted_lowdelay", "lowdelay"}) {
		return &parmError{
			parm: "opus.application",
			msg:  "allowed values are VOIP, AUDIO or RESTRICTED_LOWDELAY",
		}
	}

	bw := strings.ToLower(viper.GetString("opus.max-bandwidth"))
	if bw != "" &&
		!utils.StringInSlice(bw, []string{"narrowband", "mediumband", "wideband", "superwideband", "fullband"}) {
		return &parmError{
			parm: "opus.max-bandwidth",
			msg:  "allowed values are NARROWBAND, MEDIUMBAND, WIDEBAND, SUPERWIDEBAND, FULLBAND",
		}
	}

	vbr := strings.ToLower(viper.GetString("opus.vbr"))
	if !utils.StringInSlice(vbr, []string{"off", "on", "constrained"}) {
		return &parmError{
			parm: "opus.vbr",
			msg:  "allowed values are off, on, constrained",
		}
	}

	if br := viper.GetInt("opus.bitrate"); br < 6000 || br > 510000 {
		return &parmError{
			parm: "opus.bitrate",
			msg:  "allowed values are [6000...510000]",
		}
	}

	if c := viper.GetInt("opus.complexity"); c < 0 || c > 10 {
		return &parmError{
			parm: "opus.complexity",
			msg:  "allowed values are [0...10]",
		}
	}

	if pl := viper.GetInt("opus.packet-loss"); pl < 0 || pl > 100 {
		return &parmError{
			parm: "opus.packet-loss",
			msg:  "allowed values are [0...100]",
		}
	}

	fd := viper.GetFloat64("opus.frame-duration")
	valid := false
	for _, d := range opusFrameDurations {
		if fd == d {
			valid = true
			break
		}
	}
	if !valid {
		return &parmError{
			parm: "opus.frame-duration",
			msg:  "allowed values are 2.5, 5, 10, 20, 40, 60, 80, 100, 120 [ms]",
		}
	}

	return nil
}

type parmError struct {
	parm string
	msg  string
}

func (p *parmError) Error() string {
	return fmt.Sprintf("%v: %v\n", p.parm, p.msg)
}
