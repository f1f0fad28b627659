package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dh1tw/gosamplerate"
	wav "github.com/go-audio/wav"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
	"github.com/dh1tw/opuscodec/audiocodec/opus"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a WAV file into an Opus packet stream",
	Long: `Encode a WAV file into a length-prefixed Opus packet stream (.opr).

The input is resampled to the encoder sample rate when necessary. The
whole file is handed to the encoder as a single frame; the encoder
splits it into codec frames of the configured duration and pads the
final chunk with silence.`,
	Run: encodeAudio,
}

func init() {
	RootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("input", "i", "", "input WAV file")
	encodeCmd.Flags().StringP("output", "o", "", "output .opr file")
	encodeCmd.Flags().IntP("samplerate", "s", 48000, "encoder sample rate")
	encodeCmd.Flags().IntP("bitrate", "B", 64000, "target bitrate [bit/s]")
	encodeCmd.Flags().IntP("complexity", "c", 10, "encoder complexity [0...10]")
	encodeCmd.Flags().Float64P("frame-duration", "f", 20, "codec frame duration [ms]")
	encodeCmd.Flags().StringP("application", "a", "audio", "application (VOIP, AUDIO, RESTRICTED_LOWDELAY)")
	encodeCmd.Flags().String("max-bandwidth", "", "bandwidth cap (NARROWBAND...FULLBAND)")
	encodeCmd.Flags().String("vbr", "on", "variable bitrate mode (off, on, constrained)")
	encodeCmd.Flags().Bool("fec", false, "enable in-band forward error correction")
	encodeCmd.Flags().Int("packet-loss", 0, "expected packet loss [%]")

	viper.BindPFlag("opus.bitrate", encodeCmd.Flags().Lookup("bitrate"))
	viper.BindPFlag("opus.complexity", encodeCmd.Flags().Lookup("complexity"))
	viper.BindPFlag("opus.frame-duration", encodeCmd.Flags().Lookup("frame-duration"))
	viper.BindPFlag("opus.application", encodeCmd.Flags().Lookup("application"))
	viper.BindPFlag("opus.max-bandwidth", encodeCmd.Flags().Lookup("max-bandwidth"))
	viper.BindPFlag("opus.vbr", encodeCmd.Flags().Lookup("vbr"))
	viper.BindPFlag("opus.fec", encodeCmd.Flags().Lookup("fec"))
	viper.BindPFlag("opus.packet-loss", encodeCmd.Flags().Lookup("packet-loss"))
}

func encodeAudio(cmd *cobra.Command, args []string) {

	// Try to read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	} else {
		if strings.Contains(err.Error(), "Not Found in") {
			fmt.Println("no config file found")
		} else {
			fmt.Fprintf(os.Stderr, "Error parsing config file %v: %v\n",
				viper.ConfigFileUsed(), err)
			os.Exit(1)
		}
	}

	if err := checkOpusParameterValues(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	sampleRate, _ := cmd.Flags().GetInt("samplerate")
	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "both --input and --output are required")
		os.Exit(1)
	}

	pcm, channels, err := readWavFloat32(input, sampleRate)
	if err != nil {
		log.Fatal(err)
	}

	layout := audio.LayoutMono
	if channels == 2 {
		layout = audio.LayoutStereo
	}

	registry := audiocodec.NewRegistry()
	opus.Register(registry)

	params := &audiocodec.Params{
		SampleRate: sampleRate,
		Format:     audio.FormatF32,
		Layout:     layout,
		BitRate:    viper.GetInt("opus.bitrate"),
	}
	opts := audiocodec.Options{
		"frame_duration": viper.GetFloat64("opus.frame-duration"),
		"application":    viper.GetString("opus.application"),
		"vbr":            viper.GetString("opus.vbr"),
		"fec":            viper.GetBool("opus.fec"),
		"packet_loss":    viper.GetInt("opus.packet-loss"),
		"complexity":     viper.GetInt("opus.complexity"),
	}
	if bw := viper.GetString("opus.max-bandwidth"); bw != "" {
		opts["max_bandwidth"] = bw
	}

	enc, err := registry.NewEncoder(audiocodec.Opus, params, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer enc.Close()

	samples := len(pcm) / channels
	frame := audio.NewFrame(audio.FrameDescriptor{
		Format:     audio.FormatF32,
		SampleRate: sampleRate,
		Layout:     layout,
		MaxSamples: samples,
		Samples:    samples,
	})
	copy(frame.PlaneBuffer(0), float32LEBytes(pcm))
	defer frame.Release()

	out, err := os.Create(output)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := writeOprHeader(out, oprHeader{
		SampleRate: uint32(sampleRate),
		Channels:   uint16(channels),
	}); err != nil {
		log.Fatal(err)
	}

	if err := enc.Send(frame); err != nil {
		log.Fatal(err)
	}

	packets := 0
	for {
		packet, err := enc.Receive()
		if err != nil {
			if errors.Is(err, audiocodec.ErrAgain) {
				break
			}
			log.Fatal(err)
		}
		if err := writeOprPacket(out, packet.Data); err != nil {
			log.Fatal(err)
		}
		packet.Release()
		packets++
	}

	log.WithFields(log.Fields{
		"input":   input,
		"output":  output,
		"packets": packets,
	}).Info("encoded audio")
}

// readWavFloat32 reads a WAV file into interleaved float32 samples in
// [-1, 1], resampled to targetRate when the file uses a different rate.
func readWavFloat32(path string, targetRate int) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read wav file %s: %w", path, err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 || channels > 2 {
		return nil, 0, fmt.Errorf("unsupported channel count %d in %s", channels, path)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	pcm := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		pcm[i] = float32(s) / scale
	}

	if buf.Format.SampleRate != targetRate {
		ratio := float64(targetRate) / float64(buf.Format.SampleRate)
		pcm, err = gosamplerate.Simple(pcm, ratio, channels, gosamplerate.SRC_SINC_FASTEST)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to resample %s: %w", path, err)
		}
	}

	return pcm, channels, nil
}
