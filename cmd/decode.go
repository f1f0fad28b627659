package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dh1tw/opuscodec/audio"
	"github.com/dh1tw/opuscodec/audiocodec"
	"github.com/dh1tw/opuscodec/audiocodec/opus"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode an Opus packet stream into a WAV file",
	Long: `Decode a length-prefixed Opus packet stream (.opr) back into a
16 bit WAV file. Empty packets in the stream are treated as known losses:
the decoder is told the previous packet was lost and, with --fec,
recovers it from the redundant data in the following packet.`,
	Run: decodeAudio,
}

func init() {
	RootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("input", "i", "", "input .opr file")
	decodeCmd.Flags().StringP("output", "o", "", "output WAV file")
	decodeCmd.Flags().Bool("fec", false, "recover lost packets from in-band FEC data")
	decodeCmd.Flags().Int("gain", 0, "decoder output gain in Q8 dB")
}

func decodeAudio(cmd *cobra.Command, args []string) {

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	fec, _ := cmd.Flags().GetBool("fec")
	gain, _ := cmd.Flags().GetInt("gain")
	if input == "" || output == "" {
		fmt.Fprintln(os.Stderr, "both --input and --output are required")
		os.Exit(1)
	}

	in, err := os.Open(input)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	header, err := readOprHeader(in)
	if err != nil {
		log.Fatal(err)
	}
	channels := int(header.Channels)
	sampleRate := int(header.SampleRate)

	layout := audio.LayoutMono
	if channels == 2 {
		layout = audio.LayoutStereo
	}

	registry := audiocodec.NewRegistry()
	opus.Register(registry)

	params := &audiocodec.Params{
		SampleRate: sampleRate,
		Format:     audio.FormatS16,
		Layout:     layout,
	}
	opts := audiocodec.Options{"fec": fec}
	if gain != 0 {
		opts["gain"] = gain
	}

	dec, err := registry.NewDecoder(audiocodec.Opus, params, opts)
	if err != nil {
		log.Fatal(err)
	}
	defer dec.Close()

	out, err := os.Create(output)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	wavEnc := wav.NewEncoder(out, sampleRate, 16, channels, 1)
	defer wavEnc.Close()

	format := &ga.Format{NumChannels: channels, SampleRate: sampleRate}

	frames := 0
	for {
		data, err := readOprPacket(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		// An empty packet marks a known loss. The decoder does not infer
		// loss from an empty payload; it has to be told.
		if len(data) == 0 {
			if err := dec.SetOption("packet_loss", true); err != nil {
				log.Fatal(err)
			}
		}

		packet := audio.NewPacket(len(data))
		copy(packet.Data, data)

		if err := dec.Send(packet); err != nil {
			log.Fatal(err)
		}
		packet.Release()

		for {
			frame, err := dec.Receive()
			if err != nil {
				if errors.Is(err, audiocodec.ErrAgain) {
					break
				}
				log.Fatal(err)
			}
			buf := &ga.IntBuffer{
				Format:         format,
				SourceBitDepth: 16,
				Data:           int16LESamples(frame.Plane(0)),
			}
			if err := wavEnc.Write(buf); err != nil {
				log.Fatal(err)
			}
			frame.Release()
			frames++
		}
	}

	log.WithFields(log.Fields{
		"input":  input,
		"output": output,
		"frames": frames,
	}).Info("decoded audio")
}
