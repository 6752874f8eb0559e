package audio

import (
	"errors"
	"fmt"

	"github.com/opd-ai/ltc/decoder"
	"github.com/pion/opus"
	"github.com/sirupsen/logrus"
)

// OpusSampleRate is the rate of PCM produced by OpusSource.
const OpusSampleRate = 48000

// maxOpusSamples bounds one packet: 120 ms at 48 kHz.
const maxOpusSamples = OpusSampleRate * 120 / 1000

var (
	// ErrEmptyPacket indicates a zero-length Opus packet.
	ErrEmptyPacket = errors.New("empty opus packet")

	// ErrOpusDecode indicates the Opus decoder rejected a packet.
	ErrOpusDecode = errors.New("opus decode failed")
)

// silkFrameMillis holds the frame duration of each SILK configuration
// group, indexed by config%4.
var silkFrameMillis = [4]int{10, 20, 40, 60}

// PacketSamples returns the number of 48 kHz samples per channel carried by
// an Opus packet, derived from its TOC byte. It returns 0 for packets whose
// configuration or frame count cannot be determined.
func PacketSamples(packet []byte) int {
	if len(packet) == 0 {
		return 0
	}
	toc := packet[0]
	config := int(toc >> 3)

	var millisX10 int
	switch {
	case config < 12:
		millisX10 = silkFrameMillis[config%4] * 10
	case config < 16:
		// hybrid: 10 or 20 ms
		millisX10 = []int{100, 200}[config%2]
	default:
		// CELT: 2.5, 5, 10 or 20 ms
		millisX10 = []int{25, 50, 100, 200}[config%4]
	}

	var frames int
	switch toc & 0x03 {
	case 0:
		frames = 1
	case 1, 2:
		frames = 2
	default:
		if len(packet) < 2 {
			return 0
		}
		frames = int(packet[1] & 0x3F)
	}

	n := frames * millisX10 * OpusSampleRate / 10000
	if n > maxOpusSamples {
		return 0
	}
	return n
}

// OpusSource decodes Opus packets carrying LTC audio and feeds the PCM to a
// decoder, keeping track of the stream position.
type OpusSource struct {
	opus    opus.Decoder
	target  *decoder.Decoder
	pos     int64
	out     []byte
	pcm     []int16
	packets uint64
}

// NewOpusSource creates a source writing into target. The target decoder
// should be created for OpusSampleRate.
func NewOpusSource(target *decoder.Decoder) *OpusSource {
	logrus.WithFields(logrus.Fields{
		"function": "NewOpusSource",
		"apv":      target.APV(),
	}).Info("Creating Opus LTC source")

	return &OpusSource{
		opus:   opus.NewDecoder(),
		target: target,
		out:    make([]byte, maxOpusSamples*2*2),
		pcm:    make([]int16, maxOpusSamples*2),
	}
}

// WritePacket decodes one packet and writes its samples to the decoder.
//
// Parameters:
//   - packet: a complete Opus packet
//
// Returns:
//   - int: number of samples written
//   - error: ErrEmptyPacket or an error wrapping ErrOpusDecode
func (s *OpusSource) WritePacket(packet []byte) (int, error) {
	if len(packet) == 0 {
		return 0, ErrEmptyPacket
	}

	bandwidth, isStereo, err := s.opus.Decode(packet, s.out)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "OpusSource.WritePacket",
			"size":     len(packet),
			"error":    err.Error(),
		}).Error("Opus decode failed")
		return 0, fmt.Errorf("%w: %v", ErrOpusDecode, err)
	}

	n := PacketSamples(packet)
	channels := 1
	if isStereo {
		channels = 2
	}
	decoded := S16LEToS16(s.pcm[:n*channels], s.out)
	if isStereo {
		// LTC is mono; keep the left channel
		for i := 0; i < decoded/2; i++ {
			s.pcm[i] = s.pcm[i*2]
		}
		decoded /= 2
	}

	s.target.WriteS16(s.pcm[:decoded], s.pos)
	s.pos += int64(decoded)
	s.packets++

	logrus.WithFields(logrus.Fields{
		"function":  "OpusSource.WritePacket",
		"bandwidth": bandwidth.String(),
		"is_stereo": isStereo,
		"samples":   decoded,
		"position":  s.pos,
	}).Debug("Opus packet written to decoder")

	return decoded, nil
}

// Position returns the stream position of the next sample.
func (s *OpusSource) Position() int64 {
	return s.pos
}

// Packets returns the number of packets decoded.
func (s *OpusSource) Packets() uint64 {
	return s.packets
}
