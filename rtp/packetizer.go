package rtp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/opd-ai/ltc/limits"
	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

// DefaultPayloadType is the dynamic payload type used for LTC audio.
const DefaultPayloadType = 96

// Packetizer wraps LTC sample buffers in RTP packets. The RTP timestamp
// counts samples, so the clock rate equals the encoder sample rate.
type Packetizer struct {
	mu             sync.Mutex
	ssrc           uint32
	payloadType    uint8
	sequenceNumber uint16
	timestamp      uint32
	maxPayload     int
	started        bool
}

// NewPacketizer creates a packetizer with a random SSRC.
//
// Parameters:
//   - payloadType: dynamic RTP payload type (96..127)
//
// Returns:
//   - *Packetizer: New packetizer instance
//   - error: Any error that occurred during setup
func NewPacketizer(payloadType uint8) (*Packetizer, error) {
	logrus.WithFields(logrus.Fields{
		"function":     "NewPacketizer",
		"payload_type": payloadType,
	}).Info("Creating new LTC packetizer")

	if payloadType < 96 || payloadType > 127 {
		logrus.WithFields(logrus.Fields{
			"function":     "NewPacketizer",
			"payload_type": payloadType,
		}).Error("Payload type outside dynamic range")
		return nil, fmt.Errorf("%w: payload type %d outside 96..127", limits.ErrOutOfBounds, payloadType)
	}

	ssrcBytes := make([]byte, 4)
	if _, err := rand.Read(ssrcBytes); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewPacketizer",
			"error":    err.Error(),
		}).Error("Failed to generate SSRC")
		return nil, fmt.Errorf("failed to generate SSRC: %w", err)
	}
	ssrc := binary.BigEndian.Uint32(ssrcBytes)

	logrus.WithFields(logrus.Fields{
		"function": "NewPacketizer",
		"ssrc":     ssrc,
	}).Info("LTC packetizer created successfully")

	return &Packetizer{
		ssrc:        ssrc,
		payloadType: payloadType,
		maxPayload:  limits.MaxRTPPayload,
	}, nil
}

// Packetize splits samples into RTP packets of at most limits.MaxRTPPayload
// samples each and returns the marshaled datagrams. The first packet of the
// stream carries the marker bit.
func (p *Packetizer) Packetize(samples []uint8) ([][]byte, error) {
	if len(samples) == 0 {
		return nil, limits.ErrEmpty
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([][]byte, 0, (len(samples)+p.maxPayload-1)/p.maxPayload)
	for len(samples) > 0 {
		n := min(len(samples), p.maxPayload)
		chunk := samples[:n]
		samples = samples[n:]
		if err := limits.ValidateRTPPayload(chunk); err != nil {
			return nil, err
		}

		packet := &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         !p.started,
				PayloadType:    p.payloadType,
				SequenceNumber: p.sequenceNumber,
				Timestamp:      p.timestamp,
				SSRC:           p.ssrc,
			},
			Payload: chunk,
		}
		data, err := packet.Marshal()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Packetizer.Packetize",
				"error":    err.Error(),
			}).Error("Failed to marshal RTP packet")
			return nil, fmt.Errorf("failed to marshal RTP packet: %w", err)
		}
		out = append(out, data)

		p.started = true
		p.sequenceNumber++
		p.timestamp += uint32(n)
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Packetizer.Packetize",
		"packets":       len(out),
		"next_sequence": p.sequenceNumber,
		"timestamp":     p.timestamp,
	}).Debug("Samples packetized")

	return out, nil
}

// SSRC returns the stream's synchronization source identifier.
func (p *Packetizer) SSRC() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ssrc
}

// Timestamp returns the RTP timestamp of the next packet.
func (p *Packetizer) Timestamp() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timestamp
}
