package rtp

import (
	"fmt"
	"sync"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

// SampleWriter consumes unsigned 8-bit samples at a stream position.
// *decoder.Decoder satisfies it.
type SampleWriter interface {
	Write(buf []uint8, posinfo int64)
}

// Depacketizer extracts LTC samples from RTP packets and writes them to a
// SampleWriter. RTP timestamps are unwrapped into a 64-bit stream position
// starting at zero with the first packet, so lost packets leave a matching
// gap in the positions the writer sees.
type Depacketizer struct {
	mu           sync.Mutex
	target       SampleWriter
	jitter       *JitterBuffer
	payloadType  uint8
	expectedSSRC uint32
	hasSSRC      bool
	lastSeq      uint16
	hasLastSeq   bool
	lastTS       uint32
	position     int64
	gaps         uint64
	samples      uint64
}

// NewDepacketizer creates a depacketizer for payloadType feeding target.
// depth sets how many packets the jitter buffer holds for reordering.
func NewDepacketizer(target SampleWriter, payloadType uint8, depth int) *Depacketizer {
	logrus.WithFields(logrus.Fields{
		"function":     "NewDepacketizer",
		"payload_type": payloadType,
		"depth":        depth,
	}).Info("Creating new LTC depacketizer")

	return &Depacketizer{
		target:      target,
		jitter:      NewJitterBuffer(depth),
		payloadType: payloadType,
	}
}

// ProcessPacket parses one datagram and writes every packet the jitter
// buffer releases to the target. It returns the number of samples written.
func (d *Depacketizer) ProcessPacket(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyPacket
	}

	// held packets outlive the caller's buffer
	buf := make([]byte, len(data))
	copy(buf, data)

	packet := &rtp.Packet{}
	if err := packet.Unmarshal(buf); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Depacketizer.ProcessPacket",
			"error":    err.Error(),
		}).Error("Failed to unmarshal RTP packet")
		return 0, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if packet.PayloadType != d.payloadType {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrUnexpectedPayloadType, d.payloadType, packet.PayloadType)
	}

	if !d.hasSSRC {
		d.expectedSSRC = packet.SSRC
		d.hasSSRC = true
		logrus.WithFields(logrus.Fields{
			"function": "Depacketizer.ProcessPacket",
			"ssrc":     packet.SSRC,
		}).Info("Accepted new SSRC for stream")
	} else if packet.SSRC != d.expectedSSRC {
		logrus.WithFields(logrus.Fields{
			"function":      "Depacketizer.ProcessPacket",
			"expected_ssrc": d.expectedSSRC,
			"received_ssrc": packet.SSRC,
		}).Warn("Unexpected SSRC in RTP packet")
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrUnexpectedSSRC, d.expectedSSRC, packet.SSRC)
	}

	d.jitter.Add(packet)
	written := 0
	for {
		p, ok := d.jitter.Pop()
		if !ok {
			break
		}
		written += d.deliver(p)
	}
	return written, nil
}

// Flush writes all packets still held by the jitter buffer.
func (d *Depacketizer) Flush() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	written := 0
	for _, p := range d.jitter.Flush() {
		written += d.deliver(p)
	}
	return written
}

func (d *Depacketizer) deliver(p *rtp.Packet) int {
	if d.hasLastSeq {
		expected := d.lastSeq + 1
		if p.SequenceNumber != expected {
			missing := uint64(uint16(p.SequenceNumber - expected))
			d.gaps += missing
			logrus.WithFields(logrus.Fields{
				"function":          "Depacketizer.deliver",
				"expected_sequence": expected,
				"received_sequence": p.SequenceNumber,
				"missing":           missing,
			}).Warn("Sequence gap detected in RTP stream")
		}
		d.position += int64(int32(p.Timestamp - d.lastTS))
	}
	d.lastSeq = p.SequenceNumber
	d.hasLastSeq = true
	d.lastTS = p.Timestamp

	d.target.Write(p.Payload, d.position)
	d.samples += uint64(len(p.Payload))
	return len(p.Payload)
}

// Position returns the stream position of the last delivered packet.
func (d *Depacketizer) Position() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

// Gaps returns the number of sequence numbers skipped so far.
func (d *Depacketizer) Gaps() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gaps
}

// Samples returns the number of samples written to the target.
func (d *Depacketizer) Samples() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.samples
}
