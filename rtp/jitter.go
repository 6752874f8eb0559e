package rtp

import (
	"sync"

	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

// JitterBuffer reorders packets by sequence number. It holds up to depth
// out-of-order packets waiting for a missing one; beyond that the gap is
// skipped. A depth of zero releases packets as soon as they arrive.
type JitterBuffer struct {
	mu       sync.Mutex
	depth    int
	packets  map[uint16]*rtp.Packet
	next     uint16
	hasNext  bool
	released bool
	late     uint64
}

// NewJitterBuffer creates a new jitter buffer.
//
// Parameters:
//   - depth: number of packets to hold while waiting for a missing one
//
// Returns:
//   - *JitterBuffer: New jitter buffer instance
func NewJitterBuffer(depth int) *JitterBuffer {
	if depth < 0 {
		depth = 0
	}
	logrus.WithFields(logrus.Fields{
		"function": "NewJitterBuffer",
		"depth":    depth,
	}).Info("Creating new jitter buffer")

	return &JitterBuffer{
		depth:   depth,
		packets: make(map[uint16]*rtp.Packet),
	}
}

// seqBefore reports whether a precedes b in wrapping sequence space.
func seqBefore(a, b uint16) bool {
	return int16(a-b) < 0
}

// Add stores a packet. It returns false for packets that arrive after their
// slot was already released or skipped.
func (jb *JitterBuffer) Add(p *rtp.Packet) bool {
	jb.mu.Lock()
	defer jb.mu.Unlock()

	seq := p.SequenceNumber
	switch {
	case !jb.hasNext:
		jb.next = seq
		jb.hasNext = true
	case seqBefore(seq, jb.next):
		if jb.released {
			jb.late++
			logrus.WithFields(logrus.Fields{
				"function": "JitterBuffer.Add",
				"sequence": seq,
				"expected": jb.next,
			}).Debug("Dropping late packet")
			return false
		}
		jb.next = seq
	}
	jb.packets[seq] = p
	return true
}

// Pop returns the next packet in sequence order, if it is available or if
// the buffer holds more than depth packets.
func (jb *JitterBuffer) Pop() (*rtp.Packet, bool) {
	jb.mu.Lock()
	defer jb.mu.Unlock()

	if p, ok := jb.packets[jb.next]; ok {
		return jb.release(p), true
	}
	if len(jb.packets) > jb.depth {
		return jb.release(jb.earliest()), true
	}
	return nil, false
}

// Flush returns all held packets in sequence order, skipping gaps.
func (jb *JitterBuffer) Flush() []*rtp.Packet {
	jb.mu.Lock()
	defer jb.mu.Unlock()

	out := make([]*rtp.Packet, 0, len(jb.packets))
	for len(jb.packets) > 0 {
		out = append(out, jb.release(jb.earliest()))
	}
	return out
}

// Len returns the number of held packets.
func (jb *JitterBuffer) Len() int {
	jb.mu.Lock()
	defer jb.mu.Unlock()
	return len(jb.packets)
}

// Late returns the number of packets dropped for arriving too late.
func (jb *JitterBuffer) Late() uint64 {
	jb.mu.Lock()
	defer jb.mu.Unlock()
	return jb.late
}

// Reset clears the jitter buffer.
func (jb *JitterBuffer) Reset() {
	jb.mu.Lock()
	defer jb.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":     "JitterBuffer.Reset",
		"packet_count": len(jb.packets),
	}).Info("Resetting jitter buffer")

	jb.packets = make(map[uint16]*rtp.Packet)
	jb.hasNext = false
	jb.released = false
}

func (jb *JitterBuffer) earliest() *rtp.Packet {
	var best *rtp.Packet
	for seq, p := range jb.packets {
		if best == nil || uint16(seq-jb.next) < uint16(best.SequenceNumber-jb.next) {
			best = p
		}
	}
	return best
}

func (jb *JitterBuffer) release(p *rtp.Packet) *rtp.Packet {
	delete(jb.packets, p.SequenceNumber)
	jb.next = p.SequenceNumber + 1
	jb.released = true
	return p
}
