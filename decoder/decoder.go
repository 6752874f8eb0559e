package decoder

import (
	"fmt"
	"math"

	"github.com/opd-ai/ltc/frame"
	"github.com/opd-ai/ltc/limits"
	"github.com/sirupsen/logrus"
)

const (
	sampleCenter = 128

	// reverseLead is the number of bits that follow a reverse sync word
	// before the frame is complete.
	reverseLead = frame.BitCount - 16
)

// State describes what the decoder is waiting for.
type State int

const (
	// SeekingSync means no bits have been recovered since the last reset or
	// the last completed frame.
	SeekingSync State = iota
	// AccumulatingBits means bits are arriving but no frame is complete.
	AccumulatingBits
	// FrameReady means at least one decoded frame waits in the queue.
	FrameReady
)

func (s State) String() string {
	switch s {
	case SeekingSync:
		return "seeking_sync"
	case AccumulatingBits:
		return "accumulating_bits"
	case FrameReady:
		return "frame_ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer receives decoder events. Implementations run on the goroutine
// calling Write.
type Observer interface {
	FrameDecoded(x FrameExt)
	FrameEvicted(x FrameExt)
}

// Decoder recovers LTC frames from audio samples.
//
// A Decoder is not safe for concurrent use; a producer feeding samples and a
// consumer calling Read from different goroutines must synchronize.
type Decoder struct {
	apv   int
	queue *frameQueue

	// edge detector
	started bool
	high    bool
	envMin  int
	envMax  int
	cnt     int
	period  float64
	limit   float64
	edgePos int64

	// biphase pairing
	pending      bool
	pendingStart int64
	pendingTics  int

	// 80-bit history, newest bit in lo bit 0
	hi       uint16
	lo       uint64
	bitCount int
	revLeft  int

	starts  [frame.BitCount]int64
	tics    [frame.BitCount]float32
	ringPos int

	frameMin uint8
	frameMax uint8

	observer Observer
}

// New creates a decoder expecting apv audio samples per video frame (the
// sample rate divided by the frame rate) and buffering up to queueSize
// frames.
//
// Parameters:
//   - apv: nominal samples per frame, used to seed bit period tracking
//   - queueSize: capacity of the decoded frame queue
//
// Returns:
//   - *Decoder: the decoder
//   - error: wraps ErrCreate when either parameter is out of range
func New(apv, queueSize int) (*Decoder, error) {
	logrus.WithFields(logrus.Fields{
		"function":   "decoder.New",
		"apv":        apv,
		"queue_size": queueSize,
	}).Info("Creating LTC decoder")

	if apv <= 0 {
		logrus.WithFields(logrus.Fields{
			"function": "decoder.New",
			"apv":      apv,
		}).Error("Samples per frame must be positive")
		return nil, fmt.Errorf("%w: apv %d must be positive", ErrCreate, apv)
	}
	if err := limits.ValidateQueueSize(queueSize); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "decoder.New",
			"error":    err.Error(),
		}).Error("Queue size validation failed")
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	d := &Decoder{
		apv:   apv,
		queue: newFrameQueue(queueSize),
	}
	d.resetSignal()
	return d, nil
}

// resetSignal forgets everything learned from the audio so far.
func (d *Decoder) resetSignal() {
	d.started = false
	d.high = false
	d.envMin = sampleCenter
	d.envMax = sampleCenter
	d.cnt = 0
	d.period = float64(d.apv) / frame.BitCount
	d.limit = d.period * 3 / 4
	d.edgePos = 0
	d.pending = false
	d.hi, d.lo = 0, 0
	d.bitCount = 0
	d.revLeft = 0
	d.ringPos = 0
	d.starts = [frame.BitCount]int64{}
	d.tics = [frame.BitCount]float32{}
	d.frameMin = math.MaxUint8
	d.frameMax = 0
}

// Write feeds unsigned 8-bit samples. posinfo is the stream position of the
// first sample; it should continue where the previous call ended.
func (d *Decoder) Write(buf []uint8, posinfo int64) {
	for i, v := range buf {
		d.sample(v, posinfo+int64(i))
	}
}

// WriteFloat64 feeds samples in -1..1; values outside are clipped.
func (d *Decoder) WriteFloat64(buf []float64, posinfo int64) {
	for i, v := range buf {
		d.sample(floatToU8(v), posinfo+int64(i))
	}
}

// WriteFloat32 feeds samples in -1..1; values outside are clipped.
func (d *Decoder) WriteFloat32(buf []float32, posinfo int64) {
	for i, v := range buf {
		d.sample(floatToU8(float64(v)), posinfo+int64(i))
	}
}

// WriteS16 feeds signed 16-bit samples.
func (d *Decoder) WriteS16(buf []int16, posinfo int64) {
	for i, v := range buf {
		d.sample(uint8(sampleCenter+int(v>>8)), posinfo+int64(i))
	}
}

// WriteU16 feeds unsigned 16-bit samples.
func (d *Decoder) WriteU16(buf []uint16, posinfo int64) {
	for i, v := range buf {
		d.sample(uint8(v>>8), posinfo+int64(i))
	}
}

func floatToU8(v float64) uint8 {
	x := sampleCenter + v*127
	switch {
	case x <= 0 || math.IsNaN(x):
		return 0
	case x >= math.MaxUint8:
		return math.MaxUint8
	}
	return uint8(x)
}

// sample runs the edge detector on one normalised sample. The envelope
// decays toward center so the thresholds follow level changes; a transition
// is a crossing of half the envelope on the opposite side of center.
func (d *Decoder) sample(v uint8, pos int64) {
	s := int(v)
	if !d.started {
		d.started = true
		d.high = s >= sampleCenter
		d.edgePos = pos
		d.cnt = 0
	}

	if v < d.frameMin {
		d.frameMin = v
	}
	if v > d.frameMax {
		d.frameMax = v
	}

	d.envMin = sampleCenter - (sampleCenter-d.envMin)*15/16
	d.envMax = sampleCenter + (d.envMax-sampleCenter)*15/16
	if s < d.envMin {
		d.envMin = s
	}
	if s > d.envMax {
		d.envMax = s
	}
	lowThreshold := sampleCenter - (sampleCenter-d.envMin)/2
	highThreshold := sampleCenter + (d.envMax-sampleCenter)/2

	if (d.high && s < lowThreshold) || (!d.high && s > highThreshold) {
		d.edge(pos)
		d.high = !d.high
	}
	d.cnt++
}

// edge classifies the interval ending at pos. A long interval is a zero
// bit, two short ones a one bit.
func (d *Decoder) edge(pos int64) {
	n := float64(d.cnt)
	start := d.edgePos
	d.edgePos = pos
	d.cnt = 0

	switch {
	case n > 4*d.period:
		// silence or a dropout; the next edge starts over
		d.pending = false
		d.bitCount = 0
		d.revLeft = 0
	case n < d.period/4:
		d.pending = false
	case n > d.limit:
		d.pending = false
		d.track(n)
		d.pushBit(0, start, n, pos)
	default:
		d.track(2 * n)
		if !d.pending {
			d.pending = true
			d.pendingStart = start
			d.pendingTics = int(n)
			return
		}
		d.pending = false
		d.pushBit(1, d.pendingStart, float64(d.pendingTics)+n, pos)
	}
}

// track follows speed changes with a first-order average of the bit period.
func (d *Decoder) track(bitLen float64) {
	d.period = (d.period*3 + bitLen) / 4
	d.limit = d.period * 3 / 4
}

func (d *Decoder) pushBit(b uint64, start int64, tics float64, edge int64) {
	d.hi = d.hi<<1 | uint16(d.lo>>63)
	d.lo = d.lo<<1 | b
	d.starts[d.ringPos] = start
	d.tics[d.ringPos] = float32(tics)
	d.ringPos = (d.ringPos + 1) % frame.BitCount
	if d.bitCount < frame.BitCount {
		d.bitCount++
	}

	sync := uint16(d.lo)
	if d.bitCount >= frame.BitCount && sync == frame.SyncForward {
		d.emit(false, edge)
		return
	}
	if d.revLeft > 0 {
		d.revLeft--
		if d.revLeft == 0 {
			d.emit(true, edge)
			return
		}
	}
	if d.bitCount >= 16 && sync == frame.SyncReverse {
		d.revLeft = reverseLead
	}
}

// ring returns the ring slot of the bit received ago bits before the newest.
func (d *Decoder) ring(ago int) int {
	return (d.ringPos - 1 - ago + 2*frame.BitCount) % frame.BitCount
}

func (d *Decoder) emit(reverse bool, edge int64) {
	x := FrameExt{
		OffStart:  d.starts[d.ring(frame.BitCount-1)],
		OffEnd:    edge - 1,
		Reverse:   reverse,
		SampleMin: d.frameMin,
		SampleMax: d.frameMax,
		Volume:    math.Inf(-1),
	}
	if d.frameMax > d.frameMin {
		x.Volume = 20 * math.Log10(float64(d.frameMax-d.frameMin)/math.MaxUint8)
	}

	if reverse {
		// bit 0 arrived last
		x.Frame = frame.FromWords(d.lo, d.hi)
		for k := 0; k < frame.BitCount; k++ {
			x.BiphaseTics[k] = d.tics[d.ring(k)]
		}
	} else {
		x.Frame = frame.FromWords(d.lo, d.hi).ReverseBits()
		for k := 0; k < frame.BitCount; k++ {
			x.BiphaseTics[k] = d.tics[d.ring(frame.BitCount-1-k)]
		}
	}

	d.bitCount = 0
	d.revLeft = 0
	d.frameMin = math.MaxUint8
	d.frameMax = 0

	logrus.WithFields(logrus.Fields{
		"function":  "Decoder.emit",
		"timecode":  x.Frame.Timecode(0).Clock(x.Frame.DropFrame()),
		"reverse":   reverse,
		"off_start": x.OffStart,
		"off_end":   x.OffEnd,
	}).Debug("Frame decoded")

	old, evicted := d.queue.push(x)
	if d.observer != nil {
		d.observer.FrameDecoded(x)
	}
	if evicted {
		logrus.WithFields(logrus.Fields{
			"function":  "Decoder.emit",
			"off_start": old.OffStart,
			"capacity":  d.queue.capacity(),
		}).Warn("Decoder queue full, dropped oldest frame")
		if d.observer != nil {
			d.observer.FrameEvicted(old)
		}
	}
}

// Read removes the oldest decoded frame from the queue. It reports false
// when the queue is empty.
func (d *Decoder) Read() (FrameExt, bool) {
	return d.queue.pop()
}

// QueueFlush discards all queued frames.
func (d *Decoder) QueueFlush() {
	d.queue.clear()
}

// QueueLength returns the number of queued frames.
func (d *Decoder) QueueLength() int {
	return d.queue.len()
}

// QueueCapacity returns the queue size the decoder was created with.
func (d *Decoder) QueueCapacity() int {
	return d.queue.capacity()
}

// State reports the decoder state.
func (d *Decoder) State() State {
	switch {
	case d.queue.len() > 0:
		return FrameReady
	case d.bitCount > 0 || d.pending:
		return AccumulatingBits
	default:
		return SeekingSync
	}
}

// APV returns the nominal samples per frame.
func (d *Decoder) APV() int {
	return d.apv
}

// Reset flushes the queue and discards all signal tracking state, as when
// starting on an unrelated stream.
func (d *Decoder) Reset() {
	d.queue.clear()
	d.resetSignal()

	logrus.WithFields(logrus.Fields{
		"function": "Decoder.Reset",
	}).Debug("Decoder reset")
}

// SetObserver installs o to receive decode events; nil removes it.
func (d *Decoder) SetObserver(o Observer) {
	d.observer = o
}
