package encoder

import (
	"fmt"
	"math"
	"time"

	"github.com/opd-ai/ltc/frame"
	"github.com/opd-ai/ltc/limits"
	"github.com/opd-ai/ltc/timecode"
	"github.com/sirupsen/logrus"
)

const (
	// sampleCenter is the zero level of unsigned 8-bit PCM.
	sampleCenter = 128

	// DefaultVolume is the output level applied by New, in dBFS.
	DefaultVolume = -3.0

	// DefaultRiseTime is the 10%-90% transition time recommended for LTC
	// (40 µs ± 10 µs).
	DefaultRiseTime = 40 * time.Microsecond
)

// State is the lifecycle state of an Encoder.
type State int

const (
	// Configured means no samples have been produced since construction,
	// Reinit or Reset.
	Configured State = iota
	// Encoding means at least one byte has been modulated.
	Encoding
	// Ended means EndEncode closed the signal.
	Ended
)

func (s State) String() string {
	switch s {
	case Configured:
		return "configured"
	case Encoding:
		return "encoding"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Observer receives encoder events. Implementations must be cheap; they run
// on the encoding goroutine.
type Observer interface {
	FrameEncoded(samples int)
}

// Config holds the parameters an Encoder is created or reinitialized with.
type Config struct {
	// SampleRate of the produced audio in Hz.
	SampleRate float64
	// FPS is the video frame rate, e.g. 25, 29.97, 30 or 24.
	FPS float64
	// Standard selects parity and binary group flag placement.
	Standard frame.Standard
	// Flags control date, clock, group flag and parity handling.
	Flags frame.Flags
}

// DefaultConfig returns a 48 kHz, 25 fps, 625/50 configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		FPS:        25,
		Standard:   frame.TV625_50,
	}
}

// Encoder turns the timecode held in its current Frame into biphase-mark
// modulated unsigned 8-bit PCM.
//
// An Encoder is not safe for concurrent use. The slice returned by Buffer
// aliases internal storage and is only valid until the next encode call.
type Encoder struct {
	sampleRate float64
	fps        float64
	standard   frame.Standard
	flags      frame.Flags

	f frame.Frame

	buf    []uint8
	offset int

	riseTime    time.Duration
	filterConst float64
	volume      float64
	encLo       uint8
	encHi       uint8

	level           bool
	remainder       float64
	samplesPerClock float64

	state    State
	observer Observer
}

// New creates an encoder for cfg with a buffer holding exactly one frame,
// the default volume and the default filter.
//
// Parameters:
//   - cfg: sample rate, frame rate, TV standard and flags
//
// Returns:
//   - *Encoder: the configured encoder
//   - error: wraps ErrCreate when the sample rate or frame rate is invalid
func New(cfg Config) (*Encoder, error) {
	logrus.WithFields(logrus.Fields{
		"function":    "encoder.New",
		"sample_rate": cfg.SampleRate,
		"fps":         cfg.FPS,
		"standard":    cfg.Standard.String(),
		"flags":       cfg.Flags.String(),
	}).Info("Creating LTC encoder")

	size, err := limits.SamplesPerFrame(cfg.SampleRate, cfg.FPS)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "encoder.New",
			"error":    err.Error(),
		}).Error("Encoder parameter validation failed")
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	e := &Encoder{
		buf: make([]uint8, size),
		f:   frame.New(),
	}
	if err := e.Reinit(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}
	if err := e.SetVolume(DefaultVolume); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreate, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "encoder.New",
		"buffer_size": len(e.buf),
	}).Info("LTC encoder created successfully")

	return e, nil
}

// Reinit applies a new configuration without reallocating; a smaller frame
// reuses the head of the existing allocation. The frame is kept
// but its group flags, drop-frame bit and parity are brought in line with
// cfg, and the filter returns to DefaultRiseTime.
//
// Returns an error wrapping ErrReinit when the new parameters are invalid or
// need a larger buffer than the current one.
func (e *Encoder) Reinit(cfg Config) error {
	size, err := limits.SamplesPerFrame(cfg.SampleRate, cfg.FPS)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.Reinit",
			"error":    err.Error(),
		}).Error("Reinit parameter validation failed")
		return fmt.Errorf("%w: %v", ErrReinit, err)
	}
	if size > cap(e.buf) {
		logrus.WithFields(logrus.Fields{
			"function":    "Encoder.Reinit",
			"required":    size,
			"buffer_size": cap(e.buf),
		}).Error("Encoder buffer too small for new parameters")
		return fmt.Errorf("%w: need %d samples, buffer holds %d", ErrReinit, size, cap(e.buf))
	}
	e.buf = e.buf[:size]

	e.sampleRate = cfg.SampleRate
	e.fps = cfg.FPS
	e.standard = cfg.Standard
	e.flags = cfg.Flags
	e.samplesPerClock = cfg.SampleRate / (cfg.FPS * frame.BitCount)
	e.rewind()
	e.SetFilter(DefaultRiseTime)
	e.applyFrameFlags()

	logrus.WithFields(logrus.Fields{
		"function":          "Encoder.Reinit",
		"sample_rate":       e.sampleRate,
		"fps":               e.fps,
		"standard":          e.standard.String(),
		"samples_per_clock": e.samplesPerClock,
	}).Info("Encoder reinitialized")

	return nil
}

// rewind empties the buffer and restarts the waveform.
func (e *Encoder) rewind() {
	e.offset = 0
	e.level = false
	e.remainder = 0.5
	e.state = Configured
}

func (e *Encoder) applyFrameFlags() {
	if !e.flags.Has(frame.PreserveBGF) {
		e.f.SetGroupFlags(e.standard, e.flags)
	}
	e.f.SetDropFrame(frame.IsDropFrameRate(e.fps))
	if !e.flags.Has(frame.NoParity) {
		e.f.SetParity(e.standard)
	}
}

// SetBufferSize reallocates the output buffer to hold one frame at the given
// rates. Buffered samples are discarded.
func (e *Encoder) SetBufferSize(sampleRate, fps float64) error {
	size, err := limits.SamplesPerFrame(sampleRate, fps)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.SetBufferSize",
			"error":    err.Error(),
		}).Error("Buffer size validation failed")
		return fmt.Errorf("%w: %v", ErrBufferSize, err)
	}
	e.buf = make([]uint8, size)
	e.offset = 0

	logrus.WithFields(logrus.Fields{
		"function":    "Encoder.SetBufferSize",
		"buffer_size": size,
	}).Info("Encoder buffer resized")
	return nil
}

// BufferSize returns the capacity of the output buffer in samples.
func (e *Encoder) BufferSize() int {
	return len(e.buf)
}

// SetVolume sets the peak output level in dBFS. 0 dBFS spans the full 8-bit
// range; the level must round to an amplitude of at least one step.
func (e *Encoder) SetVolume(dbfs float64) error {
	if math.IsNaN(dbfs) || dbfs > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.SetVolume",
			"dbfs":     dbfs,
		}).Error("Volume above full scale")
		return fmt.Errorf("%w: %g dBFS above full scale", ErrVolume, dbfs)
	}
	amp := math.RoundToEven(127.0 * math.Pow(10, dbfs/20.0))
	if amp < 1 || amp > 127 {
		logrus.WithFields(logrus.Fields{
			"function":  "Encoder.SetVolume",
			"dbfs":      dbfs,
			"amplitude": amp,
		}).Error("Volume outside representable range")
		return fmt.Errorf("%w: %g dBFS gives amplitude %g", ErrVolume, dbfs, amp)
	}
	e.volume = dbfs
	e.encLo = uint8(sampleCenter - int(amp))
	e.encHi = uint8(sampleCenter + int(amp))

	logrus.WithFields(logrus.Fields{
		"function": "Encoder.SetVolume",
		"dbfs":     dbfs,
		"low":      e.encLo,
		"high":     e.encHi,
	}).Debug("Encoder volume updated")
	return nil
}

// Volume returns the configured output level in dBFS.
func (e *Encoder) Volume() float64 {
	return e.volume
}

// Levels returns the low and high sample values of the square wave.
func (e *Encoder) Levels() (low, high uint8) {
	return e.encLo, e.encHi
}

// SetFilter sets the rise time of each transition. Zero or a negative value
// produces an ideal square wave.
//
// Each half of a transition is shaped as a first-order low-pass step that
// starts at the center level, so the time constant covers half the rise time.
func (e *Encoder) SetFilter(riseTime time.Duration) {
	if riseTime <= 0 {
		e.riseTime = 0
		e.filterConst = 0
		return
	}
	e.riseTime = riseTime
	halfRise := riseTime.Seconds() / 2
	e.filterConst = 1.0 - math.Exp(-1.0/(e.sampleRate*halfRise/math.E))
}

// Filter returns the configured rise time.
func (e *Encoder) Filter() time.Duration {
	return e.riseTime
}

// EncodeFrame modulates the 80 bits of the current frame into the buffer.
func (e *Encoder) EncodeFrame() error {
	start := e.offset
	for i := 0; i < frame.ByteCount; i++ {
		if err := e.EncodeByte(i, 1.0); err != nil {
			return err
		}
	}
	e.frameDone(e.offset-start, false)
	return nil
}

// EncodeReversedFrame modulates the current frame last bit first, producing
// a signal that decodes as forward playback when played backwards.
func (e *Encoder) EncodeReversedFrame() error {
	start := e.offset
	for i := frame.ByteCount - 1; i >= 0; i-- {
		if err := e.EncodeByte(i, -1.0); err != nil {
			return err
		}
	}
	e.frameDone(e.offset-start, true)
	return nil
}

func (e *Encoder) frameDone(samples int, reversed bool) {
	logrus.WithFields(logrus.Fields{
		"function": "Encoder.EncodeFrame",
		"timecode": e.f.Timecode(e.flags).Clock(e.f.DropFrame()),
		"samples":  samples,
		"reversed": reversed,
	}).Debug("Frame encoded")
	if e.observer != nil {
		e.observer.FrameEncoded(samples)
	}
}

// EncodeByte modulates byte idx (0..9) of the current frame. speed scales the
// bit duration; a negative speed emits the byte most significant bit first.
//
// Returns an error wrapping ErrEncode for an invalid index, a zero speed or
// when the buffer is full.
func (e *Encoder) EncodeByte(idx int, speed float64) error {
	if idx < 0 || idx >= frame.ByteCount {
		return fmt.Errorf("%w: byte index %d outside 0..%d", ErrEncode, idx, frame.ByteCount-1)
	}
	if speed == 0 || math.IsNaN(speed) {
		return fmt.Errorf("%w: speed %g", ErrEncode, speed)
	}

	c := e.f.Bytes()[idx]
	full := e.samplesPerClock * math.Abs(speed)
	half := full / 2

	e.state = Encoding
	for i := 0; i < 8; i++ {
		bit := uint(i)
		if speed < 0 {
			bit = uint(7 - i)
		}
		if c&(1<<bit) == 0 {
			if err := e.emit(full); err != nil {
				return err
			}
			continue
		}
		if err := e.emit(half); err != nil {
			return err
		}
		if err := e.emit(half); err != nil {
			return err
		}
	}
	return nil
}

// emit toggles the level and writes one segment of the given nominal length,
// carrying the fractional remainder into the next segment.
func (e *Encoder) emit(length float64) error {
	n := int(length + e.remainder)
	e.remainder = length + e.remainder - float64(n)
	e.level = !e.level
	return e.addValues(n)
}

func (e *Encoder) addValues(n int) error {
	if e.offset+n > len(e.buf) {
		return fmt.Errorf("%w: buffer full (%d + %d > %d)", ErrEncode, e.offset, n, len(e.buf))
	}

	target := e.encLo
	if e.level {
		target = e.encHi
	}
	wave := e.buf[e.offset : e.offset+n]

	if e.filterConst > 0 {
		// ramp away from center and mirror, so both edges of the segment
		// share the same slope
		val := float64(sampleCenter)
		for i := 0; i < (n+1)/2; i++ {
			val += e.filterConst * (float64(target) - val)
			s := uint8(math.Round(val))
			wave[i] = s
			wave[n-i-1] = s
		}
	} else {
		for i := range wave {
			wave[i] = target
		}
	}

	e.offset += n
	return nil
}

// EndEncode writes a single sample at the opposite level, closing the last
// bit period with a transition so a decoder can complete the final bit.
func (e *Encoder) EndEncode() error {
	if e.state != Encoding {
		return fmt.Errorf("%w: end of encode in %s state", ErrEncode, e.state)
	}
	if e.offset+1 > len(e.buf) {
		return fmt.Errorf("%w: no room for closing transition", ErrEncode)
	}
	e.level = !e.level
	if e.level {
		e.buf[e.offset] = e.encHi
	} else {
		e.buf[e.offset] = e.encLo
	}
	e.offset++
	e.state = Ended
	return nil
}

// State returns the lifecycle state.
func (e *Encoder) State() State {
	return e.state
}

// Buffer returns the encoded samples. The slice aliases the encoder's buffer
// and is overwritten by subsequent encode calls. With flush the write
// position is reset.
func (e *Encoder) Buffer(flush bool) []uint8 {
	out := e.buf[:e.offset]
	if flush {
		e.offset = 0
	}
	return out
}

// CopyBuffer returns a copy of the encoded samples and flushes the buffer.
func (e *Encoder) CopyBuffer() []uint8 {
	out := make([]uint8, e.offset)
	copy(out, e.buf[:e.offset])
	e.offset = 0
	return out
}

// FlushBuffer discards the encoded samples.
func (e *Encoder) FlushBuffer() {
	e.offset = 0
}

// SetTimecode writes tc into the current frame, keeping the drop-frame bit
// and group flags.
func (e *Encoder) SetTimecode(tc timecode.Timecode) {
	e.f.SetTimecode(tc, e.standard, e.flags)
}

// Timecode returns the timecode of the current frame.
func (e *Encoder) Timecode() timecode.Timecode {
	return e.f.Timecode(e.flags)
}

// SetFrame replaces the current frame verbatim.
func (e *Encoder) SetFrame(f frame.Frame) {
	e.f = f
}

// Frame returns a copy of the current frame.
func (e *Encoder) Frame() frame.Frame {
	return e.f
}

// SetUserBits stores data in the user bits of the current frame and restores
// parity unless NoParity is set.
func (e *Encoder) SetUserBits(data uint32) {
	e.f.SetUserBits(data)
	if !e.flags.Has(frame.NoParity) {
		e.f.SetParity(e.standard)
	}
}

// IncTimecode advances the current frame by one; it reports a wrap at
// midnight.
func (e *Encoder) IncTimecode() (bool, error) {
	return e.f.Increment(e.frameCount(), e.standard, e.flags)
}

// DecTimecode moves the current frame back by one; it reports a wrap at
// midnight.
func (e *Encoder) DecTimecode() (bool, error) {
	return e.f.Decrement(e.frameCount(), e.standard, e.flags)
}

// frameCount is the integer number of frame labels per second (30 for 29.97).
func (e *Encoder) frameCount() int {
	return int(math.RoundToEven(e.fps))
}

// Reset returns the encoder to the Configured state with an empty buffer and
// a zero timecode. Volume and filter settings are kept.
func (e *Encoder) Reset() {
	e.rewind()
	e.f.Reset()
	e.applyFrameFlags()

	logrus.WithFields(logrus.Fields{
		"function": "Encoder.Reset",
	}).Debug("Encoder reset")
}

// SetObserver installs o to receive encode events; nil removes it.
func (e *Encoder) SetObserver(o Observer) {
	e.observer = o
}

// SampleRate returns the configured sample rate in Hz.
func (e *Encoder) SampleRate() float64 { return e.sampleRate }

// FPS returns the configured frame rate.
func (e *Encoder) FPS() float64 { return e.fps }

// Standard returns the configured TV standard.
func (e *Encoder) Standard() frame.Standard { return e.standard }

// Flags returns the configured flags.
func (e *Encoder) Flags() frame.Flags { return e.flags }
