package decoder

import (
	"github.com/opd-ai/ltc/frame"
	"github.com/opd-ai/ltc/timecode"
)

// FrameExt is a decoded frame together with where and how it was received.
// It holds no references, so every copy owns its data.
type FrameExt struct {
	// Frame is the decoded 80-bit frame in wire bit order.
	Frame frame.Frame
	// OffStart is the stream position of the first sample of the frame.
	OffStart int64
	// OffEnd is the stream position of the last sample of the frame.
	OffEnd int64
	// Reverse is set when the frame was read from a signal played backwards.
	Reverse bool
	// BiphaseTics holds the measured duration of each bit in samples,
	// indexed by frame bit number.
	BiphaseTics [frame.BitCount]float32
	// SampleMin and SampleMax are the signal extrema, normalised to 0..255,
	// seen while the frame was received.
	SampleMin uint8
	SampleMax uint8
	// Volume is the peak-to-peak level in dBFS.
	Volume float64
}

// Timecode decodes the frame's time fields and, with frame.UseDate, its date.
func (x FrameExt) Timecode(flags frame.Flags) timecode.Timecode {
	return x.Frame.Timecode(flags)
}

// Samples returns the frame length in samples.
func (x FrameExt) Samples() int64 {
	return x.OffEnd - x.OffStart + 1
}

// Speed estimates the playback speed relative to apv samples per frame.
// Reverse frames report a negative speed.
func (x FrameExt) Speed(apv int) float64 {
	if x.Samples() <= 0 {
		return 0
	}
	s := float64(apv) / float64(x.Samples())
	if x.Reverse {
		return -s
	}
	return s
}
