package limits

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinSampleRate is the lowest accepted audio sample rate in Hz
	MinSampleRate = 1.0

	// MaxSampleRate bounds the audio sample rate (768 kHz)
	// Higher rates only inflate buffers without improving LTC timing
	MaxSampleRate = 768000.0

	// MaxFPS bounds the video frame rate
	MaxFPS = 120.0

	// MaxBufferSamples is the largest encoder buffer one frame may need
	// (MaxSampleRate at one frame per second)
	MaxBufferSamples = 1 + int(MaxSampleRate)

	// MaxQueueSize bounds the decoder frame queue
	MaxQueueSize = 1 << 16

	// MaxRTPPayload is the largest sample payload carried in one RTP packet
	// It keeps packets under a 1500 byte Ethernet MTU with IP/UDP/RTP headers
	MaxRTPPayload = 1200
)

var (
	// ErrOutOfBounds indicates a parameter outside its accepted range
	ErrOutOfBounds = errors.New("parameter out of bounds")

	// ErrEmpty indicates an empty buffer was provided
	ErrEmpty = errors.New("empty buffer")
)

// ValidateSampleRate checks a sample rate against MinSampleRate and MaxSampleRate.
func ValidateSampleRate(sampleRate float64) error {
	if math.IsNaN(sampleRate) || sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return fmt.Errorf("%w: sample rate %g outside [%g, %g]", ErrOutOfBounds, sampleRate, MinSampleRate, MaxSampleRate)
	}
	return nil
}

// ValidateFPS checks a frame rate is positive and no larger than MaxFPS.
func ValidateFPS(fps float64) error {
	if math.IsNaN(fps) || fps <= 0 || fps > MaxFPS {
		return fmt.Errorf("%w: fps %g outside (0, %g]", ErrOutOfBounds, fps, MaxFPS)
	}
	return nil
}

// ValidateQueueSize checks a decoder queue capacity.
func ValidateQueueSize(size int) error {
	if size <= 0 || size > MaxQueueSize {
		return fmt.Errorf("%w: queue size %d outside [1, %d]", ErrOutOfBounds, size, MaxQueueSize)
	}
	return nil
}

// ValidateRTPPayload validates a sample payload against MaxRTPPayload.
// Returns an error with context if the payload is empty or exceeds the limit.
func ValidateRTPPayload(payload []byte) error {
	if len(payload) == 0 {
		return ErrEmpty
	}
	if len(payload) > MaxRTPPayload {
		return fmt.Errorf("%w: payload size %d exceeds limit %d", ErrOutOfBounds, len(payload), MaxRTPPayload)
	}
	return nil
}

// SamplesPerFrame returns the encoder buffer size needed for one video frame:
// one sample of headroom plus the rounded-up sample count.
func SamplesPerFrame(sampleRate, fps float64) (int, error) {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return 0, err
	}
	if err := ValidateFPS(fps); err != nil {
		return 0, err
	}
	n := 1 + int(math.Ceil(sampleRate/fps))
	if n > MaxBufferSamples {
		return 0, fmt.Errorf("%w: buffer of %d samples exceeds limit %d", ErrOutOfBounds, n, MaxBufferSamples)
	}
	return n, nil
}
