package limits

import (
	"errors"
	"testing"
)

// TestMaxBufferSamplesCalculation verifies that MaxBufferSamples covers one
// frame per second at MaxSampleRate
func TestMaxBufferSamplesCalculation(t *testing.T) {
	n, err := SamplesPerFrame(MaxSampleRate, 1)
	if err != nil {
		t.Fatalf("SamplesPerFrame(MaxSampleRate, 1) failed: %v", err)
	}
	if n != MaxBufferSamples {
		t.Errorf("SamplesPerFrame(MaxSampleRate, 1) = %d, want %d", n, MaxBufferSamples)
	}
}

// TestSamplesPerFrame tests the 1 + ceil(rate/fps) rule at common rates
func TestSamplesPerFrame(t *testing.T) {
	tests := []struct {
		rate, fps float64
		want      int
	}{
		{48000, 25, 1921},
		{192000, 25, 7681},
		{192000, 30, 6401},
		{48000, 29.97, 1603},
		{44100, 24, 1839},
	}

	for _, tt := range tests {
		got, err := SamplesPerFrame(tt.rate, tt.fps)
		if err != nil {
			t.Fatalf("SamplesPerFrame(%g, %g) failed: %v", tt.rate, tt.fps, err)
		}
		if got != tt.want {
			t.Errorf("SamplesPerFrame(%g, %g) = %d, want %d", tt.rate, tt.fps, got, tt.want)
		}
	}
}

// TestValidationBounds tests boundary values of each validator
func TestValidationBounds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"sample rate zero", ValidateSampleRate(0), true},
		{"sample rate min", ValidateSampleRate(MinSampleRate), false},
		{"sample rate above max", ValidateSampleRate(MaxSampleRate + 1), true},
		{"fps zero", ValidateFPS(0), true},
		{"fps negative", ValidateFPS(-25), true},
		{"fps ntsc", ValidateFPS(29.97), false},
		{"fps above max", ValidateFPS(MaxFPS + 1), true},
		{"queue zero", ValidateQueueSize(0), true},
		{"queue one", ValidateQueueSize(1), false},
		{"queue max", ValidateQueueSize(MaxQueueSize), false},
		{"queue above max", ValidateQueueSize(MaxQueueSize + 1), true},
		{"payload max", ValidateRTPPayload(make([]byte, MaxRTPPayload)), false},
		{"payload above max", ValidateRTPPayload(make([]byte, MaxRTPPayload+1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				if !errors.Is(tt.err, ErrOutOfBounds) {
					t.Errorf("expected ErrOutOfBounds, got %v", tt.err)
				}
			} else if tt.err != nil {
				t.Errorf("unexpected error: %v", tt.err)
			}
		})
	}
}

// TestEmptyPayload tests that empty payloads report ErrEmpty
func TestEmptyPayload(t *testing.T) {
	if err := ValidateRTPPayload(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("ValidateRTPPayload(nil) = %v, want ErrEmpty", err)
	}
}
