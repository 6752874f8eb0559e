// Package limits provides centralized numeric bounds and validation functions
// for the LTC engines. This package ensures consistent parameter enforcement
// across the encoder, the decoder and the RTP carrier.
//
// # Bounds
//
//   - MinSampleRate .. MaxSampleRate (1 Hz .. 768 kHz): audio sample rate
//     accepted by the encoder.
//
//   - MaxFPS (120): upper bound on the video frame rate. LTC itself is only
//     defined for 24, 25, 29.97 and 30 fps, but varispeed material may
//     run faster.
//
//   - MaxBufferSamples: the largest per-frame encoder buffer, reached at
//     MaxSampleRate and one frame per second.
//
//   - MaxQueueSize (65536): decoder frame queue capacity.
//
//   - MaxRTPPayload (1200 bytes): largest sample payload per RTP packet.
//
// # Validation Functions
//
// Each validation function returns an error wrapping ErrOutOfBounds (or
// ErrEmpty for empty payloads) with the offending value in the message:
//
//	if err := limits.ValidateSampleRate(sr); err != nil {
//	    return fmt.Errorf("%w: %v", encoder.ErrCreate, err)
//	}
//
// SamplesPerFrame computes the buffer size rule 1 + ceil(sampleRate/fps)
// after validating both inputs.
package limits
