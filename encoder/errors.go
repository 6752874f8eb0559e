package encoder

import "errors"

// Sentinel errors for encoder operations.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrCreate indicates invalid construction parameters.
	ErrCreate = errors.New("encoder creation failed")

	// ErrReinit indicates the current buffer cannot hold a frame at the new
	// sample rate and frame rate. Call SetBufferSize first when growing.
	ErrReinit = errors.New("encoder reinitialization failed")

	// ErrBufferSize indicates a buffer size request that violates the
	// sample rate to frame rate ratio.
	ErrBufferSize = errors.New("invalid encoder buffer size")

	// ErrVolume indicates an output level outside the accepted dBFS range.
	ErrVolume = errors.New("invalid encoder volume")

	// ErrEncode indicates an invalid encode-time state or parameter,
	// including a full output buffer.
	ErrEncode = errors.New("encode failed")
)
