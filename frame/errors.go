package frame

import "errors"

// ErrInvalidFrameArithmeticResult indicates a frame step that could not
// produce a valid wrapped/not-wrapped outcome, such as a date roll over a
// corrupt month or a non-positive frame rate.
var ErrInvalidFrameArithmeticResult = errors.New("invalid frame arithmetic result")
