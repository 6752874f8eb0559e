package decoder

import "errors"

// ErrCreate indicates invalid decoder construction parameters.
var ErrCreate = errors.New("decoder creation failed")
