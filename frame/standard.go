package frame

import (
	"fmt"
	"math"
	"strings"
)

// Standard selects the television system an LTC stream is locked to. It
// determines the nominal frame rate, whether drop-frame counting is legal
// and where the parity bit lives.
type Standard int

const (
	// TV525_60 is NTSC: 30 fps nominal, 29.97 with drop-frame counting.
	TV525_60 Standard = iota
	// TV625_50 is PAL/SECAM: 25 fps.
	TV625_50
	// TV1125_60 is 1125-line HD: 30 fps.
	TV1125_60
	// Film24 is 24 fps film.
	Film24
)

// FPS returns the nominal integer frame count per second.
func (s Standard) FPS() int {
	switch s {
	case TV625_50:
		return 25
	case Film24:
		return 24
	default:
		return 30
	}
}

// DropFrameAllowed reports whether drop-frame numbering may be used.
func (s Standard) DropFrameAllowed() bool {
	return s == TV525_60
}

// ParityField returns the bit carrying the polarity correction (parity) bit.
// 25 fps streams use bit 59, all others bit 27.
func (s Standard) ParityField() Field {
	if s == TV625_50 {
		return BGF2
	}
	return PhaseCorrection
}

// groupFields returns the wire positions of the logical BGF0, BGF1 and BGF2
// flags, which move around in 25 fps streams.
func (s Standard) groupFields() (bgf0, bgf1, bgf2 Field) {
	if s == TV625_50 {
		return PhaseCorrection, BGF1, BGF0
	}
	return BGF0, BGF1, BGF2
}

// String returns the conventional line/field name of the standard.
func (s Standard) String() string {
	switch s {
	case TV525_60:
		return "525/60"
	case TV625_50:
		return "625/50"
	case TV1125_60:
		return "1125/60"
	case Film24:
		return "film24"
	default:
		return fmt.Sprintf("Standard(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Standard) MarshalText() ([]byte, error) {
	if s < TV525_60 || s > Film24 {
		return nil, fmt.Errorf("unknown tv standard %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Standard) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "525/60", "525", "ntsc":
		*s = TV525_60
	case "625/50", "625", "pal":
		*s = TV625_50
	case "1125/60", "1125", "hd":
		*s = TV1125_60
	case "film24", "film", "24":
		*s = Film24
	default:
		return fmt.Errorf("unknown tv standard %q", string(text))
	}
	return nil
}

// StandardForFPS picks the standard matching a frame rate: 25 maps to
// 625/50, 24 to film and anything else (29.97, 30) to 525/60.
func StandardForFPS(fps float64) Standard {
	switch int(math.Round(fps)) {
	case 25:
		return TV625_50
	case 24:
		return Film24
	default:
		return TV525_60
	}
}

// IsDropFrameRate reports whether fps is the NTSC 29.97 rate.
func IsDropFrameRate(fps float64) bool {
	return math.RoundToEven(fps*100) == 2997
}
