package frame

import (
	"fmt"
	"strings"
)

// Flags control how timecode is written into and read out of a frame.
// The numeric values match the binary-group flag constants used by other
// LTC implementations.
type Flags uint8

const (
	// UseDate stores a date and timezone in the user bits (SMPTE 309M).
	UseDate Flags = 1 << iota
	// ClockMode marks the timecode as locked to an external clock (BGF1).
	ClockMode
	// PreserveBGF keeps the encoder from rewriting binary group flags.
	PreserveBGF
	// NoParity disables the parity bit.
	NoParity
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{UseDate, "use_date"},
	{ClockMode, "clock"},
	{PreserveBGF, "preserve_bgf"},
	{NoParity, "no_parity"},
}

// Has reports whether every bit of other is set.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// String lists the set flags joined by '|'.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// ParseFlagNames combines flag names such as "use_date" or "clock".
func ParseFlagNames(names []string) (Flags, error) {
	var f Flags
	for _, n := range names {
		found := false
		for _, fn := range flagNames {
			if strings.EqualFold(strings.TrimSpace(n), fn.name) {
				f |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", n)
		}
	}
	return f, nil
}
