// Package timecode holds the semantic SMPTE timecode value shared by the
// frame codec, the encoder and the decoder. It knows nothing about the
// 80-bit wire layout.
package timecode

import (
	"errors"
	"fmt"
)

// ErrOutOfRange indicates a timecode field outside its legal range.
var ErrOutOfRange = errors.New("timecode field out of range")

// DefaultTimezone is the offset reported when no date information is carried.
const DefaultTimezone = "+0000"

// CenturyPivot splits two-digit years: below it the year is in the 2000s,
// otherwise in the 1900s.
const CenturyPivot = 67

// Timecode is an hour:minute:second:frame value with an optional date and
// timezone offset.
type Timecode struct {
	Timezone string // "+HHMM" or "-HHMM"
	Years    uint8  // 0-99
	Months   uint8  // 1-12, 0 when no date is set
	Days     uint8  // 1-31, 0 when no date is set
	Hours    uint8
	Minutes  uint8
	Seconds  uint8
	Frame    uint8
}

// New returns a timecode with the given date and time fields.
func New(timezone string, years, months, days, hours, minutes, seconds, frame uint8) Timecode {
	return Timecode{
		Timezone: timezone,
		Years:    years,
		Months:   months,
		Days:     days,
		Hours:    hours,
		Minutes:  minutes,
		Seconds:  seconds,
		Frame:    frame,
	}
}

// HasDate reports whether any date field is set.
func (t Timecode) HasDate() bool {
	return t.Years != 0 || t.Months != 0 || t.Days != 0
}

// FullYear expands the two-digit year using CenturyPivot.
func (t Timecode) FullYear() int {
	if t.Years < CenturyPivot {
		return 2000 + int(t.Years)
	}
	return 1900 + int(t.Years)
}

// Validate checks every field against its range. fps bounds the frame
// field; a non-positive fps skips that check.
func (t Timecode) Validate(fps int) error {
	if t.Hours > 23 {
		return fmt.Errorf("%w: hours %d", ErrOutOfRange, t.Hours)
	}
	if t.Minutes > 59 {
		return fmt.Errorf("%w: minutes %d", ErrOutOfRange, t.Minutes)
	}
	if t.Seconds > 59 {
		return fmt.Errorf("%w: seconds %d", ErrOutOfRange, t.Seconds)
	}
	if fps > 0 && int(t.Frame) >= fps {
		return fmt.Errorf("%w: frame %d at %d fps", ErrOutOfRange, t.Frame, fps)
	}
	if t.Years > 99 {
		return fmt.Errorf("%w: years %d", ErrOutOfRange, t.Years)
	}
	if t.HasDate() {
		if t.Months < 1 || t.Months > 12 {
			return fmt.Errorf("%w: months %d", ErrOutOfRange, t.Months)
		}
		if t.Days < 1 || t.Days > 31 {
			return fmt.Errorf("%w: days %d", ErrOutOfRange, t.Days)
		}
	}
	if t.Timezone != "" && !ValidTimezone(t.Timezone) {
		return fmt.Errorf("%w: timezone %q", ErrOutOfRange, t.Timezone)
	}
	return nil
}

// ValidTimezone reports whether tz has the "+HHMM"/"-HHMM" shape.
func ValidTimezone(tz string) bool {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return false
	}
	for i := 1; i < 5; i++ {
		if tz[i] < '0' || tz[i] > '9' {
			return false
		}
	}
	return true
}

// Clock renders hh:mm:ss:ff. Drop-frame timecode uses '.' before the
// frame count, as is customary.
func (t Timecode) Clock(dropFrame bool) string {
	sep := ':'
	if dropFrame {
		sep = '.'
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", t.Hours, t.Minutes, t.Seconds, sep, t.Frame)
}

// String renders the full value as "YYYY-MM-DD +HHMM hh:mm:ss:ff".
func (t Timecode) String() string {
	tz := t.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	return fmt.Sprintf("%04d-%02d-%02d %s %s", t.FullYear(), t.Months, t.Days, tz, t.Clock(false))
}
