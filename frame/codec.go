package frame

import (
	"math"

	"github.com/opd-ai/ltc/timecode"
)

// timezoneCodes maps SMPTE 309M offset codes carried in user7/user8 to
// textual offsets.
var timezoneCodes = map[uint8]string{
	0x00: "+0000",
	0x01: "-0100", 0x02: "-0200", 0x03: "-0300", 0x04: "-0400",
	0x05: "-0500", 0x06: "-0600", 0x07: "-0700", 0x08: "-0800",
	0x09: "-0900", 0x0A: "-0030", 0x0B: "-0130", 0x0C: "-0230",
	0x0D: "-0330", 0x0E: "-0430", 0x0F: "-0530",
	0x10: "-1000", 0x11: "-1100", 0x12: "-1200", 0x13: "+1300",
	0x14: "+1200", 0x15: "+1100", 0x16: "+1000", 0x17: "+0900",
	0x18: "+0800", 0x19: "+0700", 0x1A: "-0630", 0x1B: "-0730",
	0x1C: "-0830", 0x1D: "-0930", 0x1E: "-1030", 0x1F: "-1130",
	0x20: "+0600", 0x21: "+0500", 0x22: "+0400", 0x23: "+0300",
	0x24: "+0200", 0x25: "+0100",
}

var timezoneByName = func() map[string]uint8 {
	m := make(map[string]uint8, len(timezoneCodes))
	for code, name := range timezoneCodes {
		m[name] = code
	}
	return m
}()

// TimezoneCode returns the SMPTE 309M code for a "+HHMM" offset. Unknown
// offsets map to UTC.
func TimezoneCode(tz string) uint8 {
	return timezoneByName[tz]
}

// TimezoneName returns the offset for a SMPTE 309M code, UTC if unknown.
func TimezoneName(code uint8) string {
	if name, ok := timezoneCodes[code]; ok {
		return name
	}
	return timecode.DefaultTimezone
}

// FromTimecode returns a reset frame carrying tc.
func FromTimecode(tc timecode.Timecode, standard Standard, flags Flags) Frame {
	f := New()
	f.SetTimecode(tc, standard, flags)
	return f
}

// SetTimecode writes tc into the time fields and, with UseDate, the date and
// timezone into the user bits. Other bits are left alone, so a drop-frame
// flag already present is honored: a label that drop-frame counting skips is
// moved forward to the first legal frame.
func (f *Frame) SetTimecode(tc timecode.Timecode, standard Standard, flags Flags) {
	if flags.Has(UseDate) {
		code := TimezoneCode(tc.Timezone)
		f.Set(User7, uint32(code&0x0F))
		f.Set(User8, uint32(code>>4))
		f.setBCD(User5, User6, int(tc.Years))
		f.setBCD(User3, User4, int(tc.Months))
		f.setBCD(User1, User2, int(tc.Days))
	}

	f.setBCD(HoursUnits, HoursTens, int(tc.Hours))
	f.setBCD(MinsUnits, MinsTens, int(tc.Minutes))
	f.setBCD(SecsUnits, SecsTens, int(tc.Seconds))
	f.setBCD(FrameUnits, FrameTens, int(tc.Frame))

	if f.DropFrame() {
		f.skipDroppedLabel()
	}
	if !flags.Has(NoParity) {
		f.SetParity(standard)
	}
}

// Timecode reads the time fields. With UseDate the date and timezone are
// decoded from the user bits; otherwise they are zero and the timezone is
// UTC.
func (f Frame) Timecode(flags Flags) timecode.Timecode {
	tc := timecode.Timecode{
		Timezone: timecode.DefaultTimezone,
		Hours:    uint8(f.hours()),
		Minutes:  uint8(f.minutes()),
		Seconds:  uint8(f.seconds()),
		Frame:    uint8(f.frames()),
	}
	if flags.Has(UseDate) {
		tc.Timezone = TimezoneName(uint8(f.Get(User7) | f.Get(User8)<<4))
		tc.Years = uint8(f.bcd(User5, User6))
		tc.Months = uint8(f.bcd(User3, User4))
		tc.Days = uint8(f.bcd(User1, User2))
	}
	return tc
}

// skipDroppedLabel moves frame 00 at the start of a non-tenth minute to 02.
func (f *Frame) skipDroppedLabel() {
	if f.minutes()%10 != 0 && f.seconds() == 0 && f.frames() == 0 {
		f.setBCD(FrameUnits, FrameTens, 2)
	}
}

// Alignment returns the expected sample offset between the LTC frame start
// and the video frame boundary for a standard at the given samples per frame.
func Alignment(samplesPerFrame float64, standard Standard) int64 {
	switch standard {
	case TV525_60:
		return int64(math.RoundToEven(samplesPerFrame * 4.0 / 525.0))
	case TV625_50:
		return int64(math.RoundToEven(samplesPerFrame * 1.0 / 625.0))
	default:
		return 0
	}
}
