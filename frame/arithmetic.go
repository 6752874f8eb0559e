package frame

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func monthLength(month, year int) int {
	// two-digit years: every fourth one is a leap year, 2000 included
	if month == 2 && year%4 == 0 {
		return 29
	}
	return daysPerMonth[month-1]
}

// Increment advances the frame by one video frame. It reports true when the
// timecode wrapped from 23:59:59 to 00:00:00. With UseDate the date in the
// user bits moves along with a wrap; a stored month outside 1..12 makes that
// impossible and yields ErrInvalidFrameArithmeticResult, in which case the
// time fields have still advanced.
//
// Drop-frame numbering (drop-frame bit set) skips frames 00 and 01 at the
// start of every minute except each tenth.
func (f *Frame) Increment(fps int, standard Standard, flags Flags) (bool, error) {
	if fps <= 0 {
		return false, fmt.Errorf("%w: fps %d", ErrInvalidFrameArithmeticResult, fps)
	}

	h, m, s, fr := f.hours(), f.minutes(), f.seconds(), f.frames()
	wrapped := false

	fr++
	if fr >= fps {
		fr = 0
		s++
		if s >= 60 {
			s = 0
			m++
			if m >= 60 {
				m = 0
				h++
				if h >= 24 {
					h = 0
					wrapped = true
				}
			}
		}
	}

	if f.DropFrame() && m%10 != 0 && s == 0 && fr == 0 {
		fr = 2
	}

	f.setBCD(HoursUnits, HoursTens, h)
	f.setBCD(MinsUnits, MinsTens, m)
	f.setBCD(SecsUnits, SecsTens, s)
	f.setBCD(FrameUnits, FrameTens, fr)

	var err error
	if wrapped && flags.Has(UseDate) {
		err = f.stepDate(1)
	}
	if !flags.Has(NoParity) {
		f.SetParity(standard)
	}
	if err != nil {
		return false, err
	}
	if wrapped {
		logrus.WithFields(logrus.Fields{
			"function": "Frame.Increment",
			"standard": standard.String(),
		}).Debug("Timecode wrapped past midnight")
	}
	return wrapped, nil
}

// Decrement moves the frame back by one video frame. It reports true when
// the timecode wrapped from 00:00:00:00 to 23:59:59. Date handling and
// drop-frame rules mirror Increment.
func (f *Frame) Decrement(fps int, standard Standard, flags Flags) (bool, error) {
	if fps <= 0 {
		return false, fmt.Errorf("%w: fps %d", ErrInvalidFrameArithmeticResult, fps)
	}

	h, m, s, fr := f.hours(), f.minutes(), f.seconds(), f.frames()
	wrapped := false

	stepBack := func() {
		if fr > 0 {
			fr--
			return
		}
		fr = fps - 1
		if s > 0 {
			s--
			return
		}
		s = 59
		if m > 0 {
			m--
			return
		}
		m = 59
		if h > 0 {
			h--
			return
		}
		h = 23
		wrapped = true
	}

	stepBack()
	if f.DropFrame() && m%10 != 0 && s == 0 && fr < 2 {
		// land on the last frame of the previous minute
		fr = 0
		stepBack()
	}

	f.setBCD(HoursUnits, HoursTens, h)
	f.setBCD(MinsUnits, MinsTens, m)
	f.setBCD(SecsUnits, SecsTens, s)
	f.setBCD(FrameUnits, FrameTens, fr)

	var err error
	if wrapped && flags.Has(UseDate) {
		err = f.stepDate(-1)
	}
	if !flags.Has(NoParity) {
		f.SetParity(standard)
	}
	if err != nil {
		return false, err
	}
	return wrapped, nil
}

// stepDate moves the user-bit date one day forward (dir > 0) or back.
func (f *Frame) stepDate(dir int) error {
	year := f.bcd(User5, User6)
	month := f.bcd(User3, User4)
	day := f.bcd(User1, User2)

	if month < 1 || month > 12 {
		logrus.WithFields(logrus.Fields{
			"function": "Frame.stepDate",
			"month":    month,
		}).Warn("Cannot roll date with invalid month")
		return fmt.Errorf("%w: month %d in user bits", ErrInvalidFrameArithmeticResult, month)
	}

	if dir > 0 {
		day++
		if day > monthLength(month, year) {
			day = 1
			month++
			if month > 12 {
				month = 1
				year = (year + 1) % 100
			}
		}
	} else {
		day--
		if day < 1 {
			month--
			if month < 1 {
				month = 12
				year = (year + 99) % 100
			}
			day = monthLength(month, year)
		}
	}

	f.setBCD(User5, User6, year)
	f.setBCD(User3, User4, month)
	f.setBCD(User1, User2, day)
	return nil
}
