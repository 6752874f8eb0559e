package frame

// GroupFlags is the decoded state of the binary group flags of a frame,
// normalised across standards.
type GroupFlags struct {
	// BGF holds BGF2<<2 | BGF1<<1 | BGF0.
	BGF         uint8
	ParityValid bool
}

// UseDate reports BGF2, set when the user bits carry a SMPTE 309M date.
func (g GroupFlags) UseDate() bool { return g.BGF&4 != 0 }

// ClockMode reports BGF1, set when the timecode is locked to a clock.
func (g GroupFlags) ClockMode() bool { return g.BGF&2 != 0 }

// Flags converts the parsed state into encoder flags that reproduce it.
func (g GroupFlags) Flags() Flags {
	var f Flags
	if g.UseDate() {
		f |= UseDate
	}
	if g.ClockMode() {
		f |= ClockMode
	}
	if !g.ParityValid {
		f |= NoParity
	}
	return f
}

// SetParity sets the polarity correction bit so the frame carries an even
// number of ones.
func (f *Frame) SetParity(standard Standard) {
	pf := standard.ParityField()
	f.Set(pf, 0)
	if f.population()%2 != 0 {
		f.Set(pf, 1)
	}
}

// ParityValid reports whether the frame has even parity.
func (f Frame) ParityValid() bool {
	return f.population()%2 == 0
}

// ParseFlags reads the binary group flags laid out for standard.
func (f Frame) ParseFlags(standard Standard) GroupFlags {
	b0, b1, b2 := standard.groupFields()
	return GroupFlags{
		BGF:         uint8(f.Get(b2)<<2 | f.Get(b1)<<1 | f.Get(b0)),
		ParityValid: f.ParityValid(),
	}
}

// SetGroupFlags writes BGF0..BGF2 for standard from flags: BGF2 carries
// UseDate, BGF1 ClockMode, BGF0 is cleared along with the color-frame bit.
func (f *Frame) SetGroupFlags(standard Standard, flags Flags) {
	b0, b1, b2 := standard.groupFields()
	f.SetColorFrame(false)
	f.Set(b0, 0)
	f.Set(b1, boolBit(flags.Has(ClockMode)))
	f.Set(b2, boolBit(flags.Has(UseDate)))
}
