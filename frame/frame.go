package frame

import (
	"math/bits"
)

// BitCount is the number of bits in one LTC frame.
const BitCount = 80

// ByteCount is the number of bytes in the wire representation.
const ByteCount = BitCount / 8

// SyncWord is the value of bits 64..79 as stored in a frame, bit 64 in the
// least significant position.
const SyncWord uint16 = 0xBFFC

// Sync patterns as seen by a reader that shifts each received bit into the
// low end of a 16-bit register.
const (
	SyncForward uint16 = 0x3FFD
	SyncReverse uint16 = 0xBFFC
)

// Field addresses a contiguous bit range of a frame. Offset counts from bit 0,
// the first bit on the wire.
type Field struct {
	Offset uint
	Width  uint
}

// Frame bit layout (SMPTE 12M).
var (
	FrameUnits      = Field{0, 4}
	User1           = Field{4, 4}
	FrameTens       = Field{8, 2}
	DropFrameBit    = Field{10, 1}
	ColorFrameBit   = Field{11, 1}
	User2           = Field{12, 4}
	SecsUnits       = Field{16, 4}
	User3           = Field{20, 4}
	SecsTens        = Field{24, 3}
	PhaseCorrection = Field{27, 1}
	User4           = Field{28, 4}
	MinsUnits       = Field{32, 4}
	User5           = Field{36, 4}
	MinsTens        = Field{40, 3}
	BGF0            = Field{43, 1}
	User6           = Field{44, 4}
	HoursUnits      = Field{48, 4}
	User7           = Field{52, 4}
	HoursTens       = Field{56, 2}
	BGF1            = Field{58, 1}
	BGF2            = Field{59, 1}
	User8           = Field{60, 4}
	Sync            = Field{64, 16}
)

// userFields lists the user-bit nibbles from least to most significant.
var userFields = [8]Field{User1, User2, User3, User4, User5, User6, User7, User8}

func (fl Field) mask() uint64 {
	return (uint64(1) << fl.Width) - 1
}

// Frame is one 80-bit LTC frame. The data word holds bits 0..63 and the sync
// word bits 64..79. The zero value has no sync word; use New for a valid
// empty frame.
type Frame struct {
	data uint64
	sync uint16
}

// New returns a reset frame: all fields zero and the sync word set.
func New() Frame {
	return Frame{sync: SyncWord}
}

// Reset clears all fields and restores the sync word.
func (f *Frame) Reset() {
	*f = New()
}

// FromWords builds a frame from its raw data and sync words.
func FromWords(data uint64, sync uint16) Frame {
	return Frame{data: data, sync: sync}
}

// Words returns the raw data and sync words.
func (f Frame) Words() (data uint64, sync uint16) {
	return f.data, f.sync
}

// Get reads a field.
func (f Frame) Get(fl Field) uint32 {
	if fl.Offset >= 64 {
		return uint32((uint64(f.sync) >> (fl.Offset - 64)) & fl.mask())
	}
	return uint32((f.data >> fl.Offset) & fl.mask())
}

// Set writes a field, truncating v to the field width.
func (f *Frame) Set(fl Field, v uint32) {
	m := fl.mask()
	if fl.Offset >= 64 {
		sh := fl.Offset - 64
		f.sync = uint16((uint64(f.sync) &^ (m << sh)) | ((uint64(v) & m) << sh))
		return
	}
	f.data = (f.data &^ (m << fl.Offset)) | ((uint64(v) & m) << fl.Offset)
}

// Bit returns bit i (0..79) in wire order.
func (f Frame) Bit(i int) uint8 {
	if i >= 64 {
		return uint8(f.sync>>(uint(i)-64)) & 1
	}
	return uint8(f.data>>uint(i)) & 1
}

// FlipBit inverts bit i.
func (f *Frame) FlipBit(i int) {
	if i >= 64 {
		f.sync ^= 1 << (uint(i) - 64)
		return
	}
	f.data ^= 1 << uint(i)
}

// Bytes returns the wire layout; byte i carries bits 8i..8i+7, LSB first.
func (f Frame) Bytes() [ByteCount]byte {
	var b [ByteCount]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(f.data >> (8 * uint(i)))
	}
	b[8] = byte(f.sync)
	b[9] = byte(f.sync >> 8)
	return b
}

// FromBytes is the inverse of Bytes.
func FromBytes(b [ByteCount]byte) Frame {
	var f Frame
	for i := 0; i < 8; i++ {
		f.data |= uint64(b[i]) << (8 * uint(i))
	}
	f.sync = uint16(b[8]) | uint16(b[9])<<8
	return f
}

// SyncWord returns bits 64..79.
func (f Frame) SyncWord() uint16 {
	return f.sync
}

// HasSync reports whether the sync word is the standard pattern.
func (f Frame) HasSync() bool {
	return f.sync == SyncWord
}

// DropFrame reports the drop-frame flag.
func (f Frame) DropFrame() bool {
	return f.Get(DropFrameBit) != 0
}

// SetDropFrame sets the drop-frame flag.
func (f *Frame) SetDropFrame(on bool) {
	f.Set(DropFrameBit, boolBit(on))
}

// ColorFrame reports the color-frame flag.
func (f Frame) ColorFrame() bool {
	return f.Get(ColorFrameBit) != 0
}

// SetColorFrame sets the color-frame flag.
func (f *Frame) SetColorFrame(on bool) {
	f.Set(ColorFrameBit, boolBit(on))
}

// UserBits packs user1..user8 into 32 bits, user8 in the top nibble.
func (f Frame) UserBits() uint32 {
	var v uint32
	for i := len(userFields) - 1; i >= 0; i-- {
		v = v<<4 | f.Get(userFields[i])
	}
	return v
}

// SetUserBits is the inverse of UserBits.
func (f *Frame) SetUserBits(v uint32) {
	for _, fl := range userFields {
		f.Set(fl, v&0xF)
		v >>= 4
	}
}

// Equal reports whether both frames carry identical bits.
func (f Frame) Equal(o Frame) bool {
	return f.data == o.data && f.sync == o.sync
}

// ReverseBits mirrors the 80 bits so that bit i moves to 79-i.
func (f Frame) ReverseBits() Frame {
	r := bits.Reverse64(f.data)
	return Frame{
		data: r<<16 | uint64(bits.Reverse16(f.sync)),
		sync: uint16(r >> 48),
	}
}

func (f Frame) population() int {
	return bits.OnesCount64(f.data) + bits.OnesCount16(f.sync)
}

func (f Frame) bcd(units, tens Field) int {
	return int(f.Get(units)) + 10*int(f.Get(tens))
}

func (f *Frame) setBCD(units, tens Field, v int) {
	f.Set(units, uint32(v%10))
	f.Set(tens, uint32(v/10))
}

func (f Frame) frames() int  { return f.bcd(FrameUnits, FrameTens) }
func (f Frame) seconds() int { return f.bcd(SecsUnits, SecsTens) }
func (f Frame) minutes() int { return f.bcd(MinsUnits, MinsTens) }
func (f Frame) hours() int   { return f.bcd(HoursUnits, HoursTens) }

func boolBit(on bool) uint32 {
	if on {
		return 1
	}
	return 0
}
