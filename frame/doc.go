// Package frame implements the 80-bit SMPTE 12M Linear Timecode frame.
//
// A Frame is stored as a 64-bit data word (bits 0..63) and a 16-bit sync
// word (bits 64..79), addressed through Field descriptors carrying explicit
// bit offsets. Bit 0 is the first bit on the wire.
//
// # Layout
//
//	 0- 3 frame units       4- 7 user1        8- 9 frame tens
//	10    drop frame       11    color frame  12-15 user2
//	16-19 seconds units    20-23 user3        24-26 seconds tens
//	27    phase correction 28-31 user4        32-35 minutes units
//	36-39 user5            40-42 minutes tens 43    BGF0
//	44-47 user6            48-51 hours units  52-55 user7
//	56-57 hours tens       58    BGF1         59    BGF2
//	60-63 user8            64-79 sync word
//
// # Conversions
//
//	f := frame.FromTimecode(tc, frame.TV625_50, frame.UseDate)
//	back := f.Timecode(frame.UseDate)
//
// # Arithmetic
//
// Increment and Decrement step one frame at a time and report whether the
// 24-hour clock wrapped. Drop-frame counting follows the NTSC rule of
// skipping labels 00 and 01 at each minute not divisible by ten.
package frame
