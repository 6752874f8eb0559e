// Package decoder recovers Linear Timecode frames from audio.
//
// Samples are normalised to unsigned 8-bit levels and run through an edge
// detector whose thresholds follow a decaying signal envelope. The spacing
// between edges is compared with the tracked bit period: a long interval is
// a zero bit, two short intervals a one bit. Recovered bits shift into an
// 80-bit history which is checked for the sync word after every bit.
//
// # Direction
//
// Forward playback shows the sync word as the last 16 bits of a frame. A
// signal played backwards shows it reversed as the first 16 bits, and the
// frame completes 64 bits later. Decoded frames carry the direction in
// FrameExt.Reverse and are always returned in wire bit order.
//
// # Usage
//
//	dec, err := decoder.New(48000/25, 32)
//	if err != nil {
//	    return err
//	}
//	dec.WriteS16(pcm, pos)
//	for {
//	    x, ok := dec.Read()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(x.Timecode(frame.UseDate), x.OffStart)
//	}
//
// Decoded frames wait in a bounded queue. When it is full the oldest frame
// is dropped; Write never blocks and never fails.
package decoder
