// Package encoder generates Linear Timecode audio.
//
// An Encoder holds one frame.Frame and modulates it into unsigned 8-bit mono
// PCM using biphase-mark coding: every bit starts with a transition and a
// one bit carries a second transition at its midpoint.
//
// # Usage
//
//	enc, err := encoder.New(encoder.Config{
//	    SampleRate: 48000,
//	    FPS:        25,
//	    Standard:   frame.TV625_50,
//	})
//	if err != nil {
//	    return err
//	}
//	enc.SetTimecode(timecode.New("+0000", 0, 0, 0, 10, 0, 0, 0))
//	for i := 0; i < 25; i++ {
//	    if err := enc.EncodeFrame(); err != nil {
//	        return err
//	    }
//	    sink.Write(enc.Buffer(true))
//	    enc.IncTimecode()
//	}
//
// # Buffer
//
// The output buffer holds 1 + ceil(SampleRate/FPS) samples, one frame plus
// the closing transition written by EndEncode. Buffer returns a view that the
// next encode call overwrites; CopyBuffer returns an owned copy. Growing the
// sample rate or frame rate requires SetBufferSize before Reinit.
//
// # Signal Shape
//
// SetVolume sets the peak level in dBFS (default -3). SetFilter sets the
// transition rise time (default 40µs); zero yields a square wave.
package encoder
