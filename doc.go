// Package ltc embeds SMPTE/EBU Linear Timecode in audio and recovers it.
//
// LTC carries an 80-bit frame per video frame as a biphase-mark signal: every
// bit period starts with a transition and a one bit adds a second transition
// halfway through. The frame holds BCD hours, minutes, seconds and frames,
// 32 user bits (optionally a SMPTE 309M date and timezone), flag bits and a
// 16-bit sync word that also reveals the playback direction.
//
// # Getting Started
//
// Encode one second of timecode and decode it again:
//
//	enc, err := encoder.New(encoder.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enc.SetTimecode(timecode.New("+0100", 24, 2, 29, 10, 0, 0, 0))
//
//	dec, err := decoder.New(1920, 32)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var pos int64
//	for i := 0; i < 25; i++ {
//	    enc.EncodeFrame()
//	    buf := enc.Buffer(true)
//	    dec.Write(buf, pos)
//	    pos += int64(len(buf))
//	    enc.IncTimecode()
//	}
//
//	for {
//	    x, ok := dec.Read()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(x.Timecode(frame.UseDate), x.OffStart, x.OffEnd)
//	}
//
// # Core Types
//
//   - [timecode.Timecode]: wall-clock time and optional date
//   - [frame.Frame]: the 80-bit wire record with field accessors and
//     frame arithmetic
//   - [encoder.Encoder]: renders frames to unsigned 8-bit audio
//   - [decoder.Decoder]: recovers frames from 8-bit, 16-bit or float audio
//   - [decoder.FrameExt]: a decoded frame with stream offsets, direction and
//     signal level
//
// # Thread Safety
//
// Encoders and decoders are owned by one goroutine at a time. The rtp
// packetizer and depacketizer and the metrics collector are safe for
// concurrent use.
//
// # Integration Architecture
//
//   - [limits]: numeric bounds shared by all packages
//   - [audio]: sample format conversion and Opus packet ingest
//   - [rtp]: RTP carriage of encoder output
//   - [config]: YAML configuration and engine construction
//   - [metrics]: Prometheus instrumentation through the engine observers
//
// See examples/ltc_loopback_demo for a complete encode, transport and decode
// loop.
package ltc
