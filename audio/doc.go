// Package audio adapts LTC sample buffers to other audio representations.
//
// The encoder emits unsigned 8-bit mono PCM; the conversion helpers widen it
// to signed 16-bit, little-endian bytes or float32 for sinks that need them.
//
// # Opus Ingest
//
// OpusSource decodes Opus packets with pion/opus and writes the resulting
// 48 kHz PCM into a decoder.Decoder, advancing the stream position by the
// number of samples carried in each packet:
//
//	dec, _ := decoder.New(audio.OpusSampleRate/25, 16)
//	src := audio.NewOpusSource(dec)
//	for pkt := range packets {
//	    if _, err := src.WritePacket(pkt); err != nil {
//	        log.Println(err)
//	    }
//	}
//
// The pion/opus decoder supports SILK packets only; LTC survives wideband
// SILK because its fundamental lies between 1 and 2.4 kHz.
package audio
