// Package rtp carries LTC audio over RTP using pion/rtp.
//
// The payload is the encoder's unsigned 8-bit PCM, one byte per sample, with
// a dynamic payload type (96 by default). The RTP timestamp advances by the
// number of samples in each packet, so the receiver can reconstruct stream
// positions for the decoder across packet loss.
//
//	pz, _ := rtp.NewPacketizer(rtp.DefaultPayloadType)
//	packets, _ := pz.Packetize(enc.Buffer(true))
//
//	dec, _ := decoder.New(48000/25, 16)
//	dp := rtp.NewDepacketizer(dec, rtp.DefaultPayloadType, 4)
//	for _, pkt := range packets {
//	    dp.ProcessPacket(pkt)
//	}
//
// Packetizer, Depacketizer and JitterBuffer are safe for concurrent use.
package rtp
