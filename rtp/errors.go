package rtp

import "errors"

var (
	// ErrEmptyPacket indicates an empty RTP datagram.
	ErrEmptyPacket = errors.New("rtp packet cannot be empty")

	// ErrMalformedPacket indicates a datagram that does not parse as RTP.
	ErrMalformedPacket = errors.New("malformed rtp packet")

	// ErrUnexpectedSSRC indicates a packet from a different stream than the
	// one the depacketizer locked onto.
	ErrUnexpectedSSRC = errors.New("unexpected ssrc")

	// ErrUnexpectedPayloadType indicates a packet with a payload type other
	// than the configured one.
	ErrUnexpectedPayloadType = errors.New("unexpected payload type")
)
