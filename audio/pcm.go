package audio

// The encoder produces unsigned 8-bit mono PCM centered on 128. These
// helpers widen it for sinks that expect other sample formats. Each writes
// into dst, which must hold at least len(src) samples (len(src)*2 bytes for
// S16LE), and returns the number of samples written.

const center = 128

// U8ToS16 converts unsigned 8-bit samples to signed 16-bit.
func U8ToS16(dst []int16, src []uint8) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = int16(int(src[i])-center) << 8
	}
	return n
}

// U8ToFloat32 converts unsigned 8-bit samples to -1..1 floats.
func U8ToFloat32(dst []float32, src []uint8) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float32(int(src[i])-center) / 127
	}
	return n
}

// U8ToS16LE converts unsigned 8-bit samples to little-endian signed 16-bit
// bytes, the layout used by most audio sinks and WAV data chunks.
func U8ToS16LE(dst []byte, src []uint8) int {
	n := min(len(dst)/2, len(src))
	for i := 0; i < n; i++ {
		s := int16(int(src[i])-center) << 8
		dst[i*2] = byte(s)
		dst[i*2+1] = byte(s >> 8)
	}
	return n
}

// S16LEToS16 reads little-endian signed 16-bit bytes.
func S16LEToS16(dst []int16, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := 0; i < n; i++ {
		dst[i] = int16(src[i*2]) | int16(src[i*2+1])<<8
	}
	return n
}
