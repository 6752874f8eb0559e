package audio

import (
	"errors"
	"testing"

	"github.com/opd-ai/ltc/decoder"
	"github.com/opd-ai/ltc/encoder"
	"github.com/opd-ai/ltc/timecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestU8Conversions(t *testing.T) {
	src := []uint8{0, 1, 128, 218, 255}

	s16 := make([]int16, len(src))
	require.Equal(t, len(src), U8ToS16(s16, src))
	assert.Equal(t, []int16{-32768, -32512, 0, 23040, 32512}, s16)

	f32 := make([]float32, len(src))
	require.Equal(t, len(src), U8ToFloat32(f32, src))
	assert.InDelta(t, -1.0, f32[1], 1e-6)
	assert.Equal(t, float32(0), f32[2])
	assert.InDelta(t, 1.0, f32[4], 1e-6)

	le := make([]byte, len(src)*2)
	require.Equal(t, len(src), U8ToS16LE(le, src))
	back := make([]int16, len(src))
	require.Equal(t, len(src), S16LEToS16(back, le))
	assert.Equal(t, s16, back)
}

func TestConversionsRespectDestination(t *testing.T) {
	src := []uint8{1, 2, 3, 4}
	assert.Equal(t, 2, U8ToS16(make([]int16, 2), src))
	assert.Equal(t, 3, U8ToFloat32(make([]float32, 3), src))
	assert.Equal(t, 1, U8ToS16LE(make([]byte, 3), src))
	assert.Equal(t, 0, S16LEToS16(make([]int16, 4), []byte{1}))
}

// TestWidenedSignalDecodes feeds the encoder output through the 16-bit
// conversions into a decoder.
func TestWidenedSignalDecodes(t *testing.T) {
	enc, err := encoder.New(encoder.DefaultConfig())
	require.NoError(t, err)
	enc.SetTimecode(timecode.New("+0000", 0, 0, 0, 9, 8, 7, 6))

	dec, err := decoder.New(1920, 8)
	require.NoError(t, err)

	pos := int64(0)
	for i := 0; i < 3; i++ {
		require.NoError(t, enc.EncodeFrame())
		if i == 2 {
			require.NoError(t, enc.EndEncode())
		}
		buf := enc.Buffer(true)
		le := make([]byte, len(buf)*2)
		U8ToS16LE(le, buf)
		pcm := make([]int16, len(buf))
		S16LEToS16(pcm, le)
		dec.WriteS16(pcm, pos)
		pos += int64(len(pcm))
		_, err := enc.IncTimecode()
		require.NoError(t, err)
	}

	require.Equal(t, 3, dec.QueueLength())
	x, ok := dec.Read()
	require.True(t, ok)
	assert.Equal(t, "09:08:07:06", x.Timecode(0).Clock(false))
}

func TestPacketSamples(t *testing.T) {
	tests := []struct {
		name   string
		packet []byte
		want   int
	}{
		{name: "empty", packet: nil, want: 0},
		{name: "silk_nb_10ms", packet: []byte{0 << 3}, want: 480},
		{name: "silk_wb_20ms", packet: []byte{9 << 3}, want: 960},
		{name: "silk_wb_60ms", packet: []byte{11 << 3}, want: 2880},
		{name: "silk_two_frames", packet: []byte{9<<3 | 1}, want: 1920},
		{name: "hybrid_10ms", packet: []byte{12 << 3}, want: 480},
		{name: "celt_2_5ms", packet: []byte{16 << 3}, want: 120},
		{name: "celt_arbitrary_count", packet: []byte{31<<3 | 3, 4}, want: 3840},
		{name: "arbitrary_missing_count", packet: []byte{31<<3 | 3}, want: 0},
		{name: "over_120ms", packet: []byte{11<<3 | 3, 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PacketSamples(tt.packet))
		})
	}
}

func TestOpusSourceErrors(t *testing.T) {
	dec, err := decoder.New(OpusSampleRate/25, 4)
	require.NoError(t, err)
	src := NewOpusSource(dec)

	_, err = src.WritePacket(nil)
	assert.True(t, errors.Is(err, ErrEmptyPacket))

	// a truncated CELT packet is rejected by the Opus decoder
	_, err = src.WritePacket([]byte{0xFB})
	assert.Error(t, err)
	assert.Equal(t, int64(0), src.Position())
	assert.Equal(t, uint64(0), src.Packets())
}
