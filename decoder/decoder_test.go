package decoder

import (
	"errors"
	"math"
	"testing"

	"github.com/opd-ai/ltc/encoder"
	"github.com/opd-ai/ltc/frame"
	"github.com/opd-ai/ltc/limits"
	"github.com/opd-ai/ltc/timecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeStream encodes n consecutive frames starting at tc and closes the
// signal. It returns the samples and the encoded timecodes in order.
func encodeStream(t *testing.T, cfg encoder.Config, tc timecode.Timecode, n int, square bool) ([]uint8, []timecode.Timecode) {
	t.Helper()
	enc, err := encoder.New(cfg)
	require.NoError(t, err)
	if square {
		enc.SetFilter(0)
	}
	enc.SetTimecode(tc)

	var out []uint8
	var tcs []timecode.Timecode
	for i := 0; i < n; i++ {
		tcs = append(tcs, enc.Timecode())
		require.NoError(t, enc.EncodeFrame())
		out = append(out, enc.CopyBuffer()...)
		_, err := enc.IncTimecode()
		require.NoError(t, err)
	}
	require.NoError(t, enc.EndEncode())
	out = append(out, enc.CopyBuffer()...)
	return out, tcs
}

func readAll(d *Decoder) []FrameExt {
	var frames []FrameExt
	for {
		x, ok := d.Read()
		if !ok {
			return frames
		}
		frames = append(frames, x)
	}
}

func reversed(buf []uint8) []uint8 {
	out := make([]uint8, len(buf))
	for i, v := range buf {
		out[len(buf)-1-i] = v
	}
	return out
}

func apvFor(cfg encoder.Config) int {
	return int(cfg.SampleRate / cfg.FPS)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		apv       int
		queueSize int
		expectErr bool
	}{
		{name: "valid", apv: 1920, queueSize: 8},
		{name: "single_slot", apv: 1601, queueSize: 1},
		{name: "zero_queue", apv: 1920, queueSize: 0, expectErr: true},
		{name: "negative_queue", apv: 1920, queueSize: -1, expectErr: true},
		{name: "oversized_queue", apv: 1920, queueSize: limits.MaxQueueSize + 1, expectErr: true},
		{name: "zero_apv", apv: 0, queueSize: 8, expectErr: true},
		{name: "negative_apv", apv: -1920, queueSize: 8, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.apv, tt.queueSize)
			if tt.expectErr {
				assert.True(t, errors.Is(err, ErrCreate))
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.queueSize, d.QueueCapacity())
			assert.Equal(t, 0, d.QueueLength())
			assert.Equal(t, SeekingSync, d.State())
			assert.Equal(t, tt.apv, d.APV())
		})
	}
}

func TestEncodeDecodeLoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  encoder.Config
	}{
		{name: "pal_48k", cfg: encoder.Config{SampleRate: 48000, FPS: 25, Standard: frame.TV625_50}},
		{name: "ntsc_drop_48k", cfg: encoder.Config{SampleRate: 48000, FPS: 29.97, Standard: frame.TV525_60}},
		{name: "ntsc_30_48k", cfg: encoder.Config{SampleRate: 48000, FPS: 30, Standard: frame.TV525_60}},
		{name: "film_44k1", cfg: encoder.Config{SampleRate: 44100, FPS: 24, Standard: frame.Film24}},
		{name: "pal_192k", cfg: encoder.Config{SampleRate: 192000, FPS: 25, Standard: frame.TV625_50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fps := int(math.Round(tt.cfg.FPS))
			start := timecode.New("+0000", 0, 0, 0, 10, 59, 59, 0)
			samples, tcs := encodeStream(t, tt.cfg, start, fps, false)

			d, err := New(apvFor(tt.cfg), 64)
			require.NoError(t, err)
			d.Write(samples, 0)

			frames := readAll(d)
			require.Len(t, frames, fps)
			for i, x := range frames {
				assert.False(t, x.Reverse)
				assert.Equal(t, tcs[i], x.Timecode(0), "frame %d", i)
				assert.True(t, x.Frame.ParityValid(), "frame %d", i)
				assert.True(t, x.Frame.HasSync())
			}
			assert.Equal(t, SeekingSync, d.State())
		})
	}
}

func TestDecodeOffsets(t *testing.T) {
	cfg := encoder.DefaultConfig()
	samples, _ := encodeStream(t, cfg, timecode.Timecode{}, 25, true)

	d, err := New(1920, 32)
	require.NoError(t, err)
	const base = int64(1_000_000)
	d.Write(samples, base)

	frames := readAll(d)
	require.Len(t, frames, 25)
	for i, x := range frames {
		assert.Equal(t, base+int64(i*1920), x.OffStart, "frame %d", i)
		assert.Equal(t, base+int64((i+1)*1920-1), x.OffEnd, "frame %d", i)
		assert.Equal(t, int64(1920), x.Samples())
		assert.InDelta(t, 1.0, x.Speed(1920), 1e-9)
		for k, tic := range x.BiphaseTics {
			assert.Equal(t, float32(24), tic, "frame %d bit %d", i, k)
		}
	}
}

func TestChunkedWrites(t *testing.T) {
	samples, _ := encodeStream(t, encoder.DefaultConfig(), timecode.Timecode{}, 25, false)

	whole, err := New(1920, 32)
	require.NoError(t, err)
	whole.Write(samples, 0)
	expected := readAll(whole)

	chunked, err := New(1920, 32)
	require.NoError(t, err)
	for pos := 0; pos < len(samples); pos += 1000 {
		end := pos + 1000
		if end > len(samples) {
			end = len(samples)
		}
		chunked.Write(samples[pos:end], int64(pos))
	}

	assert.Equal(t, expected, readAll(chunked))
}

func TestReversedSignal(t *testing.T) {
	cfg := encoder.DefaultConfig()
	samples, tcs := encodeStream(t, cfg, timecode.New("+0000", 0, 0, 0, 0, 0, 0, 0), 25, false)

	enc, err := encoder.New(cfg)
	require.NoError(t, err)
	low, high := enc.Levels()

	back := reversed(samples)
	// close the first bit of the first frame, which forward playback opens
	closing := low
	if samples[0] < 128 {
		closing = high
	}
	back = append(back, closing)

	d, err := New(apvFor(cfg), 64)
	require.NoError(t, err)
	d.Write(back, 0)

	frames := readAll(d)
	require.Len(t, frames, 25)
	for i, x := range frames {
		assert.True(t, x.Reverse, "frame %d", i)
		assert.Equal(t, tcs[len(tcs)-1-i], x.Timecode(0), "frame %d", i)
		assert.Less(t, x.OffStart, x.OffEnd)
		assert.InDelta(t, -1.0, x.Speed(1920), 0.01)
	}
}

func TestEncodeReversedFrame(t *testing.T) {
	enc, err := encoder.New(encoder.DefaultConfig())
	require.NoError(t, err)
	tc := timecode.New("+0000", 0, 0, 0, 12, 34, 56, 7)
	enc.SetTimecode(tc)
	require.NoError(t, enc.EncodeReversedFrame())
	require.NoError(t, enc.EndEncode())

	d, err := New(1920, 4)
	require.NoError(t, err)
	d.Write(enc.CopyBuffer(), 0)

	x, ok := d.Read()
	require.True(t, ok)
	assert.True(t, x.Reverse)
	assert.Equal(t, tc, x.Timecode(0))
	assert.True(t, x.Frame.Equal(enc.Frame()))

	_, ok = d.Read()
	assert.False(t, ok)
}

func TestSampleFormats(t *testing.T) {
	samples, tcs := encodeStream(t, encoder.DefaultConfig(), timecode.New("+0000", 0, 0, 0, 1, 0, 0, 0), 25, false)

	f64 := make([]float64, len(samples))
	f32 := make([]float32, len(samples))
	s16 := make([]int16, len(samples))
	u16 := make([]uint16, len(samples))
	for i, v := range samples {
		f64[i] = (float64(v) - 128) / 127
		f32[i] = float32(f64[i])
		s16[i] = int16(int(v)-128) << 8
		u16[i] = uint16(v) << 8
	}

	writers := map[string]func(d *Decoder){
		"u8":  func(d *Decoder) { d.Write(samples, 0) },
		"f64": func(d *Decoder) { d.WriteFloat64(f64, 0) },
		"f32": func(d *Decoder) { d.WriteFloat32(f32, 0) },
		"s16": func(d *Decoder) { d.WriteS16(s16, 0) },
		"u16": func(d *Decoder) { d.WriteU16(u16, 0) },
	}

	for name, write := range writers {
		t.Run(name, func(t *testing.T) {
			d, err := New(1920, 32)
			require.NoError(t, err)
			write(d)

			frames := readAll(d)
			require.Len(t, frames, 25)
			for i, x := range frames {
				assert.Equal(t, tcs[i], x.Timecode(0))
			}
		})
	}
}

func TestFloatClipping(t *testing.T) {
	assert.Equal(t, uint8(0), floatToU8(-2))
	assert.Equal(t, uint8(255), floatToU8(3))
	assert.Equal(t, uint8(128), floatToU8(0))
	assert.Equal(t, uint8(0), floatToU8(math.NaN()))
}

func TestVolumeAndExtrema(t *testing.T) {
	samples, _ := encodeStream(t, encoder.DefaultConfig(), timecode.Timecode{}, 5, true)

	d, err := New(1920, 8)
	require.NoError(t, err)
	d.Write(samples, 0)

	frames := readAll(d)
	require.Len(t, frames, 5)
	for _, x := range frames {
		assert.Equal(t, uint8(38), x.SampleMin)
		assert.Equal(t, uint8(218), x.SampleMax)
		assert.InDelta(t, 20*math.Log10(180.0/255.0), x.Volume, 1e-9)
	}
}

func TestDateRoundTrip(t *testing.T) {
	cfg := encoder.Config{SampleRate: 48000, FPS: 25, Standard: frame.TV625_50, Flags: frame.UseDate}
	start := timecode.New("+0100", 24, 2, 29, 23, 59, 59, 20)
	samples, tcs := encodeStream(t, cfg, start, 10, false)

	d, err := New(1920, 16)
	require.NoError(t, err)
	d.Write(samples, 0)

	frames := readAll(d)
	require.Len(t, frames, 10)
	for i, x := range frames {
		assert.Equal(t, tcs[i], x.Timecode(frame.UseDate))
		assert.True(t, x.Frame.ParseFlags(frame.TV625_50).UseDate())
	}
	assert.Equal(t, uint8(3), frames[9].Timecode(frame.UseDate).Months, "date rolled into March")
}

type recordingObserver struct {
	decoded []FrameExt
	evicted []FrameExt
}

func (r *recordingObserver) FrameDecoded(x FrameExt) { r.decoded = append(r.decoded, x) }
func (r *recordingObserver) FrameEvicted(x FrameExt) { r.evicted = append(r.evicted, x) }

func TestQueueSaturation(t *testing.T) {
	samples, tcs := encodeStream(t, encoder.DefaultConfig(), timecode.Timecode{}, 25, false)

	d, err := New(1920, 4)
	require.NoError(t, err)
	obs := &recordingObserver{}
	d.SetObserver(obs)
	d.Write(samples, 0)

	assert.Equal(t, 4, d.QueueLength())
	assert.Equal(t, FrameReady, d.State())
	assert.Len(t, obs.decoded, 25)
	require.Len(t, obs.evicted, 21)
	assert.Equal(t, tcs[0], obs.evicted[0].Timecode(0))

	frames := readAll(d)
	require.Len(t, frames, 4)
	for i, x := range frames {
		assert.Equal(t, tcs[21+i], x.Timecode(0))
	}
}

func TestQueueFlush(t *testing.T) {
	samples, _ := encodeStream(t, encoder.DefaultConfig(), timecode.Timecode{}, 3, false)

	d, err := New(1920, 8)
	require.NoError(t, err)
	d.Write(samples, 0)
	require.Equal(t, 3, d.QueueLength())

	d.QueueFlush()
	assert.Equal(t, 0, d.QueueLength())
	_, ok := d.Read()
	assert.False(t, ok)
}

func TestSilenceResync(t *testing.T) {
	cfg := encoder.DefaultConfig()
	first, _ := encodeStream(t, cfg, timecode.New("+0000", 0, 0, 0, 0, 0, 0, 0), 25, false)
	second, tcs := encodeStream(t, cfg, timecode.New("+0000", 0, 0, 0, 0, 0, 1, 0), 25, false)

	silence := make([]uint8, 10000)
	for i := range silence {
		silence[i] = 128
	}

	d, err := New(1920, 64)
	require.NoError(t, err)
	pos := int64(0)
	for _, block := range [][]uint8{first, silence, second} {
		d.Write(block, pos)
		pos += int64(len(block))
	}

	frames := readAll(d)
	require.GreaterOrEqual(t, len(frames), 25+24)
	last := frames[len(frames)-1]
	assert.Equal(t, tcs[len(tcs)-1], last.Timecode(0))
	for _, x := range frames[25:] {
		assert.Greater(t, x.OffStart, int64(len(first)+len(silence))-1)
	}
}

func TestStateAndReset(t *testing.T) {
	samples, _ := encodeStream(t, encoder.DefaultConfig(), timecode.Timecode{}, 2, false)

	d, err := New(1920, 8)
	require.NoError(t, err)

	d.Write(samples[:1000], 0)
	assert.Equal(t, AccumulatingBits, d.State())

	d.Write(samples[1000:], 1000)
	assert.Equal(t, FrameReady, d.State())

	d.Reset()
	assert.Equal(t, SeekingSync, d.State())
	assert.Equal(t, 0, d.QueueLength())

	// a reset decoder decodes a fresh stream from position zero
	d.Write(samples, 0)
	assert.Equal(t, 2, d.QueueLength())
}

func TestFrameExtOwnsData(t *testing.T) {
	samples, _ := encodeStream(t, encoder.DefaultConfig(), timecode.New("+0000", 0, 0, 0, 1, 2, 3, 4), 2, false)

	d, err := New(1920, 8)
	require.NoError(t, err)
	d.Write(samples, 0)

	a, ok := d.Read()
	require.True(t, ok)
	copyOfA := a
	copyOfA.Frame.SetUserBits(0xFFFFFFFF)
	copyOfA.BiphaseTics[0] = 0

	assert.Equal(t, uint32(0), a.Frame.UserBits())
	assert.NotEqual(t, float32(0), a.BiphaseTics[0])
	assert.Equal(t, "01:02:03:04", a.Timecode(0).Clock(false))
	assert.Equal(t, "01:02:03:04", a.Timecode(0).Clock(false))
}
