package metrics

import (
	"math"
	"testing"

	"github.com/opd-ai/ltc/decoder"
	"github.com/opd-ai/ltc/encoder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather returns metric values keyed by family name and, for labelled
// metrics, by label value.
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "{" + lp.GetValue() + "}"
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestCollectorLoop(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	enc, err := encoder.New(encoder.DefaultConfig())
	require.NoError(t, err)
	enc.SetObserver(c)

	dec, err := decoder.New(1920, 4)
	require.NoError(t, err)
	dec.SetObserver(c)

	var samples []uint8
	for i := 0; i < 10; i++ {
		require.NoError(t, enc.EncodeFrame())
		samples = append(samples, enc.CopyBuffer()...)
		_, err := enc.IncTimecode()
		require.NoError(t, err)
	}
	require.NoError(t, enc.EndEncode())
	samples = append(samples, enc.CopyBuffer()...)
	dec.Write(samples, 0)

	v := gather(t, reg)
	assert.Equal(t, 10.0, v["ltc_frames_encoded_total"])
	assert.Equal(t, 19200.0, v["ltc_samples_encoded_total"])
	assert.Equal(t, 10.0, v["ltc_frames_decoded_total{forward}"])
	assert.Equal(t, 6.0, v["ltc_frames_evicted_total"])
	assert.Equal(t, 10.0, v["ltc_frame_duration_samples"])
	assert.Less(t, v["ltc_decoder_volume_dbfs"], 0.0)
	assert.Greater(t, v["ltc_decoder_volume_dbfs"], -6.0)
}

func TestCollectorDirectionLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.FrameDecoded(decoder.FrameExt{OffStart: 0, OffEnd: 1919, Volume: -3})
	c.FrameDecoded(decoder.FrameExt{OffStart: 1920, OffEnd: 3839, Reverse: true, Volume: math.Inf(-1)})
	c.FrameEvicted(decoder.FrameExt{})
	c.FrameEncoded(1920)

	v := gather(t, reg)
	assert.Equal(t, 1.0, v["ltc_frames_decoded_total{forward}"])
	assert.Equal(t, 1.0, v["ltc_frames_decoded_total{reverse}"])
	assert.Equal(t, 1.0, v["ltc_frames_evicted_total"])
	assert.Equal(t, 2.0, v["ltc_frame_duration_samples"])
	assert.True(t, math.IsInf(v["ltc_decoder_volume_dbfs"], -1))
	assert.Equal(t, 1920.0, v["ltc_samples_encoded_total"])
}

func TestNewCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)
	assert.Panics(t, func() { NewCollector(reg) })
}
