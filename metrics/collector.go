package metrics

import (
	"github.com/opd-ai/ltc/decoder"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ltc"

// Collector exports encoder and decoder activity as Prometheus metrics. It
// implements both encoder.Observer and decoder.Observer, so one collector
// can watch a whole loop.
type Collector struct {
	// Encoder metrics
	FramesEncoded  prometheus.Counter
	SamplesEncoded prometheus.Counter

	// Decoder metrics
	FramesDecoded *prometheus.CounterVec
	FramesEvicted prometheus.Counter
	Volume        prometheus.Gauge
	FrameSamples  prometheus.Histogram
}

// NewCollector creates the metrics and registers them with reg. A nil reg
// uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		FramesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_encoded_total",
			Help:      "Total number of LTC frames rendered to audio",
		}),
		SamplesEncoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_encoded_total",
			Help:      "Total number of audio samples produced by the encoder",
		}),
		FramesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Total number of LTC frames recovered from audio",
		}, []string{"direction"}),
		FramesEvicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_evicted_total",
			Help:      "Total number of decoded frames dropped from a full queue",
		}),
		Volume: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "decoder_volume_dbfs",
			Help:      "Peak-to-peak level of the last decoded frame in dBFS",
		}),
		FrameSamples: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_samples",
			Help:      "Length of decoded frames in samples",
			Buckets:   prometheus.ExponentialBuckets(200, 2, 12), // 200 to ~400k samples
		}),
	}
}

// FrameEncoded records one encoded frame of n samples.
func (c *Collector) FrameEncoded(samples int) {
	c.FramesEncoded.Inc()
	c.SamplesEncoded.Add(float64(samples))
}

// FrameDecoded records a decoded frame.
func (c *Collector) FrameDecoded(x decoder.FrameExt) {
	direction := "forward"
	if x.Reverse {
		direction = "reverse"
	}
	c.FramesDecoded.WithLabelValues(direction).Inc()
	c.FrameSamples.Observe(float64(x.Samples()))
	c.Volume.Set(x.Volume)
}

// FrameEvicted records a frame lost to queue overflow.
func (c *Collector) FrameEvicted(decoder.FrameExt) {
	c.FramesEvicted.Inc()
}
