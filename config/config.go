package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/opd-ai/ltc/decoder"
	"github.com/opd-ai/ltc/encoder"
	"github.com/opd-ai/ltc/frame"
	"github.com/opd-ai/ltc/limits"
	"github.com/opd-ai/ltc/rtp"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// MinVolumeDBFS is the quietest level that still yields a one-step amplitude.
const MinVolumeDBFS = -48.0

// MaxRiseTime bounds the transition filter; beyond it the filter swallows
// whole bit periods at LTC rates.
const MaxRiseTime = time.Millisecond

// MaxJitterDepth bounds the RTP reordering window in packets.
const MaxJitterDepth = 64

// Config represents the complete LTC configuration
type Config struct {
	Encoder EncoderConfig `yaml:"encoder"`
	Decoder DecoderConfig `yaml:"decoder"`
	RTP     RTPConfig     `yaml:"rtp"`
	Logging LoggingConfig `yaml:"logging"`
}

// EncoderConfig contains the signal generation parameters
type EncoderConfig struct {
	SampleRate     float64        `yaml:"sample_rate"`
	FPS            float64        `yaml:"fps"`
	Standard       frame.Standard `yaml:"standard"`
	Flags          []string       `yaml:"flags,omitempty"`
	FilterRiseTime time.Duration  `yaml:"filter_rise_time"`
	VolumeDBFS     float64        `yaml:"volume_dbfs"`
	UserBits       uint32         `yaml:"user_bits"`
}

// DecoderConfig contains the decoder parameters. An APV of zero derives the
// samples per frame from the encoder section.
type DecoderConfig struct {
	APV       int `yaml:"apv"`
	QueueSize int `yaml:"queue_size"`
}

// RTPConfig contains the RTP carriage parameters
type RTPConfig struct {
	PayloadType uint8 `yaml:"payload_type"`
	JitterDepth int   `yaml:"jitter_depth"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a 48 kHz, 25 fps configuration with the encoder's
// default signal shape.
func Default() *Config {
	return &Config{
		Encoder: EncoderConfig{
			SampleRate:     48000,
			FPS:            25,
			Standard:       frame.TV625_50,
			FilterRiseTime: encoder.DefaultRiseTime,
			VolumeDBFS:     encoder.DefaultVolume,
		},
		Decoder: DecoderConfig{
			QueueSize: 32,
		},
		RTP: RTPConfig{
			PayloadType: rtp.DefaultPayloadType,
			JitterDepth: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return config, nil
}

// Parse decodes YAML over Default, so omitted keys keep their defaults, and
// validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Encoder.Validate(); err != nil {
		return fmt.Errorf("encoder config: %w", err)
	}

	if err := c.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder config: %w", err)
	}

	if err := c.RTP.Validate(); err != nil {
		return fmt.Errorf("rtp config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates encoder configuration
func (e *EncoderConfig) Validate() error {
	if _, err := limits.SamplesPerFrame(e.SampleRate, e.FPS); err != nil {
		return err
	}

	if _, err := e.Standard.MarshalText(); err != nil {
		return err
	}

	if _, err := frame.ParseFlagNames(e.Flags); err != nil {
		return err
	}

	if e.FilterRiseTime < 0 || e.FilterRiseTime > MaxRiseTime {
		return fmt.Errorf("filter_rise_time must be between 0 and %s, got %s", MaxRiseTime, e.FilterRiseTime)
	}

	if math.IsNaN(e.VolumeDBFS) || e.VolumeDBFS > 0 || e.VolumeDBFS < MinVolumeDBFS {
		return fmt.Errorf("volume_dbfs must be between %g and 0, got %g", MinVolumeDBFS, e.VolumeDBFS)
	}

	return nil
}

// Validate validates decoder configuration
func (d *DecoderConfig) Validate() error {
	if d.APV < 0 {
		return fmt.Errorf("apv cannot be negative, got %d", d.APV)
	}

	return limits.ValidateQueueSize(d.QueueSize)
}

// Validate validates RTP configuration
func (r *RTPConfig) Validate() error {
	if r.PayloadType < 96 || r.PayloadType > 127 {
		return fmt.Errorf("payload_type must be between 96 and 127, got %d", r.PayloadType)
	}

	if r.JitterDepth < 0 || r.JitterDepth > MaxJitterDepth {
		return fmt.Errorf("jitter_depth must be between 0 and %d, got %d", MaxJitterDepth, r.JitterDepth)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	if _, err := logrus.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level must be one of [trace, debug, info, warn, error, fatal, panic], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(l.Format)] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// Apply configures the global logrus logger.
func (l *LoggingConfig) Apply() error {
	if err := l.Validate(); err != nil {
		return err
	}

	level, _ := logrus.ParseLevel(l.Level)
	logrus.SetLevel(level)

	if strings.ToLower(l.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// EngineConfig converts the encoder section into encoder.Config.
func (e *EncoderConfig) EngineConfig() (encoder.Config, error) {
	flags, err := frame.ParseFlagNames(e.Flags)
	if err != nil {
		return encoder.Config{}, err
	}
	return encoder.Config{
		SampleRate: e.SampleRate,
		FPS:        e.FPS,
		Standard:   e.Standard,
		Flags:      flags,
	}, nil
}

// APV returns the decoder samples per frame, derived from the encoder rates
// when not set explicitly.
func (c *Config) APV() int {
	if c.Decoder.APV > 0 {
		return c.Decoder.APV
	}
	return int(math.Round(c.Encoder.SampleRate / c.Encoder.FPS))
}

// NewEncoder builds an encoder with the configured rates, filter, volume and
// user bits.
func (c *Config) NewEncoder() (*encoder.Encoder, error) {
	cfg, err := c.Encoder.EngineConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", encoder.ErrCreate, err)
	}

	enc, err := encoder.New(cfg)
	if err != nil {
		return nil, err
	}
	enc.SetFilter(c.Encoder.FilterRiseTime)
	if err := enc.SetVolume(c.Encoder.VolumeDBFS); err != nil {
		return nil, err
	}
	if c.Encoder.UserBits != 0 {
		enc.SetUserBits(c.Encoder.UserBits)
	}
	return enc, nil
}

// NewDecoder builds a decoder with the configured queue size.
func (c *Config) NewDecoder() (*decoder.Decoder, error) {
	return decoder.New(c.APV(), c.Decoder.QueueSize)
}

// NewPacketizer builds an RTP packetizer for the configured payload type.
func (c *Config) NewPacketizer() (*rtp.Packetizer, error) {
	return rtp.NewPacketizer(c.RTP.PayloadType)
}

// NewDepacketizer builds an RTP depacketizer feeding target.
func (c *Config) NewDepacketizer(target rtp.SampleWriter) *rtp.Depacketizer {
	return rtp.NewDepacketizer(target, c.RTP.PayloadType, c.RTP.JitterDepth)
}
