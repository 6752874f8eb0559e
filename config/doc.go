// Package config loads the YAML configuration of the LTC engines and builds
// configured encoders, decoders and RTP endpoints from it.
//
// Example configuration:
//
//	encoder:
//	  sample_rate: 48000
//	  fps: 29.97
//	  standard: 525/60
//	  flags: [use_date, clock]
//	  filter_rise_time: 40us
//	  volume_dbfs: -3
//	  user_bits: 0
//	decoder:
//	  apv: 0          # derived from sample_rate/fps
//	  queue_size: 32
//	rtp:
//	  payload_type: 96
//	  jitter_depth: 4
//	logging:
//	  level: info
//	  format: text
//
// Keys left out keep the values of Default.
package config
