// Package metrics exports LTC engine activity to Prometheus.
//
// Attach a Collector to an encoder and a decoder through their observer
// hooks:
//
//	c := metrics.NewCollector(prometheus.NewRegistry())
//	enc.SetObserver(c)
//	dec.SetObserver(c)
package metrics
