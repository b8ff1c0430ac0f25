// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports channel state as Prometheus gauges.
package metrics

import (
	"sync"

	"code.hybscloud.com/achan"
	"github.com/prometheus/client_golang/prometheus"
)

// Source is anything that can report a channel snapshot.
// *achan.Sender[T] and *achan.Receiver[T] satisfy it.
type Source interface {
	Stats() achan.Stats
}

type gauge struct {
	desc  *prometheus.Desc
	value func(achan.Stats) float64
}

// Collector is a prometheus.Collector reporting one set of gauges per
// registered channel, labelled "channel". Values are read from Stats at
// scrape time.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]Source
	gauges  []gauge
}

// NewCollector returns an empty Collector whose metric names start with
// namespace.
func NewCollector(namespace string) *Collector {
	def := func(name, help string, value func(achan.Stats) float64) gauge {
		return gauge{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "achan", name), help, []string{"channel"}, nil),
			value: value,
		}
	}
	return &Collector{
		sources: make(map[string]Source),
		gauges: []gauge{
			def("len", "Buffered values.", func(s achan.Stats) float64 { return float64(s.Len) }),
			def("capacity", "Buffer capacity.", func(s achan.Stats) float64 { return float64(s.Capacity) }),
			def("parked_senders", "Send operations parked on a full buffer.", func(s achan.Stats) float64 { return float64(s.ParkedSenders) }),
			def("parked_receivers", "Receive operations parked on an empty buffer.", func(s achan.Stats) float64 { return float64(s.ParkedReceivers) }),
			def("senders", "Live sender handles.", func(s achan.Stats) float64 { return float64(s.Senders) }),
			def("receivers", "Live receiver handles.", func(s achan.Stats) float64 { return float64(s.Receivers) }),
			def("inflight_sends", "Send operations reserved and not yet resolved.", func(s achan.Stats) float64 { return float64(s.Sending) }),
			def("inflight_receives", "Receive operations reserved and not yet resolved.", func(s achan.Stats) float64 { return float64(s.Receiving) }),
			def("closed", "1 if the channel is closed.", func(s achan.Stats) float64 {
				if s.Closed {
					return 1
				}
				return 0
			}),
		},
	}
}

// Add registers src under name, replacing any source with that name.
func (c *Collector) Add(name string, src Source) {
	c.mu.Lock()
	c.sources[name] = src
	c.mu.Unlock()
}

// Remove unregisters the source called name.
func (c *Collector) Remove(name string) {
	c.mu.Lock()
	delete(c.sources, name)
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, src := range c.sources {
		st := src.Stats()
		for _, g := range c.gauges {
			ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, g.value(st), name)
		}
	}
}
