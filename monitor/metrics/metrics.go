// Package metrics exports monitor statistics to Prometheus.
//
// A Collector holds a set of named monitors and reports their Stats on every
// scrape. Counters are cumulative since the monitor was created; gauges are
// sampled at scrape time.
//
//	c := metrics.NewCollector("myapp")
//	c.Register("accounts", accounts.Monitor())
//	prometheus.MustRegister(c)
package metrics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kolkov/objmonitor/monitor"
)

// Collector is a prometheus.Collector over registered monitors.
//
// Thread Safety: Register, Unregister and Collect are safe for concurrent
// calls.
type Collector struct {
	mu       sync.RWMutex
	monitors map[string]*monitor.Monitor

	acquisitions  *prometheus.Desc
	contended     *prometheus.Desc
	waits         *prometheus.Desc
	notified      *prometheus.Desc
	timeouts      *prometheus.Desc
	interruptions *prometheus.Desc
	illegalStates *prometheus.Desc
	waiting       *prometheus.Desc
	blocked       *prometheus.Desc
	held          *prometheus.Desc
}

// NewCollector creates a collector whose metric names start with
// namespace_monitor_.
func NewCollector(namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "monitor", name),
			help,
			[]string{"monitor"},
			nil,
		)
	}

	return &Collector{
		monitors:      make(map[string]*monitor.Monitor),
		acquisitions:  desc("acquisitions_total", "Successful acquisitions, reentrant ones included."),
		contended:     desc("contended_acquisitions_total", "Acquisitions that had to block."),
		waits:         desc("waits_total", "Calls that entered the wait-set."),
		notified:      desc("notified_total", "Waiters removed from the wait-set by a notify."),
		timeouts:      desc("wait_timeouts_total", "Waits that ended by timeout."),
		interruptions: desc("interruptions_total", "Waits and acquires that were interrupted."),
		illegalStates: desc("illegal_state_total", "Operations rejected because the caller was not the owner."),
		waiting:       desc("waiting", "Goroutines currently in the wait-set."),
		blocked:       desc("blocked", "Goroutines currently blocked in acquire."),
		held:          desc("held", "1 if the monitor is currently owned."),
	}
}

// Register adds m under name. Names must be unique within a collector.
func (c *Collector) Register(name string, m *monitor.Monitor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.monitors[name]; exists {
		return fmt.Errorf("monitor %q already registered", name)
	}
	c.monitors[name] = m
	return nil
}

// MustRegister is Register that panics on error.
func (c *Collector) MustRegister(name string, m *monitor.Monitor) {
	if err := c.Register(name, m); err != nil {
		panic(err)
	}
}

// Unregister removes the monitor registered under name and reports whether
// there was one.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.monitors[name]
	delete(c.monitors, name)
	return ok
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.acquisitions, c.contended, c.waits, c.notified, c.timeouts,
		c.interruptions, c.illegalStates, c.waiting, c.blocked, c.held,
	} {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.monitors))
	for name := range c.monitors {
		names = append(names, name)
	}
	sort.Strings(names)
	snapshot := make([]monitor.Stats, len(names))
	for i, name := range names {
		snapshot[i] = c.monitors[name].Stats()
	}
	c.mu.RUnlock()

	for i, name := range names {
		st := snapshot[i]
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), name)
		}
		gauge := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, name)
		}

		counter(c.acquisitions, st.Acquisitions)
		counter(c.contended, st.Contended)
		counter(c.waits, st.Waits)
		counter(c.notified, st.Notified)
		counter(c.timeouts, st.Timeouts)
		counter(c.interruptions, st.Interruptions)
		counter(c.illegalStates, st.IllegalStates)
		gauge(c.waiting, float64(st.Waiting))
		gauge(c.blocked, float64(st.Blocked))
		held := 0.0
		if st.Held {
			held = 1
		}
		gauge(c.held, held)
	}
}
