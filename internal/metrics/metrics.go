// Package metrics exposes block/record throughput as Prometheus collectors.
package metrics

import (
	"fmt"
	"io"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fastmap"

// Collector implements parser.Observer. It is safe for concurrent use.
type Collector struct {
	blocks    prometheus.Counter
	bytes     prometheus.Counter
	records   prometheus.Counter
	blockSize prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Blocks consumed.",
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_bytes_total",
			Help:      "Bytes covered by consumed blocks.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records visited.",
		}),
		blockSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "block_size_bytes",
			Help:      "Valid length of consumed blocks after boundary correction.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
	for _, col := range []prometheus.Collector{c.blocks, c.bytes, c.records, c.blockSize} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) ObserveBlock(_ int64, length int) {
	c.blocks.Inc()
	c.bytes.Add(float64(length))
	c.blockSize.Observe(float64(length))
}

func (c *Collector) ObserveRecords(n int) { c.records.Add(float64(n)) }

// WriteSummary prints "name value" lines for every counter and histogram
// gathered from g, sorted by name.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				_, err = fmt.Fprintf(w, "%s %.0f\n", mf.GetName(), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				_, err = fmt.Fprintf(w, "%s_count %d\n%s_sum %.0f\n",
					mf.GetName(), h.GetSampleCount(), mf.GetName(), h.GetSampleSum())
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
