package word2vec

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors updated by a
// SkipGram trainer.
type Metrics struct {
	Steps  prometheus.Counter
	Pairs  prometheus.Counter
	Epochs prometheus.Counter
	Cost   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them
// with reg, if reg is non-nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_steps_total",
			Help: "number of mini-batches trained on",
		}),
		Pairs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_pairs_total",
			Help: "number of skip-gram pairs trained on",
		}),
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skipgram_epochs_total",
			Help: "number of completed passes over the corpus",
		}),
		Cost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skipgram_batch_cost",
			Help: "average cost of the latest mini-batch",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Steps, m.Pairs, m.Epochs, m.Cost} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeBatch(numPairs int, cost float64) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.Pairs.Add(float64(numPairs))
	m.Cost.Set(cost)
}

func (m *Metrics) observeEpoch() {
	if m == nil {
		return
	}
	m.Epochs.Inc()
}
