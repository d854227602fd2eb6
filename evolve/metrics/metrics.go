// Package metrics exports the progress of evolution runs as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/baldhumanity/evolve-go/evolve"
)

const runLabel = "run_id"

// Callback is an evolve.Callback that updates one set of series per run.
// Several callbacks may share a registerer; their collectors are reused.
type Callback struct {
	evolve.NopCallback

	runID       string
	best        *prometheus.GaugeVec
	currentBest *prometheus.GaugeVec
	generation  *prometheus.GaugeVec
	generations *prometheus.CounterVec
	running     *prometheus.GaugeVec
}

var _ evolve.Callback = (*Callback)(nil)

// NewCallback registers the collectors under namespace on reg and returns a
// callback labelling its series with runID.
func NewCallback(reg prometheus.Registerer, namespace, runID string) (*Callback, error) {
	if runID == "" {
		return nil, errors.New("metrics callback needs a run id")
	}

	c := &Callback{runID: runID}
	var err error
	if c.best, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "best_score",
		Help:      "Best score observed so far in the run.",
	}, []string{runLabel})); err != nil {
		return nil, err
	}
	if c.currentBest, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_best_score",
		Help:      "Best score of the current population.",
	}, []string{runLabel})); err != nil {
		return nil, err
	}
	if c.generation, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "generation",
		Help:      "Number of completed generations.",
	}, []string{runLabel})); err != nil {
		return nil, err
	}
	if c.generations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Generations completed across all calls to Evolve.",
	}, []string{runLabel})); err != nil {
		return nil, err
	}
	if c.running, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "running",
		Help:      "1 while the run is evolving, 0 otherwise.",
	}, []string{runLabel})); err != nil {
		return nil, err
	}
	return c, nil
}

// register returns the already registered collector if an equal one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("failed to register collector: %w", err)
	}
	return collector, nil
}

func (c *Callback) OnTrainStart(p evolve.Progress) error {
	c.running.WithLabelValues(c.runID).Set(1)
	c.observe(p)
	return nil
}

func (c *Callback) OnTrainEnd(p evolve.Progress) error {
	c.running.WithLabelValues(c.runID).Set(0)
	c.observe(p)
	return nil
}

func (c *Callback) OnGenerationEnd(p evolve.Progress) error {
	c.generations.WithLabelValues(c.runID).Inc()
	c.observe(p)
	return nil
}

func (c *Callback) observe(p evolve.Progress) {
	c.best.WithLabelValues(c.runID).Set(p.BestScore)
	c.currentBest.WithLabelValues(c.runID).Set(p.CurrentBestScore)
	c.generation.WithLabelValues(c.runID).Set(float64(p.Generation))
}

// Forget removes the series of this run from every collector.
func (c *Callback) Forget() {
	c.best.DeleteLabelValues(c.runID)
	c.currentBest.DeleteLabelValues(c.runID)
	c.generation.DeleteLabelValues(c.runID)
	c.generations.DeleteLabelValues(c.runID)
	c.running.DeleteLabelValues(c.runID)
}
