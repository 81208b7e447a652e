// Package metrics exposes Prometheus counters for wrapper factories.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Result labels.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultOK       = "ok"
)

// Collector counts behavior registrations and wrap calls per mechanism.
// A nil *Collector is valid and records nothing.
type Collector struct {
	Registrations *prometheus.CounterVec
	Wraps         *prometheus.CounterVec
}

// New creates a Collector and registers it on reg. Collectors already
// registered on reg by another factory are reused.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectwrap",
			Name:      "registrations_total",
			Help:      "Behavior registrations by mechanism and result",
		}, []string{"mechanism", "result"}),
		Wraps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectwrap",
			Name:      "wraps_total",
			Help:      "Wrap calls by mechanism and result",
		}, []string{"mechanism", "result"}),
	}

	var err error
	if c.Registrations, err = register(reg, c.Registrations); err != nil {
		return nil, err
	}
	if c.Wraps, err = register(reg, c.Wraps); err != nil {
		return nil, err
	}
	return c, nil
}

func register(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return vec, nil
}

// Registration records one registration outcome.
func (c *Collector) Registration(mechanism, result string) {
	if c == nil {
		return
	}
	c.Registrations.WithLabelValues(mechanism, result).Inc()
}

// Wrap records one wrap outcome.
func (c *Collector) Wrap(mechanism, result string) {
	if c == nil {
		return
	}
	c.Wraps.WithLabelValues(mechanism, result).Inc()
}
