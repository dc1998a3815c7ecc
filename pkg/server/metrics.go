package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepgraph",
		Name:      "runs_total",
		Help:      "Orchestration runs by termination cause.",
	}, []string{"cause"})

	stepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prepgraph",
		Name:      "steps_total",
		Help:      "Total agent dispatches across all runs.",
	})

	questionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepgraph",
		Name:      "questions_total",
		Help:      "Chat questions answered, by outcome.",
	}, []string{"outcome"})
)
