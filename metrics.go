package main

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	plansComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goal_engine",
			Name:      "plans_computed_total",
			Help:      "Goal plan computations by outcome (ok, invalid, error).",
		},
		[]string{"outcome"},
	)

	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goal_engine",
			Name:      "validation_failures_total",
			Help:      "Rejected profiles by offending field.",
		},
		[]string{"field"},
	)

	calorieFloorHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "goal_engine",
			Name:      "calorie_floor_applied_total",
			Help:      "Plans whose calorie target was raised to the safety floor, by sex.",
		},
		[]string{"sex"},
	)
)

// registerMetrics registers the collectors with the default registry (idempotent).
func registerMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(plansComputed, validationFailures, calorieFloorHits)
	})
}

func observePlanComputed(outcome string) {
	plansComputed.WithLabelValues(outcome).Inc()
}

func observeValidationFailure(field string) {
	validationFailures.WithLabelValues(field).Inc()
}

func observeCalorieFloor(sex string) {
	calorieFloorHits.WithLabelValues(sex).Inc()
}

// metricsHandler exposes the default registry for GET /metrics.
func metricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
