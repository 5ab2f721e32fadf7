package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drivemate", Name: "requests_created_total",
		Help: "Total service requests created"})
	RequestsAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drivemate", Name: "requests_assigned_total",
		Help: "Total service requests claimed by providers"})
	RequestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drivemate", Name: "requests_completed_total",
		Help: "Total service requests completed"})
	PaymentsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drivemate", Name: "payments_processed_total",
		Help: "Total payments processed"})
	RatingsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "drivemate", Name: "ratings_submitted_total",
		Help: "Total ratings submitted"})
	ProvidersAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "drivemate", Name: "providers_available",
		Help: "Providers currently flagged available"})
)
