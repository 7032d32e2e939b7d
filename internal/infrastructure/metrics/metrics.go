package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics groups every prometheus vector the service emits.
type SettlementMetrics struct {
	SettlementsPreparedTotal   prometheus.CounterVec
	SettlementsPreparedAmount  prometheus.CounterVec
	SettlementTransitionsTotal prometheus.CounterVec

	ReconTransitionsTotal prometheus.CounterVec
	BatchValidationsTotal prometheus.CounterVec
	BatchOrdersTotal      prometheus.CounterVec

	OutboundCallsTotal   prometheus.CounterVec
	OutboundCallDuration prometheus.HistogramVec

	ErrorsTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		SettlementsPreparedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_prepared_total",
				Help: "Settlements created in PREPARED state",
			},
			[]string{"participant_id", "collected_by"},
		),

		SettlementsPreparedAmount: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlements_prepared_amount_total",
				Help: "Total order value of prepared settlements",
			},
			[]string{"participant_id"},
		),

		SettlementTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_transitions_total",
				Help: "Settlement status transitions by target status",
			},
			[]string{"participant_id", "to_status"},
		),

		ReconTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recon_transitions_total",
				Help: "Reconciliation status transitions by target status",
			},
			[]string{"participant_id", "to_status"},
		),

		BatchValidationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_validations_total",
				Help: "Inbound batch validations by action and outcome",
			},
			[]string{"action", "outcome"},
		),

		BatchOrdersTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_orders_total",
				Help: "Orders referenced by inbound batches",
			},
			[]string{"action"},
		),

		OutboundCallsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outbound_calls_total",
				Help: "Outbound signed calls by action and outcome (ack, nack, transport_error)",
			},
			[]string{"action", "outcome"},
		),

		OutboundCallDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "outbound_call_duration_seconds",
				Help:    "Latency of outbound signed calls",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"action"},
		),

		ErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_errors_total",
				Help: "Business errors by taxonomy kind",
			},
			[]string{"kind"},
		),
	}
}

func (m *SettlementMetrics) RecordPrepared(participantID, collectedBy string, amount float64) {
	m.SettlementsPreparedTotal.WithLabelValues(participantID, collectedBy).Inc()
	m.SettlementsPreparedAmount.WithLabelValues(participantID).Add(amount)
}

func (m *SettlementMetrics) RecordTransition(participantID, toStatus string) {
	m.SettlementTransitionsTotal.WithLabelValues(participantID, toStatus).Inc()
}

func (m *SettlementMetrics) RecordReconTransition(participantID, toStatus string) {
	m.ReconTransitionsTotal.WithLabelValues(participantID, toStatus).Inc()
}

func (m *SettlementMetrics) RecordBatchValidation(action, outcome string, orders int) {
	m.BatchValidationsTotal.WithLabelValues(action, outcome).Inc()
	m.BatchOrdersTotal.WithLabelValues(action).Add(float64(orders))
}

func (m *SettlementMetrics) RecordOutboundCall(action, outcome string, durationSeconds float64) {
	m.OutboundCallsTotal.WithLabelValues(action, outcome).Inc()
	m.OutboundCallDuration.WithLabelValues(action).Observe(durationSeconds)
}

func (m *SettlementMetrics) RecordError(kind string) {
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}
