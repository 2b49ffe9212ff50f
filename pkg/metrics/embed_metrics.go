package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EmbedMetrics holds all embed dispatch Prometheus metrics
type EmbedMetrics struct {
	// Dispatch outcomes
	SendsTotal          prometheus.Counter
	SendsRejectedTotal  *prometheus.CounterVec
	SendsTransportTotal prometheus.Counter
	SendsBlockedTotal   prometheus.Counter

	// Dispatch characteristics
	SendDuration     prometheus.Histogram
	PayloadSizeBytes prometheus.Histogram

	// Validation metrics
	ValidationsTotal  prometheus.Counter
	ViolationsTotal   prometheus.Counter
	ForcedSendsTotal  prometheus.Counter
	ExportsTotal      *prometheus.CounterVec
	TemplatesSaved    prometheus.Counter
	TemplatesDeleted  prometheus.Counter
	HistoryDropsTotal prometheus.Counter
}

// NewEmbedMetrics creates and registers all embed dispatch metrics. It
// registers against reg so tests can pass an isolated registry; pass
// prometheus.DefaultRegisterer in production.
func NewEmbedMetrics(reg prometheus.Registerer) *EmbedMetrics {
	factory := promauto.With(reg)

	return &EmbedMetrics{
		SendsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_sends_total",
			Help: "Total number of embeds accepted by Discord",
		}),

		SendsRejectedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "embedforge_sends_rejected_total",
			Help: "Total number of embeds rejected by Discord, by HTTP status",
		}, []string{"status"}),

		SendsTransportTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_sends_transport_errors_total",
			Help: "Total number of sends that failed before a response was received",
		}),

		SendsBlockedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_sends_blocked_total",
			Help: "Total number of sends blocked by local validation",
		}),

		SendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "embedforge_send_duration_seconds",
			Help:    "Time taken to dispatch an embed to Discord",
			Buckets: prometheus.DefBuckets,
		}),

		PayloadSizeBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "embedforge_payload_size_bytes",
			Help:    "Serialized size of dispatched message payloads",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}),

		ValidationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_validations_total",
			Help: "Total number of embed validations performed",
		}),

		ViolationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_violations_total",
			Help: "Total number of validation violations reported",
		}),

		ForcedSendsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_forced_sends_total",
			Help: "Total number of sends that overrode validation violations",
		}),

		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "embedforge_exports_total",
			Help: "Total number of embed exports, by format",
		}, []string{"format"}),

		TemplatesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_templates_saved_total",
			Help: "Total number of template save operations",
		}),

		TemplatesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_templates_deleted_total",
			Help: "Total number of template delete operations",
		}),

		HistoryDropsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "embedforge_history_dropped_records_total",
			Help: "Total number of undecodable history records skipped on load",
		}),
	}
}

// RecordSendAccepted records a dispatch accepted by Discord
func (m *EmbedMetrics) RecordSendAccepted(duration float64, payloadBytes int) {
	m.SendsTotal.Inc()
	m.SendDuration.Observe(duration)
	m.PayloadSizeBytes.Observe(float64(payloadBytes))
}

// RecordSendRejected records a dispatch rejected by Discord
func (m *EmbedMetrics) RecordSendRejected(status string, duration float64) {
	m.SendsRejectedTotal.WithLabelValues(status).Inc()
	m.SendDuration.Observe(duration)
}

// RecordTransportError records a dispatch that never reached Discord
func (m *EmbedMetrics) RecordTransportError() {
	m.SendsTransportTotal.Inc()
}

// RecordSendBlocked records a send stopped by local validation
func (m *EmbedMetrics) RecordSendBlocked() {
	m.SendsBlockedTotal.Inc()
}

// RecordValidation records a validation run and its violation count
func (m *EmbedMetrics) RecordValidation(violations int) {
	m.ValidationsTotal.Inc()
	m.ViolationsTotal.Add(float64(violations))
}

// RecordForcedSend records a send that overrode violations
func (m *EmbedMetrics) RecordForcedSend() {
	m.ForcedSendsTotal.Inc()
}

// RecordExport records an export in the given format
func (m *EmbedMetrics) RecordExport(format string) {
	m.ExportsTotal.WithLabelValues(format).Inc()
}

// RecordTemplateSaved records a template save
func (m *EmbedMetrics) RecordTemplateSaved() {
	m.TemplatesSaved.Inc()
}

// RecordTemplateDeleted records a template delete
func (m *EmbedMetrics) RecordTemplateDeleted() {
	m.TemplatesDeleted.Inc()
}

// RecordHistoryDrops records undecodable history records skipped on load
func (m *EmbedMetrics) RecordHistoryDrops(count int) {
	if count > 0 {
		m.HistoryDropsTotal.Add(float64(count))
	}
}
