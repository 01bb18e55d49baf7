package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_received_total",
		Help: "Total number of Telegram updates received",
	}, []string{"kind"})

	CommandsHandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_handled_total",
		Help: "Total number of recognised chat commands",
	}, []string{"command"})

	InvoicesIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoices_issued_total",
		Help: "Total number of invoices sent to users",
	}, []string{"catalog", "currency"})

	PurchaseRequestsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "purchase_requests_rejected_total",
		Help: "Total number of purchase requests that did not produce an invoice",
	}, []string{"reason"})

	PreCheckoutAnsweredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "precheckout_answered_total",
		Help: "Total number of pre-checkout queries answered",
	}, []string{"result"})

	PaymentsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_completed_total",
		Help: "Total number of completed payments processed, by outcome",
	}, []string{"catalog", "outcome"})

	EntitlementsGrantedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlements_granted_total",
		Help: "Total units of entitlements granted",
	}, []string{"kind"})

	ProductCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "product_cache_lookups_total",
		Help: "Product cache lookups by result",
	}, []string{"result"})

	PaymentProcessingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_processing_latency_seconds",
		Help:    "Latency of completed payment reconciliation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
