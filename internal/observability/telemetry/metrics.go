package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repairline_turns_total",
		Help: "Inbound turns handled, by channel and reply source",
	}, []string{"channel", "source"})

	TurnLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repairline_turn_latency_seconds",
		Help:    "End-to-end latency of one dialogue turn",
		Buckets: prometheus.DefBuckets,
	})

	FAQMatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repairline_faq_matches_total",
		Help: "Turns answered from the FAQ catalog",
	})

	AudioMatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repairline_audio_matches_total",
		Help: "Voice replies served from a pre-rendered clip",
	})

	FallbackCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "repairline_fallback_calls_total",
		Help: "Generative fallback invocations, by outcome",
	}, []string{"status"})

	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repairline_bookings_total",
		Help: "Conversations that reached a complete booking",
	})

	// Infrastructure metrics
	StoreDegradationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repairline_store_degradations_total",
		Help: "Turns served from a transient record because the store was unreachable",
	})

	ReapedConversationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "repairline_reaped_conversations_total",
		Help: "Expired conversations deactivated by the background reaper",
	})

	StoreLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "repairline_store_latency_seconds",
		Help:    "Latency of row-store requests",
		Buckets: prometheus.DefBuckets,
	})
)
