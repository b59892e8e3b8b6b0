// Package metrics defines and registers all custom Prometheus metrics for
// the task management API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default registry at package load; the router
// exposes them on /metrics alongside the echoprometheus request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tasks"

// AuthAttemptsTotal counts login attempts.
// Label:
//   - outcome: "success" or "failure"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"outcome"},
)

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - status: initial status ("pending", "in-progress", "completed")
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of tasks created, by initial status.",
	},
	[]string{"status"},
)

// RateLimitRejectionsTotal counts requests rejected by admission control.
// Label:
//   - class: route class ("general", "auth", "task_create")
var RateLimitRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratelimit_rejections_total",
		Help:      "Total number of requests rejected by the rate limiter, by route class.",
	},
	[]string{"class"},
)

// ActivityQueueDepth tracks entries waiting in each activity worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", ...)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
