package metrics

import "github.com/prometheus/client_golang/prometheus"

// ViewMetrics tracks controller-side bookkeeping: stale completions dropped by
// the generation check, live client workspaces and the toasts they show.
type ViewMetrics struct {
	stale         *prometheus.CounterVec
	workspaces    prometheus.Gauge
	notifications prometheus.Gauge
}

// NewViewMetrics registers the view metrics on the provided registerer.
func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	if reg == nil {
		return &ViewMetrics{}
	}
	stale := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "view_stale_completions_total",
		Help: "Completions discarded because a newer load was issued.",
	}, []string{"view"})
	workspaces := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "workspaces_active",
		Help: "Client workspaces currently held in memory.",
	})
	notifications := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "notifications_active",
		Help: "Notifications currently showing across all workspaces.",
	})
	reg.MustRegister(stale, workspaces, notifications)
	return &ViewMetrics{stale: stale, workspaces: workspaces, notifications: notifications}
}

// IncStale counts one discarded completion for the named view.
func (v *ViewMetrics) IncStale(view string) {
	if v == nil || v.stale == nil {
		return
	}
	v.stale.WithLabelValues(normalizeLabel(view)).Inc()
}

// SetWorkspaces publishes the current workspace count.
func (v *ViewMetrics) SetWorkspaces(n int) {
	if v == nil || v.workspaces == nil {
		return
	}
	v.workspaces.Set(float64(n))
}

// NotificationPushed and NotificationRemoved track the active toasts.
func (v *ViewMetrics) NotificationPushed() {
	if v == nil || v.notifications == nil {
		return
	}
	v.notifications.Inc()
}

func (v *ViewMetrics) NotificationRemoved() {
	if v == nil || v.notifications == nil {
		return
	}
	v.notifications.Dec()
}

// NotificationsGauge exposes the active notification gauge for tests.
func (v *ViewMetrics) NotificationsGauge() prometheus.Gauge {
	if v == nil {
		return nil
	}
	return v.notifications
}

// WorkspacesGauge exposes the gauge for tests and custom collectors.
func (v *ViewMetrics) WorkspacesGauge() prometheus.Gauge {
	if v == nil {
		return nil
	}
	return v.workspaces
}
