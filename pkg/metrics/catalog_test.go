package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCatalogMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCatalogMetrics(reg)
	op := "list_products"
	metrics.Observe(op, 250*time.Millisecond, nil)
	metrics.Observe(op, 10*time.Millisecond, errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "catalog_requests_total", map[string]string{"operation": op, "outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "catalog_requests_total", map[string]string{"operation": op, "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "catalog_request_duration_seconds", map[string]string{"operation": op}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestViewMetricsStaleAndWorkspaces(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewViewMetrics(reg)
	metrics.IncStale("products")
	metrics.IncStale("products")
	metrics.IncStale("")
	metrics.SetWorkspaces(3)
	metrics.NotificationPushed()
	metrics.NotificationPushed()
	metrics.NotificationRemoved()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "view_stale_completions_total", map[string]string{"view": "products"}); err != nil || got != 2 {
		t.Fatalf("expected stale=2, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "view_stale_completions_total", map[string]string{"view": "unknown"}); err != nil || got != 1 {
		t.Fatalf("expected unknown stale=1, got %f (%v)", got, err)
	}
	mf := findMetricFamily(mfs, "workspaces_active")
	if mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected workspaces gauge=3")
	}
	mf = findMetricFamily(mfs, "notifications_active")
	if mf == nil || mf.GetMetric()[0].GetGauge().GetValue() != 1 {
		t.Fatalf("expected notifications gauge=1")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var catalog *CatalogMetrics
	catalog.Observe("op", time.Second, nil)
	NewCatalogMetrics(nil).Observe("op", time.Second, nil)

	var views *ViewMetrics
	views.IncStale("products")
	views.SetWorkspaces(1)
	views.NotificationPushed()
	views.NotificationRemoved()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
