package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveBooking("success")
	m.ObserveBooking("success")
	m.ObserveBooking("conflict")
	m.ObserveConflict()
	m.ObserveEmail("failure")
	m.ObserveConfirmLatency(0.25)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	bookings, ok := byName["dentassist_booking_bookings_total"]
	if !ok {
		t.Fatal("bookings_total not registered")
	}
	total := 0.0
	for _, metric := range bookings.GetMetric() {
		total += metric.GetCounter().GetValue()
	}
	if total != 3 {
		t.Errorf("expected 3 booking observations, got %f", total)
	}

	conflicts, ok := byName["dentassist_booking_slot_conflicts_total"]
	if !ok {
		t.Fatal("slot_conflicts_total not registered")
	}
	if v := conflicts.GetMetric()[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("expected 1 conflict, got %f", v)
	}

	latency, ok := byName["dentassist_booking_confirm_latency_seconds"]
	if !ok {
		t.Fatal("confirm_latency_seconds not registered")
	}
	if c := latency.GetMetric()[0].GetHistogram().GetSampleCount(); c != 1 {
		t.Errorf("expected 1 latency sample, got %d", c)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveBooking("success")
	m.ObserveConflict()
	m.ObserveEmail("success")
	m.ObserveConfirmLatency(1)
}
