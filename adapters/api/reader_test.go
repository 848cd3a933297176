package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"housepulse/domain/metrics"
)

func TestMarketReader_FetchFlows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/flows" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("period") != "2024-03" {
			t.Errorf("unexpected period %q", r.URL.Query().Get("period"))
		}
		if r.Header.Get("Authorization") != "Bearer sekrit" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Source-Id") == "" {
			t.Error("missing source id header")
		}
		w.Write([]byte(`{"flows":[{"origin":"Gangnam-gu","destination":"Suwon-si","weight":42}]}`))
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL, APIKey: "sekrit"})
	records, err := reader.FetchFlows(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("FetchFlows failed: %v", err)
	}
	if len(records) != 1 || records[0].Origin != "Gangnam-gu" || records[0].Weight != 42 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestMarketReader_SendsConfiguredSourceID(t *testing.T) {
	// An explicit source id is echoed as-is; without one, withDefaults
	// generates a fresh id so the upstream can still attribute requests.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Source-Id"); got != "dashboard-prod" {
			t.Errorf("source id = %q, want dashboard-prod", got)
		}
		w.Write([]byte(`{"flows":[]}`))
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL, Source: "dashboard-prod"})
	if _, err := reader.FetchFlows(context.Background(), "2024-03"); err != nil {
		t.Fatalf("FetchFlows failed: %v", err)
	}

	if NewMarketReader(SourceConfig{BaseURL: server.URL}).config.Source == "" {
		t.Error("expected a generated source id when none is configured")
	}
}

func TestMarketReader_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"points":[{"region":"Seoul","period":"2024-01","value":1.5}]}`))
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL, MaxRetries: 3, Timeout: 2 * time.Second})
	series, err := reader.FetchMetricSeries(context.Background(), metrics.MetricHPIChange)
	if err != nil {
		t.Fatalf("expected the retry to recover, got %v", err)
	}
	if len(series) != 1 || series[0].Value != 1.5 {
		t.Errorf("unexpected series: %+v", series)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 calls (one failure, one success), got %d", got)
	}
}

func TestMarketReader_ClientErrorsDoNotRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such metric", http.StatusNotFound)
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL, MaxRetries: 5})
	if _, err := reader.FetchMetricSeries(context.Background(), "bogus"); err == nil {
		t.Fatal("expected an error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("4xx must not be retried, got %d calls", got)
	}
}

func TestMarketReader_RejectsUnknownPhase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"phase":"to-the-moon"}`))
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL})
	if _, err := reader.FetchMarketPhase(context.Background(), "Seoul", "2024-01"); err == nil {
		t.Fatal("unknown phase label must be rejected at the boundary")
	}
}

func TestMarketReader_FetchMarketPhase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"phase":"recovery"}`))
	}))
	defer server.Close()

	reader := NewMarketReader(SourceConfig{BaseURL: server.URL})
	phase, err := reader.FetchMarketPhase(context.Background(), "Seoul", "2024-01")
	if err != nil {
		t.Fatalf("FetchMarketPhase failed: %v", err)
	}
	if phase != metrics.PhaseRecovery {
		t.Errorf("phase = %s, want recovery", phase)
	}
}
