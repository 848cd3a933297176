package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"housepulse/domain/core"
	"housepulse/domain/flow"
	"housepulse/domain/metrics"
	"housepulse/internal/errors"
	"housepulse/ports"
)

// MarketReader fetches flows, metric series and phase labels from the
// upstream market-data REST service. It implements ports.MarketDataReader.
type MarketReader struct {
	config     SourceConfig
	httpClient *http.Client
}

// NewMarketReader creates a reader for the configured upstream service
func NewMarketReader(config SourceConfig) *MarketReader {
	config = config.withDefaults()
	return &MarketReader{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Wire DTOs. The upstream publishes snake_case JSON; values map 1:1 onto
// the domain types.
type flowsResponse struct {
	Flows []struct {
		Origin      string  `json:"origin"`
		Destination string  `json:"destination"`
		Weight      float64 `json:"weight"`
	} `json:"flows"`
}

type metricResponse struct {
	Points []struct {
		Region string  `json:"region"`
		Period string  `json:"period"`
		Value  float64 `json:"value"`
	} `json:"points"`
}

type phaseResponse struct {
	Phase string `json:"phase"`
}

// FetchFlows retrieves the raw migration records for one period
func (r *MarketReader) FetchFlows(ctx context.Context, period core.Period) ([]flow.FlowRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/flows?period=%s", r.config.BaseURL, url.QueryEscape(period.String()))

	var parsed flowsResponse
	if err := r.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch flows for period %s", period)
	}

	records := make([]flow.FlowRecord, 0, len(parsed.Flows))
	for _, f := range parsed.Flows {
		records = append(records, flow.FlowRecord{
			Origin:      core.RegionID(f.Origin),
			Destination: core.RegionID(f.Destination),
			Weight:      f.Weight,
		})
	}
	return records, nil
}

// FetchMetricSeries retrieves the full series of one metric
func (r *MarketReader) FetchMetricSeries(ctx context.Context, metric core.MetricKey) (metrics.MetricSeries, error) {
	endpoint := fmt.Sprintf("%s/v1/metrics/%s", r.config.BaseURL, url.PathEscape(metric.String()))

	var parsed metricResponse
	if err := r.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch metric %s", metric)
	}

	series := make(metrics.MetricSeries, 0, len(parsed.Points))
	for _, p := range parsed.Points {
		series = append(series, metrics.MetricPoint{
			Region: core.RegionID(p.Region),
			Period: core.Period(p.Period),
			Value:  p.Value,
		})
	}
	series.Sort()
	return series, nil
}

// FetchMarketPhase retrieves the pre-computed quadrant label for one region
// and period. Labels outside the known vocabulary are rejected at this
// boundary rather than passed downstream.
func (r *MarketReader) FetchMarketPhase(ctx context.Context, region core.RegionID, period core.Period) (metrics.MarketPhase, error) {
	endpoint := fmt.Sprintf("%s/v1/phase?region=%s&period=%s",
		r.config.BaseURL, url.QueryEscape(region.String()), url.QueryEscape(period.String()))

	var parsed phaseResponse
	if err := r.getJSON(ctx, endpoint, &parsed); err != nil {
		return "", errors.Wrapf(err, "failed to fetch market phase for %s/%s", region, period)
	}

	phase := metrics.MarketPhase(parsed.Phase)
	if err := phase.Validate(); err != nil {
		return "", errors.WithCode(errors.CodeExternalService, err)
	}
	return phase, nil
}

// getJSON performs a GET with bounded retries and decodes the body.
// Retries cover transport errors and 5xx responses; 4xx responses fail
// immediately since retrying them cannot help.
func (r *MarketReader) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, retryable, err := r.doGet(ctx, endpoint)
		if err == nil {
			if decodeErr := json.Unmarshal(body, out); decodeErr != nil {
				return errors.Wrap(decodeErr, "failed to decode upstream response")
			}
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return errors.WithCode(errors.CodeExternalService, lastErr)
}

func (r *MarketReader) doGet(ctx context.Context, endpoint string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Source-Id", r.config.Source.String())
	if r.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.config.APIKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, false, nil
}

var _ ports.MarketDataReader = (*MarketReader)(nil)
