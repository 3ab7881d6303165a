package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mrsinham/intakeforge/internal/intake"
)

// Report is the structured result of an analysis. The contents are opaque to
// the wizard core; Raw preserves the full response body for display layers
// that want more than the summary.
type Report struct {
	Summary         string          `json:"summary"`
	Recommendations []string        `json:"recommendations"`
	Raw             json.RawMessage `json:"-"`
}

// apiError is the error envelope the analysis service returns on non-2xx.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client calls the analysis service. It implements intake.Analyzer.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// NewClient configures a client for the service at baseURL. retries bounds
// transport-level retries; the caller's context bounds the overall call.
func NewClient(baseURL string, timeout time.Duration, retries int, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, log: log}
}

// Analyze submits the record and returns the service's report. It is called
// exactly once per submission by the controller, with a fully validated
// record.
func (c *Client) Analyze(ctx context.Context, rec *intake.Record) (any, error) {
	payload := BuildPayload(rec)

	c.log.Info().
		Str("assessment_id", payload.AssessmentID).
		Int("symptoms", len(payload.Symptoms)).
		Bool("image", payload.ImageDataURI != "").
		Msg("calling analysis service")

	var report Report
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&report).
		SetError(&apiErr).
		// Some gateways label JSON bodies text/plain; parse them anyway.
		ForceContentType("application/json").
		Post("/v1/analyze")
	if err != nil {
		c.log.Error().Err(err).Str("assessment_id", payload.AssessmentID).
			Msg("analysis request failed")
		return nil, fmt.Errorf("calling analysis service: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = resp.Status()
		}
		c.log.Warn().Int("status", resp.StatusCode()).Str("message", msg).
			Str("assessment_id", payload.AssessmentID).
			Msg("analysis service rejected the request")
		return nil, fmt.Errorf("analysis service: %s", msg)
	}

	report.Raw = json.RawMessage(resp.Body())
	c.log.Info().Str("assessment_id", payload.AssessmentID).
		Dur("took", resp.Time()).Msg("analysis complete")
	return &report, nil
}
