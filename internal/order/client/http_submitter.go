package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	d "github.com/VISCOUS-ASH/ElectroStore/internal/checkout/domain"
	"github.com/sony/gobreaker/v2"
)

// HTTPSubmitter posts order submissions to the order endpoint. Calls go
// through a circuit breaker so a down collaborator fails fast instead of
// tying up checkout goroutines.
type HTTPSubmitter struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*d.SubmissionResult]
}

func NewHTTPSubmitter(endpoint string, timeout time.Duration) (*HTTPSubmitter, error) {
	if endpoint == "" {
		return nil, &d.ConfigurationError{Missing: "order endpoint"}
	}

	settings := gobreaker.Settings{
		Name:    "order-submitter",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("circuit breaker %s moved from %v to %v", name, from, to)
		},
	}

	return &HTTPSubmitter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker[*d.SubmissionResult](settings),
	}, nil
}

func (s *HTTPSubmitter) Submit(ctx context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error) {
	return s.breaker.Execute(func() (*d.SubmissionResult, error) {
		return s.post(ctx, submission)
	})
}

func (s *HTTPSubmitter) post(ctx context.Context, submission *d.OrderSubmission) (*d.SubmissionResult, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("order endpoint returned %d: %s", resp.StatusCode, payload)
	}

	var result d.SubmissionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unexpected response from order endpoint: %w", err)
	}

	return &result, nil
}
