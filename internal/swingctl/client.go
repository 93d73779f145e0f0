package swingctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okian/swingiq/internal/domain/model"
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// SubmitStats totals one submit run.
type SubmitStats struct {
	Submitted int
	Accepted  int
	Duplicate int
	Failed    int
	Errors    []string
}

type ackResponse struct {
	Status     string `json:"status"`
	AnalysisID string `json:"analysis_id"`
	Duplicate  bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client posts swing records to a running server.
type Client struct {
	baseURL string
	http    *http.Client
	workers int
}

// NewClient creates a Client for baseURL with the given request timeout
// and number of concurrent submitters.
func NewClient(baseURL string, timeout time.Duration, workers int) *Client {
	if workers <= 0 {
		workers = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		workers: workers,
	}
}

// Submit posts every entry to POST /analyses using the client's worker
// count and tallies the responses.
func (c *Client) Submit(ctx context.Context, entries []Entry) SubmitStats {
	type result struct {
		outcome string
		err     string
	}

	jobs := make(chan Entry)
	results := make(chan result, len(entries))
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range jobs {
				outcome, err := c.submitOne(ctx, e.Record)
				res := result{outcome: outcome}
				if err != nil {
					res.err = fmt.Sprintf("%s: %v", e.Origin, err)
				}
				results <- res
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, e := range entries {
			select {
			case <-ctx.Done():
				return
			case jobs <- e:
			}
		}
	}()
	wg.Wait()
	close(results)

	var s SubmitStats
	for res := range results {
		s.Submitted++
		switch res.outcome {
		case outcomeAccepted:
			s.Accepted++
		case outcomeDuplicate:
			s.Duplicate++
		default:
			s.Failed++
		}
		if res.err != "" {
			s.Errors = append(s.Errors, res.err)
		}
	}
	return s
}

func (c *Client) submitOne(ctx context.Context, rec model.SwingRecord) (string, error) { //nolint:gocritic // hugeParam: records travel by value
	body, err := json.Marshal(rec)
	if err != nil {
		return outcomeFailed, fmt.Errorf("marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyses", bytes.NewReader(body))
	if err != nil {
		return outcomeFailed, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return outcomeFailed, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return outcomeFailed, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted, nil
	case http.StatusOK:
		var ack ackResponse
		if err := json.Unmarshal(data, &ack); err == nil && !ack.Duplicate {
			return outcomeAccepted, nil
		}
		return outcomeDuplicate, nil
	default:
		var e errorResponse
		if err := json.Unmarshal(data, &e); err == nil && e.Message != "" {
			return outcomeFailed, fmt.Errorf("%s: %s", resp.Status, e.Message)
		}
		return outcomeFailed, fmt.Errorf("%s", resp.Status)
	}
}
