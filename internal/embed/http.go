package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTPProvider calls an external embedding service over HTTP, retrying
// transient failures with an exponential backoff bounded by Budget.
type HTTPProvider struct {
	Endpoint   string
	APIKey     string
	Dims       int
	HTTPClient *http.Client
	// Budget bounds the total wall-clock time spent retrying a single
	// Embed call; once elapsed, Embed returns ErrUnavailable so callers
	// can fall back to lexical search without blocking indefinitely.
	Budget time.Duration
}

// NewHTTPProvider returns an HTTPProvider with the teacher's default
// client timeout and a conservative total retry budget.
func NewHTTPProvider(endpoint, apiKey string, dims int) *HTTPProvider {
	return &HTTPProvider{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Dims:       dims,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Budget:     20 * time.Second,
	}
}

// Dimensions returns the configured embedding vector length.
func (p *HTTPProvider) Dimensions() int { return p.Dims }

type embedRequest struct {
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed posts text to the configured endpoint, retrying on transient HTTP
// and network failures until ctx is done or Budget elapses.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	budgetCtx, cancel := context.WithTimeout(ctx, p.Budget)
	defer cancel()

	bo := backoff.WithContext(backoff.NewExponentialBackOff(), budgetCtx)

	var result []float32
	operation := func() error {
		vec, retryable, err := p.doRequest(budgetCtx, text)
		if err != nil {
			if !retryable {
				return backoff.Permanent(err)
			}
			return err
		}
		result = vec
		return nil
	}

	if err := backoff.Retry(operation, bo); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, nil
}

func (p *HTTPProvider) doRequest(ctx context.Context, text string) (vec []float32, retryable bool, err error) {
	payload, err := json.Marshal(embedRequest{Input: text})
	if err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("embedding service returned %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("embedding service returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded embedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false, fmt.Errorf("decode embedding response: %w", err)
	}
	return decoded.Embedding, false, nil
}
