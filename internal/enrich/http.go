package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxModelResponseBytes bounds model server responses.
const maxModelResponseBytes = 4 * 1024 * 1024

// batchRequest is the wire shape for both model endpoints.
type batchRequest struct {
	Texts []string `json:"texts"`
}

// classifyResponse is the classifier endpoint's reply.
type classifyResponse struct {
	Results []Label `json:"results"`
}

// scoreResponse is the scorer endpoint's reply.
type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// HTTPClassifier calls an industry classification model server.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier client with an explicit timeout.
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Classify posts the texts and returns one label per text.
func (c *HTTPClassifier) Classify(ctx context.Context, texts []string) ([]Label, error) {
	var resp classifyResponse
	if err := postBatch(ctx, c.client, c.endpoint, texts, &resp); err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	return resp.Results, nil
}

// HTTPScorer calls a sentiment scoring model server.
type HTTPScorer struct {
	endpoint string
	client   *http.Client
}

// NewHTTPScorer creates a scorer client with an explicit timeout.
func NewHTTPScorer(endpoint string, timeout time.Duration) *HTTPScorer {
	return &HTTPScorer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Score posts the texts and returns one score per text.
func (s *HTTPScorer) Score(ctx context.Context, texts []string) ([]float64, error) {
	var resp scoreResponse
	if err := postBatch(ctx, s.client, s.endpoint, texts, &resp); err != nil {
		return nil, fmt.Errorf("scorer request: %w", err)
	}
	return resp.Scores, nil
}

// postBatch sends one JSON batch request and decodes the reply into out.
func postBatch(
	ctx context.Context,
	client *http.Client,
	endpoint string,
	texts []string,
	out any,
) error {
	payload, err := json.Marshal(batchRequest{Texts: texts})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxModelResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if unmarshalErr := json.Unmarshal(body, out); unmarshalErr != nil {
		return fmt.Errorf("decode response: %w", unmarshalErr)
	}
	return nil
}
