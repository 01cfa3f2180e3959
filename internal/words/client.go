package words

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client fetches word lists from the TypeAmp API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// GetWords requests words from the API list endpoint.
func (c *Client) GetWords(ctx context.Context, req Request) (Response, error) {
	if c.baseURL == "" {
		return Response{}, fmt.Errorf("api base url is empty")
	}
	if req.List == "" {
		return Response{}, fmt.Errorf("list name is required")
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return Response{}, fmt.Errorf("invalid api base url: %w", err)
	}
	endpoint = endpoint.JoinPath("api", "words", req.List)
	q := endpoint.Query()
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("randomize", strconv.FormatBool(req.Randomize))
	q.Set("punctuation", strconv.FormatBool(req.Options.Punctuation))
	q.Set("numbers", strconv.FormatBool(req.Options.Numbers))
	if req.Options.Density != "" {
		q.Set("density", string(req.Options.Density))
	}
	endpoint.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("failed to fetch words: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("unexpected words status: %s", resp.Status)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Response{}, fmt.Errorf("failed to decode words response: %w", err)
	}
	if len(payload.Words) == 0 {
		return Response{}, fmt.Errorf("word list %q returned no words", req.List)
	}
	return payload, nil
}
