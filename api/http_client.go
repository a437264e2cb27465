package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DEFAULT_HTTP_TIMEOUT = 10 * time.Second

// ErrDataSourceUnavailable is returned when the event catalog cannot be loaded.
var ErrDataSourceUnavailable = errors.New("event data source unavailable")

// HTTPClient struct to hold base URL and HTTP client configuration
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient creates a new instance of HTTPClient with default settings
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: DEFAULT_HTTP_TIMEOUT,
		},
	}
}

// Request makes an HTTP request to the API and decodes the JSON response
func (c *HTTPClient) Request(ctx context.Context, method, endpoint string, headers map[string]string, body interface{}, response interface{}) error {
	var requestBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, requestBody)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.New("unexpected status code: " + res.Status)
	}

	if response != nil {
		if err := json.Unmarshal(resBody, response); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
		}
	}

	return nil
}
