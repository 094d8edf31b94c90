package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const userAgent = "VocabHarvester/1.0"

// Client looks up German-English translations from a dictionary lookup
// service over HTTP. Transient failures are retried with exponential
// backoff; an exhausted retry budget surfaces as an error the pipeline
// treats as "no translation available".
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewClient builds a client for the given endpoint
func NewClient(baseURL string, timeout time.Duration, maxRetries int, log *zap.SugaredLogger) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL:    baseURL,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// lookupResponse is the service's answer: zero or more candidate
// translations, best first
type lookupResponse struct {
	Translations []string `json:"translations"`
}

// Translate returns the best candidate translation for a lemma, or ""
// when the service has none
func (c *Client) Translate(ctx context.Context, lemma, pos string) (string, error) {
	q := url.Values{}
	q.Set("term", lemma)
	if pos != "" {
		q.Set("pos", pos)
	}
	reqURL := c.baseURL + "?" + q.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return "", err
	}

	var resp lookupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid response for %q: %v", lemma, err)
	}
	if len(resp.Translations) == 0 {
		return "", nil
	}
	return resp.Translations[0], nil
}

// get performs the request with retries and exponential backoff
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(1<<(attempt-1)) * time.Second
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.log.Warnw("translation request failed",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"error", err)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("all %d attempts failed: %v", c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
