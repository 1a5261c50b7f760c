package textgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxErrorBody   = 2048
)

// backoff is a variable so tests can shrink it.
var backoff = initialBackoff

// postJSON sends payload to url, retrying transport failures and non-2xx
// answers with exponential backoff. It returns the body of the first 2xx response.
func postJSON(ctx context.Context, client *http.Client, backend, url string, headers map[string]string, payload []byte) ([]byte, error) {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			wait := backoff * time.Duration(math.Pow(2, float64(i-1)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%s request cancelled: %w", backend, ctx.Err())
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		log.Debug().Str("backend", backend).Int("attempt", i+1).Msg("Calling text generation API")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s request cancelled: %w", backend, ctx.Err())
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Warn().Err(lastErr).Str("backend", backend).Msgf("Attempt %d failed", i+1)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			lastErr = fmt.Errorf("API returned non-2xx status: %s, Body: %s", resp.Status, string(body))
			log.Warn().Err(lastErr).Str("backend", backend).Msgf("Attempt %d failed", i+1)
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("failed to call %s API after %d attempts: %w", backend, maxRetries, lastErr)
}

// retryable reports whether a status is worth another attempt. Client errors
// other than throttling will not fix themselves.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500
}
