package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// tikaStrategy sends the document to an Apache Tika server
// (PUT /tika, Accept: text/plain) and returns whatever text it recovers.
type tikaStrategy struct {
	baseURL    string
	httpClient *http.Client
}

func NewTikaPDFStrategy(baseURL string, timeout time.Duration) PDFStrategy {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &tikaStrategy{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *tikaStrategy) Name() string {
	return "tika"
}

func (t *tikaStrategy) ExtractText(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.baseURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build tika request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", "application/pdf")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tika status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read tika response: %w", err)
	}

	return string(body), nil
}
