package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport posts a JSON body and returns the raw reply.
type Transport interface {
	Post(ctx context.Context, url string, body map[string]any) (int, []byte, error)
}

const (
	defaultTimeout = 90 * time.Second
	maxReplyBytes  = 8 << 20
)

// HTTPTransport resolves relative endpoint paths against BaseURL.
type HTTPTransport struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) resolve(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return t.BaseURL + url
}

func (t *HTTPTransport) Post(ctx context.Context, url string, body map[string]any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.resolve(url), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read reply: %w", err)
	}
	if len(raw) > maxReplyBytes {
		return resp.StatusCode, nil, errors.New("reply too large")
	}
	return resp.StatusCode, raw, nil
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string, body map[string]any) (int, []byte, error)

func (f TransportFunc) Post(ctx context.Context, url string, body map[string]any) (int, []byte, error) {
	return f(ctx, url, body)
}
