package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"newsdesk/internal/platform/logger"
)

// Retry retries GenerateJSON up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors and canceled contexts stop early.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next LLMClient) LLMClient {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next LLMClient
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.GenerateJSON(ctx, prompt, input)
		if err == nil {
			return resp, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return nil, err
		}
		last = err
		if i == r.max-1 {
			break
		}
		t := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, last
}

// RateLimit throttles calls to rps requests per second with the given
// burst. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next LLMClient) LLMClient {
		return &limited{next: next, lim: lim}
	}
}

type limited struct {
	next LLMClient
	lim  *rate.Limiter
}

func (l *limited) Name() string { return l.next.Name() }
func (l *limited) Close() error { return l.next.Close() }

func (l *limited) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if err := l.lim.Wait(ctx); err != nil {
		return nil, err
	}
	return l.next.GenerateJSON(ctx, prompt, input)
}

// Logging records request size, latency and outcome of every call.
func Logging(log *logger.Logger) Middleware {
	return func(next LLMClient) LLMClient {
		return &logged{next: next, log: log}
	}
}

type logged struct {
	next LLMClient
	log  *logger.Logger
}

func (l *logged) Name() string { return l.next.Name() }
func (l *logged) Close() error { return l.next.Close() }

func (l *logged) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	start := time.Now()
	phase := PhaseFrom(ctx)
	resp, err := l.next.GenerateJSON(ctx, prompt, input)
	if err != nil {
		l.log.Warn("llm request failed", "client", l.next.Name(), "phase", phase, "elapsed", time.Since(start), "error", err)
		return nil, err
	}
	l.log.Debug("llm request", "client", l.next.Name(), "phase", phase, "prompt_bytes", len(prompt), "response_bytes", len(resp), "elapsed", time.Since(start))
	return resp, nil
}
