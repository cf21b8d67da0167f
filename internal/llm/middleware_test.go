package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/platform/logger"
)

func TestRetryRecoversFromTransientError(t *testing.T) {
	fake := NewFakeClient().
		Fail("generate", errors.New("503")).
		Reply("generate", `{"ok":true}`)
	cli := Wrap(fake, Retry(3, time.Millisecond))

	raw, err := cli.GenerateJSON(WithPhase(context.Background(), "generate"), "p", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.Len(t, fake.Calls(), 2)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	fake := NewFakeClient().Fail("generate", NewPermanentError(ErrInvalidJSON))
	cli := Wrap(fake, Retry(5, time.Millisecond))

	_, err := cli.GenerateJSON(WithPhase(context.Background(), "generate"), "p", nil)
	assert.ErrorIs(t, err, ErrInvalidJSON)
	assert.Len(t, fake.Calls(), 1)
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("boom")
	fake := NewFakeClient().Fail("x", boom)
	cli := Wrap(fake, Retry(3, time.Millisecond))

	_, err := cli.GenerateJSON(WithPhase(context.Background(), "x"), "p", nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, fake.Calls(), 3)
}

func TestRateLimitHonoursContext(t *testing.T) {
	cli := Wrap(NewFakeClient(), RateLimit(0.001, 1))
	ctx := context.Background()
	_, err := cli.GenerateJSON(ctx, "first", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = cli.GenerateJSON(ctx, "second", nil)
	assert.Error(t, err)
}

func TestWrapSkipsNilMiddleware(t *testing.T) {
	fake := NewFakeClient()
	cli := Wrap(fake, RateLimit(0, 0), Logging(logger.Nop()))
	assert.Equal(t, "FakeLLM", cli.Name())
	_, err := cli.GenerateJSON(context.Background(), "p", map[string]string{"k": "v"})
	require.NoError(t, err)
	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, "unknown", fake.Calls()[0].Phase)
}
