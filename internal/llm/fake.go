package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// FakeClient replays scripted responses for offline runs and tests.
// Responses are keyed by phase; a missing phase yields "{}".
type FakeClient struct {
	mu        sync.Mutex
	responses map[string][]fakeReply
	calls     []FakeCall
}

type fakeReply struct {
	raw string
	err error
}

// FakeCall records one GenerateJSON invocation.
type FakeCall struct {
	Phase  string
	Prompt string
}

func NewFakeClient() *FakeClient {
	return &FakeClient{responses: map[string][]fakeReply{}}
}

// Reply queues a raw response for phase. The last queued reply repeats.
func (f *FakeClient) Reply(phase, raw string) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[phase] = append(f.responses[phase], fakeReply{raw: raw})
	return f
}

// Fail queues an error for phase.
func (f *FakeClient) Fail(phase string, err error) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[phase] = append(f.responses[phase], fakeReply{err: err})
	return f
}

func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	phase := PhaseFrom(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Phase: phase, Prompt: prompt})
	queue := f.responses[phase]
	if len(queue) == 0 {
		return json.RawMessage(`{}`), nil
	}
	r := queue[0]
	if len(queue) > 1 {
		f.responses[phase] = queue[1:]
	}
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.raw), nil
}
