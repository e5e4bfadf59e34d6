package testutil

import (
	"context"
	"errors"
	"sync"

	orion "github.com/itvalley/orion-go"
)

// ScriptedBackend is a Backend that replays queued responses and records
// every request it receives. When the script is exhausted the last response
// repeats, which makes iteration-cap tests trivial: queue one response that
// always carries pending work.
type ScriptedBackend struct {
	mu        sync.Mutex
	responses []*orion.Response
	next      int

	// Err, when set, is returned by every Run call instead of a response.
	Err error
	// Requests records each payload in call order.
	Requests []*orion.Request
}

// NewScriptedBackend queues the given responses in order.
func NewScriptedBackend(responses ...*orion.Response) *ScriptedBackend {
	return &ScriptedBackend{responses: responses}
}

// Run records the request and returns the next scripted response.
func (b *ScriptedBackend) Run(_ context.Context, req *orion.Request) (*orion.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Snapshot the mutable result slices: the loop reuses one Request value
	// across round-trips, so a recorded pointer alone would alias later state.
	snapshot := *req
	snapshot.ToolResults = append([]orion.ToolResult(nil), req.ToolResults...)
	snapshot.DelegationResults = append([]orion.DelegationResult(nil), req.DelegationResults...)
	b.Requests = append(b.Requests, &snapshot)
	if b.Err != nil {
		return nil, b.Err
	}
	if len(b.responses) == 0 {
		return nil, errors.New("scripted backend has no responses")
	}
	resp := b.responses[b.next]
	if b.next < len(b.responses)-1 {
		b.next++
	}
	return resp, nil
}

// Calls returns how many round-trips the backend has served.
func (b *ScriptedBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Requests)
}

var _ orion.Backend = (*ScriptedBackend)(nil)
