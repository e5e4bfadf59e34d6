package orion

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// maxRoundTrips caps backend exchanges per run. Reaching the cap is not an
// error: the last response is returned as-is.
const maxRoundTrips = 10

// loop drives repeated backend round-trips for one run invocation,
// interleaving tool execution and sub-agent delegation until the backend
// stops asking for either. A loop value is exclusively owned by one in-flight
// run and never shared.
type loop struct {
	backend   Backend
	registry  *Registry
	agents    map[string]Agent // delegation handle -> agent; nil when delegation is unsupported
	agentName string
	logger    *zap.Logger
}

// run sends req and keeps exchanging results until a terminal response. Tool
// calls and delegations from the same response are both handled, in the order
// the backend declared, and both result sets are merged into the next payload.
// Failures inside one tool or delegation never abort the loop; only backend
// transport errors do.
func (l *loop) run(ctx context.Context, req *Request) (*Response, error) {
	resp, err := l.backend.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	for trips := 1; trips < maxRoundTrips; trips++ {
		if len(resp.ToolCalls) == 0 && len(resp.AgentDelegations) == 0 {
			return resp, nil
		}
		req.ToolResults = l.registry.ExecuteAll(ctx, resp.ToolCalls)
		req.DelegationResults = l.delegateAll(ctx, resp.AgentDelegations)
		resp, err = l.backend.Run(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	if len(resp.ToolCalls) > 0 || len(resp.AgentDelegations) > 0 {
		l.logger.Warn("round-trip cap reached with work still pending",
			zap.String("agent", l.agentName),
			zap.Int("cap", maxRoundTrips))
	}
	return resp, nil
}

// delegateAll executes delegations sequentially in list order. Every
// delegation produces a result string, error or not, so the backend always
// sees one entry per request.
func (l *loop) delegateAll(ctx context.Context, delegations []Delegation) []DelegationResult {
	if len(delegations) == 0 {
		return nil
	}
	out := make([]DelegationResult, 0, len(delegations))
	for _, d := range delegations {
		out = append(out, DelegationResult{
			DelegationID: d.ID,
			Result:       l.delegate(ctx, d),
		})
	}
	return out
}

// delegate resolves the target handle and runs the agent, normalizing the
// outcome: structured results serialize to JSON text, plain results pass
// through, failures become error strings naming the target.
func (l *loop) delegate(ctx context.Context, d Delegation) string {
	agent, ok := l.agents[d.AgentID]
	if !ok {
		l.logger.Warn("delegation target not found",
			zap.String("agent", l.agentName),
			zap.String("target_id", d.AgentID))
		return fmt.Sprintf("delegation failed: no supervised agent with id %q", d.AgentID)
	}
	res, err := agent.Run(ctx, d.Input)
	if err != nil {
		return fmt.Sprintf("agent %q failed: %v", agent.Name(), err)
	}
	if res.Structured != nil {
		if data, err := json.Marshal(res.Structured); err == nil {
			return string(data)
		}
	}
	return res.Content
}
