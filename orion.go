package orion

import (
	"context"
	"encoding/json"
)

// AgentKind identifies the agent variant on the wire.
type AgentKind string

const (
	KindOperator   AgentKind = "operator"
	KindAnalyst    AgentKind = "analyst"
	KindSupervisor AgentKind = "supervisor"
)

// Tool is the contract for a backend-callable instrument. Parameters returns
// the flat field manifest sent to the backend; Call receives the raw JSON
// arguments exactly as the backend produced them and is responsible for
// validating them before doing any work (tools built with NewTool validate
// against the same schema the manifest describes).
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]FieldManifest
	Call(ctx context.Context, argsJSON json.RawMessage) (any, error)
}

// ToolCall is a single execution request as produced by the backend.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult pairs a tool call with its outcome. Result is either the
// JSON-serialized return value of the tool or the error value
// {"error": "<tool>: <message>"} — tool failures are data fed back to the
// backend, never control flow.
type ToolResult struct {
	ToolCallID string          `json:"tool_call_id"`
	Result     json.RawMessage `json:"result"`
}

// Delegation is a backend request to hand a sub-task to a supervised agent,
// identified by the handle issued when the agent was registered.
type Delegation struct {
	ID      string `json:"id"`
	AgentID string `json:"agent_id"`
	Input   string `json:"input"`
}

// DelegationResult pairs a delegation with its normalized outcome: JSON text
// for a structured result, the plain content otherwise, or an error string
// naming the failing agent.
type DelegationResult struct {
	DelegationID string `json:"delegation_id"`
	Result       string `json:"result"`
}

// FieldManifest describes one field of a tool parameter set or output schema
// in the shape the backend expects.
type FieldManifest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolManifest is the backend-facing description of one tool.
type ToolManifest struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Parameters  map[string]FieldManifest `json:"parameters"`
}

// ToolSummary is the reduced tool listing included per supervised agent, so
// the backend can see two levels of capability without full schemas.
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentManifest is the backend-facing description of one supervised agent.
type AgentManifest struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         AgentKind     `json:"type"`
	Instructions string        `json:"instructions"`
	Tools        []ToolSummary `json:"tools,omitempty"`
}

// Request is one backend round-trip payload. The same Request value is reused
// across loop iterations; ToolResults and DelegationResults carry the results
// of the previous response's calls and are replaced each round.
type Request struct {
	Prompt            string                   `json:"prompt"`
	MaxTokens         int                      `json:"max_tokens"`
	AgentType         AgentKind                `json:"agent_type"`
	Tools             []ToolManifest           `json:"tools,omitempty"`
	SupervisedAgents  []AgentManifest          `json:"supervised_agents,omitempty"`
	OutputSchema      map[string]FieldManifest `json:"output_schema,omitempty"`
	ToolResults       []ToolResult             `json:"tool_results,omitempty"`
	DelegationResults []DelegationResult       `json:"delegation_results,omitempty"`
}

// Response is one backend round-trip reply. A response with neither tool
// calls nor delegations is terminal.
type Response struct {
	Content          string       `json:"content"`
	ToolCalls        []ToolCall   `json:"tool_calls,omitempty"`
	AgentDelegations []Delegation `json:"agent_delegations,omitempty"`
}

// Backend is the request/response channel to the Orion service. Client is the
// HTTP implementation; tests substitute scripted fakes.
type Backend interface {
	Run(ctx context.Context, req *Request) (*Response, error)
}

// Agent is the uniform view over a leaf or tool-using agent: what the
// supervisor manifest needs plus the Run entrypoint used for delegation.
type Agent interface {
	Name() string
	Instructions() string
	Kind() AgentKind
	// Tools returns the reduced tool listing for the supervisor manifest;
	// empty for leaf agents.
	Tools() []ToolSummary
	Run(ctx context.Context, input string) (*Result, error)
}

// Result is the outcome of one agent run. Structured is set only when an
// output type was configured and extraction succeeded.
type Result struct {
	Content    string
	Structured any
	Raw        *Response
}

func (r *Result) String() string { return r.Content }

// ResultAs returns the structured value as T. ok is false when no structured
// value is present or it is not a T.
func ResultAs[T any](r *Result) (T, bool) {
	if r == nil || r.Structured == nil {
		var zero T
		return zero, false
	}
	v, ok := r.Structured.(T)
	return v, ok
}
