package orion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Registry holds the tools one agent may execute. Registration is expected to
// happen during setup; Execute is read-only with respect to the tool set.
// Re-registering a name replaces the prior entry but keeps its position in
// the manifest order.
type Registry struct {
	mu          sync.Mutex
	tools       map[string]Tool // wrapped with middlewares, used by Execute
	rawTools    map[string]Tool // unwrapped, used by Use to re-apply middlewares from scratch
	order       []string        // registration order, drives manifests
	middlewares []Middleware
	opts        registryOptions
}

// NewRegistry creates a Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{recoverPanics: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		tools:    make(map[string]Tool),
		rawTools: make(map[string]Tool),
		opts:     o,
	}
}

// Register adds a tool; a tool with the same name is replaced (last write
// wins). Stored middlewares (see Use) are applied before registration.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := t.Name()
	if _, exists := r.rawTools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.rawTools[name] = t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		t = r.middlewares[i](t)
	}
	r.tools[name] = t
}

// Get returns the tool with the given name (after middlewares), or
// (nil, false) if not registered.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tools)
}

// Manifests returns the backend-facing tool descriptions in registration
// order.
func (r *Registry) Manifests() []ToolManifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolManifest, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, ToolManifest{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return out
}

// Summaries returns the reduced name/description listing in registration
// order, used in supervised-agent manifests.
func (r *Registry) Summaries() []ToolSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolSummary, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, ToolSummary{Name: t.Name(), Description: t.Description()})
	}
	return out
}

// Execute runs one tool call and always returns a result: the JSON-serialized
// return value on success, or the error value {"error": "<tool>: <message>"}
// for an unknown tool, invalid arguments, a failing or panicking handler, or
// an unserializable return value. Tool failures are data the backend reacts
// to, never an error surfaced to the caller.
func (r *Registry) Execute(ctx context.Context, call ToolCall) ToolResult {
	res := ToolResult{ToolCallID: call.ID}
	tool, ok := r.Get(call.Name)
	if !ok {
		res.Result = errorValue(call.Name, ErrToolNotFound)
		return res
	}
	if r.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.timeout)
		defer cancel()
	}
	out, err := r.invoke(ctx, tool, call)
	if err != nil {
		res.Result = errorValue(call.Name, err)
		return res
	}
	data, err := json.Marshal(out)
	if err != nil {
		res.Result = errorValue(call.Name, fmt.Errorf("result not serializable: %w", err))
		return res
	}
	res.Result = data
	return res
}

func (r *Registry) invoke(ctx context.Context, tool Tool, call ToolCall) (out any, err error) {
	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				out, err = nil, &panicError{p: p}
			}
		}()
	}
	return tool.Call(ctx, call.Arguments)
}

// ExecuteAll runs the calls synchronously in list order, matching the order
// the backend declared them, and returns one result per call.
func (r *Registry) ExecuteAll(ctx context.Context, calls []ToolCall) []ToolResult {
	if len(calls) == 0 {
		return nil
	}
	out := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		out = append(out, r.Execute(ctx, call))
	}
	return out
}

// errorValue builds the structured error payload fed back to the backend.
func errorValue(toolName string, err error) json.RawMessage {
	data, mErr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: fmt.Sprintf("%s: %s", toolName, err.Error())})
	if mErr != nil {
		return json.RawMessage(`{"error":"` + toolName + `: internal error"}`)
	}
	return data
}
