// Package testutil provides test doubles for orion: a scripted backend, a
// configurable mock tool, and a registry preset.
package testutil

import (
	"context"
	"encoding/json"

	orion "github.com/itvalley/orion-go"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	ParamsVal map[string]orion.FieldManifest
	CallFn    func(ctx context.Context, argsJSON json.RawMessage) (any, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Parameters returns the parameter manifest (or an empty map).
func (m *MockTool) Parameters() map[string]orion.FieldManifest {
	if m.ParamsVal != nil {
		return m.ParamsVal
	}
	return map[string]orion.FieldManifest{}
}

// Call runs CallFn if set, otherwise returns nil.
func (m *MockTool) Call(ctx context.Context, argsJSON json.RawMessage) (any, error) {
	if m.CallFn != nil {
		return m.CallFn(ctx, argsJSON)
	}
	return nil, nil
}

var _ orion.Tool = (*MockTool)(nil)
