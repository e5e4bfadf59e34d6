package orion

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithToolLogging_LogsStartAndEnd(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	type args struct {
		X int `json:"x"`
	}
	tool, err := NewTool("noop", "Does nothing", func(_ context.Context, a args) (int, error) {
		return a.X, nil
	})
	require.NoError(t, err)
	wrapped := WithToolLogging(logger)(tool)
	assert.Equal(t, "noop", wrapped.Name())
	assert.Equal(t, "Does nothing", wrapped.Description())

	_, err = wrapped.Call(context.Background(), []byte(`{"x": 1}`))
	require.NoError(t, err)
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "tool call start", entries[0].Message)
	assert.Equal(t, "tool call done", entries[1].Message)
}

func TestWithToolLogging_NilLoggerDefaultsToNop(t *testing.T) {
	t.Parallel()
	type args struct {
		X int `json:"x"`
	}
	tool, err := NewTool("noop", "Does nothing", func(_ context.Context, a args) (int, error) {
		return a.X, nil
	})
	require.NoError(t, err)
	wrapped := WithToolLogging(nil)(tool)
	_, err = wrapped.Call(context.Background(), []byte(`{"x": 1}`))
	assert.NoError(t, err)
}

func TestWithRecovery_ConvertsPanicToError(t *testing.T) {
	t.Parallel()
	type args struct {
		X int `json:"x"`
	}
	tool, err := NewTool("explode", "Always panics", func(_ context.Context, a args) (int, error) {
		panic("kaboom")
	})
	require.NoError(t, err)
	wrapped := WithRecovery()(tool)
	_, err = wrapped.Call(context.Background(), []byte(`{"x": 1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: kaboom")
}

func TestRegistry_Use_RewrapsWithoutStacking(t *testing.T) {
	t.Parallel()
	type args struct {
		X int `json:"x"`
	}
	tool, err := NewTool("noop", "Does nothing", func(_ context.Context, a args) (int, error) {
		return a.X, nil
	})
	require.NoError(t, err)

	var order []string
	mark := func(label string) Middleware {
		return func(next Tool) Tool {
			return &markerTool{toolBase: toolBase{next: next}, label: label, order: &order}
		}
	}

	reg := NewRegistry()
	reg.Register(tool)
	reg.Use(mark("outer"), mark("inner"))
	reg.Use(mark("outer"), mark("inner")) // replaces, never stacks

	res := reg.Execute(context.Background(), ToolCall{ID: "1", Name: "noop", Arguments: []byte(`{"x": 1}`)})
	assert.JSONEq(t, `1`, string(res.Result))
	assert.Equal(t, []string{"outer", "inner"}, order)

	// Tools registered after Use get the chain too.
	order = nil
	late, err := NewTool("late", "Registered after Use", func(_ context.Context, a args) (int, error) {
		return a.X, nil
	})
	require.NoError(t, err)
	reg.Register(late)
	reg.Execute(context.Background(), ToolCall{ID: "2", Name: "late", Arguments: []byte(`{"x": 2}`)})
	assert.Equal(t, []string{"outer", "inner"}, order)
}

type markerTool struct {
	toolBase
	label string
	order *[]string
}

func (m *markerTool) Call(ctx context.Context, args json.RawMessage) (any, error) {
	*m.order = append(*m.order, m.label)
	return m.next.Call(ctx, args)
}
