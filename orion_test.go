package orion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// backendFunc adapts a function to the Backend interface for tests.
type backendFunc func(ctx context.Context, req *Request) (*Response, error)

func (f backendFunc) Run(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

func TestToolCall_Wire(t *testing.T) {
	call := ToolCall{ID: "call_1", Name: "get_quote", Arguments: []byte(`{"ticker":"XYZ"}`)}
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "get_quote", call.Name)
	assert.JSONEq(t, `{"ticker":"XYZ"}`, string(call.Arguments))
}

func TestResult_String(t *testing.T) {
	res := &Result{Content: "plain answer"}
	assert.Equal(t, "plain answer", res.String())
}

func TestResultAs(t *testing.T) {
	type out struct{ Trend string }
	res := &Result{Content: "...", Structured: out{Trend: "up"}}
	v, ok := ResultAs[out](res)
	assert.True(t, ok)
	assert.Equal(t, "up", v.Trend)

	_, ok = ResultAs[int](res)
	assert.False(t, ok)

	_, ok = ResultAs[out](&Result{Content: "raw only"})
	assert.False(t, ok)

	_, ok = ResultAs[out](nil)
	assert.False(t, ok)
}
