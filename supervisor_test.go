package orion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupervisor_AddAgentHandles(t *testing.T) {
	t.Parallel()
	s, err := NewSupervisor(nil, "Coordinator", "Coordinate.")
	require.NoError(t, err)
	a := s.AddAgent(&stubAgent{name: "Writer"})
	b := s.AddAgent(&stubAgent{name: "Analyst"})
	assert.NotEmpty(t, a)
	assert.NotEmpty(t, b)
	assert.NotEqual(t, a, b, "every supervised agent gets its own handle")
}

func TestSupervisor_ManifestListsToolsOnlyWhenPresent(t *testing.T) {
	t.Parallel()
	type args struct {
		Ticker string `json:"ticker"`
	}
	quote := MustTool("get_quote", "Fetch a quote", func(_ context.Context, a args) (float64, error) {
		return 45.7, nil
	})
	analyst, err := NewAnalyst(nil, "Data Analyst", "Analyze the data.", WithTools(quote))
	require.NoError(t, err)
	writer := &stubAgent{name: "Writer"}

	s, err := NewSupervisor(nil, "Coordinator", "Coordinate.", WithAgents(writer, analyst))
	require.NoError(t, err)

	ms := s.manifest()
	require.Len(t, ms, 2)
	assert.Equal(t, "Writer", ms[0].Name)
	assert.Equal(t, KindOperator, ms[0].Type)
	assert.Equal(t, "stub instructions", ms[0].Instructions)
	assert.Nil(t, ms[0].Tools, "agents without tools advertise none")
	assert.Equal(t, "Data Analyst", ms[1].Name)
	assert.Equal(t, KindAnalyst, ms[1].Type)
	assert.Equal(t, []ToolSummary{{Name: "get_quote", Description: "Fetch a quote"}}, ms[1].Tools)
}

func TestSupervisor_Run_SendsSupervisedAgents(t *testing.T) {
	t.Parallel()
	writer := &stubAgent{name: "Writer", result: &Result{Content: "done"}}
	var gotReq *Request
	backend := backendFunc(func(_ context.Context, req *Request) (*Response, error) {
		gotReq = req
		return &Response{Content: "nothing to do"}, nil
	})
	s, err := NewSupervisor(backend, "Coordinator", "Coordinate the work.", WithAgents(writer))
	require.NoError(t, err)
	res, err := s.Run(context.Background(), "Produce a report")
	require.NoError(t, err)
	assert.Equal(t, "nothing to do", res.Content)

	require.NotNil(t, gotReq)
	assert.Equal(t, KindSupervisor, gotReq.AgentType)
	assert.Equal(t, supervisorMaxTokens, gotReq.MaxTokens)
	assert.Equal(t, buildPrompt("Coordinator", "Coordinate the work.", "Produce a report"), gotReq.Prompt)
	require.Len(t, gotReq.SupervisedAgents, 1)
	assert.Equal(t, "Writer", gotReq.SupervisedAgents[0].Name)
	assert.NotEmpty(t, gotReq.SupervisedAgents[0].ID)
}

func TestSupervisor_Run_DelegationFlow(t *testing.T) {
	t.Parallel()
	writer := &stubAgent{name: "Writer", result: &Result{Content: "a short market note"}}
	calls := 0
	var handle string
	backend := backendFunc(func(_ context.Context, req *Request) (*Response, error) {
		calls++
		switch calls {
		case 1:
			require.Len(t, req.SupervisedAgents, 1)
			handle = req.SupervisedAgents[0].ID
			return &Response{
				Content:          "delegating",
				AgentDelegations: []Delegation{{ID: "d1", AgentID: handle, Input: "write the note"}},
			}, nil
		default:
			require.Len(t, req.DelegationResults, 1)
			assert.Equal(t, "d1", req.DelegationResults[0].DelegationID)
			assert.Equal(t, "a short market note", req.DelegationResults[0].Result)
			return &Response{Content: "final report"}, nil
		}
	})
	s, err := NewSupervisor(backend, "Coordinator", "Coordinate.", WithAgents(writer))
	require.NoError(t, err)
	res, err := s.Run(context.Background(), "Produce a report")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "final report", res.Content)
	assert.Equal(t, []string{"write the note"}, writer.inputs)
}

func TestSupervisor_Run_StructuredOutput(t *testing.T) {
	t.Parallel()
	type verdict struct {
		Summary string `json:"summary"`
	}
	backend := backendFunc(func(_ context.Context, req *Request) (*Response, error) {
		require.NotNil(t, req.OutputSchema)
		return &Response{Content: `Wrapping up. {"summary": "markets were calm"}`}, nil
	})
	s, err := NewSupervisor(backend, "Coordinator", "Coordinate.",
		WithOutputType(MustOutputTypeFor[verdict]()),
		WithRequireOutput(),
	)
	require.NoError(t, err)
	res, err := s.Run(context.Background(), "Summarize")
	require.NoError(t, err)
	v, ok := ResultAs[verdict](res)
	require.True(t, ok)
	assert.Equal(t, "markets were calm", v.Summary)
}

func TestSupervisor_Run_OwnTools(t *testing.T) {
	t.Parallel()
	type args struct {
		Region string `json:"region"`
	}
	calls := 0
	indicator := MustTool("economic_data", "Fetch indicators", func(_ context.Context, a args) (string, error) {
		return "inflation at 3.1% in " + a.Region, nil
	})
	backend := backendFunc(func(_ context.Context, req *Request) (*Response, error) {
		calls++
		if calls == 1 {
			require.Len(t, req.Tools, 1)
			return &Response{
				ToolCalls: []ToolCall{{ID: "c1", Name: "economic_data", Arguments: []byte(`{"region": "EU"}`)}},
			}, nil
		}
		require.Len(t, req.ToolResults, 1)
		assert.JSONEq(t, `"inflation at 3.1% in EU"`, string(req.ToolResults[0].Result))
		return &Response{Content: "done"}, nil
	})
	s, err := NewSupervisor(backend, "Coordinator", "Coordinate.", WithTools(indicator))
	require.NoError(t, err)
	res, err := s.Run(context.Background(), "Check indicators")
	require.NoError(t, err)
	assert.Equal(t, "done", res.Content)
}
