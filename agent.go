package orion

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	operatorMaxTokens   = 1000
	analystMaxTokens    = 1500
	supervisorMaxTokens = 1500
)

// buildPrompt assembles the initial prompt from the agent's name,
// instructions, and the input text.
func buildPrompt(name, instructions, input string) string {
	return fmt.Sprintf("# Instructions for %s\n%s\n\n# Input\n%s\n\n# Output\n", name, instructions, input)
}

// finishResult turns a terminal response into a Result, running extraction
// when an output type was configured. Extraction failure is fatal only when
// the output was required; otherwise the raw result stands.
func finishResult(resp *Response, output *OutputType, required bool) (*Result, error) {
	res := &Result{Content: resp.Content, Raw: resp}
	if output == nil {
		return res, nil
	}
	v, err := output.extract(resp.Content)
	if err != nil {
		if required {
			return nil, err
		}
		return res, nil
	}
	res.Structured = v
	return res, nil
}

// Operator is the leaf agent: no tools, no delegation, one round-trip per
// run.
type Operator struct {
	backend      Backend
	name         string
	instructions string
	logger       *zap.Logger
}

// NewOperator creates a leaf agent bound to the given backend. Of the agent
// options only WithLogger applies; an operator has no tools and no output
// schema.
func NewOperator(backend Backend, name, instructions string, opts ...AgentOption) *Operator {
	var o agentOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Operator{
		backend:      backend,
		name:         name,
		instructions: instructions,
		logger:       o.logger,
	}
}

func (a *Operator) Name() string         { return a.name }
func (a *Operator) Instructions() string { return a.instructions }
func (a *Operator) Kind() AgentKind      { return KindOperator }
func (a *Operator) Tools() []ToolSummary { return nil }

// Run sends a single round-trip and returns the raw result.
func (a *Operator) Run(ctx context.Context, input string) (*Result, error) {
	req := &Request{
		Prompt:    buildPrompt(a.name, a.instructions, input),
		MaxTokens: operatorMaxTokens,
		AgentType: KindOperator,
	}
	a.logger.Debug("operator run", zap.String("agent", a.name))
	resp, err := a.backend.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Result{Content: resp.Content, Raw: resp}, nil
}

var _ Agent = (*Operator)(nil)
