package orion

import (
	"context"

	"go.uber.org/zap"
)

// Analyst is the tool-using agent: it exchanges tool results with the backend
// across multiple round-trips and can structure its terminal response into a
// typed value.
type Analyst struct {
	backend       Backend
	name          string
	instructions  string
	registry      *Registry
	output        *OutputType
	requireOutput bool
	logger        *zap.Logger
}

// NewAnalyst creates a tool-using agent. Tools come from WithTools or a
// shared WithRegistry; WithOutputType requests structured output. Returns
// ErrOutputTypeRequired when WithRequireOutput is set without an output type.
func NewAnalyst(backend Backend, name, instructions string, opts ...AgentOption) (*Analyst, error) {
	o, err := resolveAgentOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Analyst{
		backend:       backend,
		name:          name,
		instructions:  instructions,
		registry:      o.registry,
		output:        o.output,
		requireOutput: o.requireOutput,
		logger:        o.logger,
	}, nil
}

func (a *Analyst) Name() string         { return a.name }
func (a *Analyst) Instructions() string { return a.instructions }
func (a *Analyst) Kind() AgentKind      { return KindAnalyst }
func (a *Analyst) Tools() []ToolSummary { return a.registry.Summaries() }

// Registry exposes the agent's tool registry, e.g. to attach middleware.
func (a *Analyst) Registry() *Registry { return a.registry }

// Run drives the orchestration loop to a terminal response, then extracts the
// structured value if an output type was configured.
func (a *Analyst) Run(ctx context.Context, input string) (*Result, error) {
	req := &Request{
		Prompt:    buildPrompt(a.name, a.instructions, input),
		MaxTokens: analystMaxTokens,
		AgentType: KindAnalyst,
		Tools:     a.registry.Manifests(),
	}
	if a.output != nil {
		req.OutputSchema = a.output.manifest
	}
	a.logger.Debug("analyst run", zap.String("agent", a.name), zap.Int("tools", a.registry.Len()))
	l := &loop{
		backend:   a.backend,
		registry:  a.registry,
		agentName: a.name,
		logger:    a.logger,
	}
	resp, err := l.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return finishResult(resp, a.output, a.requireOutput)
}

var _ Agent = (*Analyst)(nil)
