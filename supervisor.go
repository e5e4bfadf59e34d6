package orion

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Supervisor coordinates a set of supervised agents: it can execute its own
// tools and delegate sub-tasks to registered agents, driven by the same
// bounded orchestration loop as the Analyst. Each supervised agent gets a
// stable string handle at registration; the backend addresses delegations by
// that handle.
type Supervisor struct {
	backend       Backend
	name          string
	instructions  string
	registry      *Registry
	output        *OutputType
	requireOutput bool
	agents        map[string]Agent
	order         []string
	logger        *zap.Logger
}

// NewSupervisor creates a coordinating agent. Supervised agents come from
// WithAgents (or AddAgent afterwards); tools and output type work as for
// NewAnalyst.
func NewSupervisor(backend Backend, name, instructions string, opts ...AgentOption) (*Supervisor, error) {
	o, err := resolveAgentOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Supervisor{
		backend:       backend,
		name:          name,
		instructions:  instructions,
		registry:      o.registry,
		output:        o.output,
		requireOutput: o.requireOutput,
		agents:        make(map[string]Agent),
		logger:        o.logger,
	}
	for _, a := range o.agents {
		s.AddAgent(a)
	}
	return s, nil
}

func (s *Supervisor) Name() string         { return s.name }
func (s *Supervisor) Instructions() string { return s.instructions }
func (s *Supervisor) Kind() AgentKind      { return KindSupervisor }
func (s *Supervisor) Tools() []ToolSummary { return s.registry.Summaries() }

// Registry exposes the supervisor's own tool registry.
func (s *Supervisor) Registry() *Registry { return s.registry }

// AddAgent places an agent under supervision and returns the handle the
// backend will use to delegate to it. Registration is expected during setup,
// before runs begin.
func (s *Supervisor) AddAgent(a Agent) string {
	id := uuid.NewString()
	s.agents[id] = a
	s.order = append(s.order, id)
	return id
}

// manifest describes the supervised agents for the backend: descriptor plus,
// for tool-using agents only, the reduced listing of their own tools.
func (s *Supervisor) manifest() []AgentManifest {
	out := make([]AgentManifest, 0, len(s.order))
	for _, id := range s.order {
		a := s.agents[id]
		m := AgentManifest{
			ID:           id,
			Name:         a.Name(),
			Type:         a.Kind(),
			Instructions: a.Instructions(),
		}
		if tools := a.Tools(); len(tools) > 0 {
			m.Tools = tools
		}
		out = append(out, m)
	}
	return out
}

// Run drives the orchestration loop, executing tool calls and delegations the
// backend asks for, then extracts the structured value if an output type was
// configured.
func (s *Supervisor) Run(ctx context.Context, input string) (*Result, error) {
	req := &Request{
		Prompt:           buildPrompt(s.name, s.instructions, input),
		MaxTokens:        supervisorMaxTokens,
		AgentType:        KindSupervisor,
		Tools:            s.registry.Manifests(),
		SupervisedAgents: s.manifest(),
	}
	if s.output != nil {
		req.OutputSchema = s.output.manifest
	}
	s.logger.Debug("supervisor run",
		zap.String("agent", s.name),
		zap.Int("supervised", len(s.order)),
		zap.Int("tools", s.registry.Len()))
	l := &loop{
		backend:   s.backend,
		registry:  s.registry,
		agents:    s.agents,
		agentName: s.name,
		logger:    s.logger,
	}
	resp, err := l.run(ctx, req)
	if err != nil {
		return nil, err
	}
	return finishResult(resp, s.output, s.requireOutput)
}

var _ Agent = (*Supervisor)(nil)
