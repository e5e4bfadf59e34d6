package orion

import (
	"time"

	"go.uber.org/zap"
)

// RegistryOption configures a Registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	timeout       time.Duration
	recoverPanics bool
}

// WithDefaultTimeout bounds each tool execution with a context timeout. Zero
// (the default) leaves tool calls bounded only by the caller's context.
func WithDefaultTimeout(d time.Duration) RegistryOption {
	return func(o *registryOptions) {
		o.timeout = d
	}
}

// WithRecoverPanics controls panic recovery in Execute (enabled by default).
// A recovered panic becomes the error value of the call.
func WithRecoverPanics(enable bool) RegistryOption {
	return func(o *registryOptions) {
		o.recoverPanics = enable
	}
}

// AgentOption configures an Analyst or Supervisor at construction.
type AgentOption func(*agentOptions)

type agentOptions struct {
	registry      *Registry
	tools         []Tool
	agents        []Agent
	output        *OutputType
	requireOutput bool
	logger        *zap.Logger
}

// WithRegistry injects an existing tool registry. Useful when several agents
// share one tool set; otherwise WithTools builds a private registry.
func WithRegistry(r *Registry) AgentOption {
	return func(o *agentOptions) {
		o.registry = r
	}
}

// WithTools registers the given tools on the agent's registry.
func WithTools(tools ...Tool) AgentOption {
	return func(o *agentOptions) {
		o.tools = append(o.tools, tools...)
	}
}

// WithAgents places the given agents under supervision, in order. Only
// supervisors use this option; analysts ignore it.
func WithAgents(agents ...Agent) AgentOption {
	return func(o *agentOptions) {
		o.agents = append(o.agents, agents...)
	}
}

// WithOutputType requests structured output: the schema is sent to the
// backend and the terminal response is run through the extraction cascade.
func WithOutputType(ot *OutputType) AgentOption {
	return func(o *agentOptions) {
		o.output = ot
	}
}

// WithRequireOutput makes the output type mandatory: construction fails
// without one, and extraction failure at run time is surfaced as an error
// instead of falling back to the raw result.
func WithRequireOutput() AgentOption {
	return func(o *agentOptions) {
		o.requireOutput = true
	}
}

// WithLogger sets the agent's logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) AgentOption {
	return func(o *agentOptions) {
		o.logger = logger
	}
}

// resolveAgentOptions applies defaults and enforces construction-time
// configuration rules: a required output type must be present up front, never
// discovered missing at Run.
func resolveAgentOptions(opts []AgentOption) (agentOptions, error) {
	var o agentOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.requireOutput && o.output == nil {
		return o, ErrOutputTypeRequired
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}
	for _, t := range o.tools {
		o.registry.Register(t)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o, nil
}
