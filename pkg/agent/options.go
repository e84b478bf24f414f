package agent

import loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"

// DefaultMaxTurns bounds the model/tool round trips of one Invoke.
const DefaultMaxTurns = 10

// AgentOption configures optional runtime dependencies for Agent.
type AgentOption func(*agentDeps)

type agentDeps struct {
	logger     loggerpkg.Logger
	verbose    bool
	maxTurns   int
	maxRetries int
	completer  Completer
}

// WithLogger injects a logger dependency.
func WithLogger(l loggerpkg.Logger) AgentOption {
	return func(d *agentDeps) {
		d.logger = l
	}
}

// WithVerbose enables per-turn debug logging.
func WithVerbose(v bool) AgentOption {
	return func(d *agentDeps) {
		d.verbose = v
	}
}

// WithMaxTurns overrides DefaultMaxTurns.
func WithMaxTurns(n int) AgentOption {
	return func(d *agentDeps) {
		d.maxTurns = n
	}
}

// WithMaxRetries sets how often the HTTP client retries a failed request.
func WithMaxRetries(n int) AgentOption {
	return func(d *agentDeps) {
		d.maxRetries = n
	}
}

// WithCompleter replaces the OpenAI-compatible client.
func WithCompleter(c Completer) AgentOption {
	return func(d *agentDeps) {
		d.completer = c
	}
}
