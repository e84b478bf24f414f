package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/minhyannv/agent-workflows-go/pkg/tools"
	"github.com/openai/openai-go"
)

// ErrMaxTurns is returned when the model keeps requesting tools past the
// configured turn limit.
var ErrMaxTurns = errors.New("max turns reached before assistant produced a final response")

// Invoker accepts a conversation and returns it with the agent's reply
// appended.
type Invoker interface {
	Invoke(ctx context.Context, messages []Message) ([]Message, error)
}

// Agent binds a chat model to a tool registry and runs the tool-calling
// loop for each Invoke. It keeps no conversation state between calls.
type Agent struct {
	spec         ModelSpec
	completer    Completer
	tools        *tools.Registry
	systemPrompt string
	maxTurns     int

	logger  loggerpkg.Logger
	verbose bool
}

// New builds an agent that decides on its own when to call the registered
// tools. registry may be nil for a tool-less agent.
func New(spec ModelSpec, registry *tools.Registry, opts ...AgentOption) (*Agent, error) {
	return newAgent(spec, registry, "", opts...)
}

// NewReact builds a reasoning agent driven by an explicit system prompt.
func NewReact(spec ModelSpec, registry *tools.Registry, systemPrompt string, opts ...AgentOption) (*Agent, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("system prompt is empty")
	}
	return newAgent(spec, registry, systemPrompt, opts...)
}

func newAgent(spec ModelSpec, registry *tools.Registry, systemPrompt string, opts ...AgentOption) (*Agent, error) {
	deps := agentDeps{logger: loggerpkg.NopLogger{}, maxTurns: DefaultMaxTurns, maxRetries: -1}
	for _, opt := range opts {
		if opt != nil {
			opt(&deps)
		}
	}
	if deps.logger == nil {
		deps.logger = loggerpkg.NopLogger{}
	}
	if deps.maxTurns <= 0 {
		deps.maxTurns = 1
	}

	spec.Model = strings.TrimSpace(spec.Model)
	spec.APIKey = strings.TrimSpace(spec.APIKey)
	if err := spec.validate(); err != nil {
		return nil, err
	}

	var toolNames []string
	if registry != nil {
		toolNames = registry.Names()
	}
	loggerpkg.Debug(deps.verbose, deps.logger, "agent init", map[string]any{
		"provider":    spec.Provider,
		"model":       spec.Model,
		"temperature": spec.Temperature,
		"max_turns":   deps.maxTurns,
		"tools":       toolNames,
		"react":       systemPrompt != "",
	})

	completer := deps.completer
	if completer == nil {
		completer = clientCompleter{client: newOpenAIClient(spec, deps.maxRetries)}
	}

	return &Agent{
		spec:         spec,
		completer:    completer,
		tools:        registry,
		systemPrompt: systemPrompt,
		maxTurns:     deps.maxTurns,
		logger:       deps.logger,
		verbose:      deps.verbose,
	}, nil
}

// Invoke runs the tool-calling loop over messages and returns a new slice
// holding the input followed by one assistant message.
func (a *Agent) Invoke(ctx context.Context, messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("conversation is empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	params, err := a.toOpenAIMessages(messages)
	if err != nil {
		return nil, err
	}

	final, err := a.runIteration(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(messages)+1)
	out = append(out, messages...)
	out = append(out, Message{Role: RoleAssistant, Content: final.Content})
	return out, nil
}

// runIteration executes iterative model/tool turns for one invocation.
func (a *Agent) runIteration(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (openai.ChatCompletionMessage, error) {
	currentMessages := append([]openai.ChatCompletionMessageParamUnion{}, messages...)

	for turn := 0; turn < a.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return openai.ChatCompletionMessage{}, err
		}
		a.debugf("[verbose] iteration: %d/%d", turn+1, a.maxTurns)
		message, err := a.completer.Complete(ctx, a.newChatParams(currentMessages))
		if err != nil {
			return openai.ChatCompletionMessage{}, fmt.Errorf("chat completion: %w", err)
		}

		if len(message.ToolCalls) == 0 {
			return message, nil
		}

		// Persist the assistant tool-call turn before appending tool responses.
		currentMessages = append(currentMessages, message.ToParam())
		a.debugf("[verbose] iteration: assistant requested %d tool call(s)", len(message.ToolCalls))
		currentMessages = a.appendToolResponses(ctx, currentMessages, message.ToolCalls)
	}

	return openai.ChatCompletionMessage{}, ErrMaxTurns
}

func (a *Agent) debugf(format string, args ...any) {
	loggerpkg.Debugf(a.verbose, a.logger, format, args...)
}

func (a *Agent) newChatParams(messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(a.spec.Model),
		Messages:    messages,
		Temperature: openai.Float(a.spec.Temperature),
	}
	if a.tools != nil {
		params.Tools = a.tools.Definitions()
	}
	return params
}

func (a *Agent) appendToolResponses(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
	toolCalls []openai.ChatCompletionMessageToolCall,
) []openai.ChatCompletionMessageParamUnion {
	updated := messages
	for _, call := range toolCalls {
		var output string
		var err error
		if a.tools == nil {
			err = fmt.Errorf("unknown tool: %s", call.Function.Name)
		} else {
			output, err = a.tools.Execute(ctx, call)
		}
		if err != nil {
			output = fmt.Sprintf(`{"ok":false,"error":%q}`, err.Error())
		}
		a.debugf("[verbose] tool %s -> %d bytes", call.Function.Name, len(output))
		updated = append(updated, openai.ToolMessage(output, call.ID))
	}
	return updated
}

func (a *Agent) toOpenAIMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if a.systemPrompt != "" && !hasSystem(messages) {
		out = append(out, openai.SystemMessage(a.systemPrompt))
	}

	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("invalid message role at index %d: %q", i, msg.Role)
		}
	}
	return out, nil
}

func hasSystem(messages []Message) bool {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			return true
		}
	}
	return false
}
