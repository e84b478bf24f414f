// Package research wires an agent into a one-node research workflow.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/minhyannv/agent-workflows-go/pkg/prompts"
	"github.com/smallnest/langgraphgo/graph"
)

// DefaultTask is used when the state carries no task.
const DefaultTask = "Research trending tech topics"

// NodeProcess is the single working node.
const NodeProcess = "process"

// ErrorPrefix starts Result when the agent failed.
const ErrorPrefix = "Error: "

// State flows through the single-agent workflow. Messages only grow.
type State struct {
	Messages []agent.Message
	Task     string
	Result   string
	// Err is set when the agent invocation failed; Result then holds the
	// rendered error text.
	Err error
}

// Failed reports whether the run ended with an agent error.
func (s State) Failed() bool { return s.Err != nil }

// Option configures a SingleAgent.
type Option func(*SingleAgent)

// WithLogger injects a logger.
func WithLogger(l loggerpkg.Logger) Option {
	return func(s *SingleAgent) { s.logger = l }
}

// WithPrompts replaces the default prompt catalogue.
func WithPrompts(c prompts.Catalogue) Option {
	return func(s *SingleAgent) { s.prompts = c }
}

// stateRunnable is the compiled graph.
type stateRunnable interface {
	Invoke(ctx context.Context, state State) (State, error)
}

// SingleAgent is the compiled START -> process -> END research workflow.
type SingleAgent struct {
	agent    agent.Invoker
	prompts  prompts.Catalogue
	logger   loggerpkg.Logger
	runnable stateRunnable
}

// NewSingleAgent builds the research workflow around a.
func NewSingleAgent(a agent.Invoker, opts ...Option) (*SingleAgent, error) {
	if a == nil {
		return nil, errors.New("agent is required")
	}
	s := &SingleAgent{logger: loggerpkg.NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = loggerpkg.NopLogger{}
	}
	if s.prompts.IsZero() {
		s.prompts = prompts.Default()
	}
	s.agent = a
	loggerpkg.Info(s.logger, "creating single agent system", nil)

	g := graph.NewStateGraph[State]()
	g.AddNode(NodeProcess, "Run the research agent on the task", s.process)
	g.SetEntryPoint(NodeProcess)
	g.AddEdge(NodeProcess, graph.END)
	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile workflow: %w", err)
	}
	s.runnable = runnable
	return s, nil
}

// Invoke runs the workflow on state. Agent failures are recorded in the
// returned state, so the error return only covers cancellation and graph
// faults.
func (s *SingleAgent) Invoke(ctx context.Context, state State) (State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}
	return s.runnable.Invoke(ctx, state)
}

// Run executes the workflow for task with an empty conversation.
func (s *SingleAgent) Run(ctx context.Context, task string) (State, error) {
	return s.Invoke(ctx, State{Task: task, Messages: []agent.Message{}})
}

func (s *SingleAgent) process(ctx context.Context, state State) (State, error) {
	runID := uuid.NewString()
	task := strings.TrimSpace(state.Task)
	if task == "" {
		task = DefaultTask
	}
	loggerpkg.Info(s.logger, "single agent processing task", map[string]any{
		"run_id": runID,
		"task":   task,
	})

	result, err := s.answer(ctx, task)
	if err != nil {
		loggerpkg.Error(s.logger, "single agent error", map[string]any{
			"run_id": runID,
			"error":  err.Error(),
		})
		return failed(state, err), nil
	}

	state.Err = nil
	state.Result = result
	state.Messages = appendMessage(state.Messages, agent.AssistantMessage(result))
	loggerpkg.Info(s.logger, "single agent finished", map[string]any{
		"run_id": runID,
		"bytes":  len(result),
	})
	return state, nil
}

// answer runs the agent on task. A panic below the agent is returned as
// a *PanicError.
func (s *SingleAgent) answer(ctx context.Context, task string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = "", &PanicError{Value: r}
		}
	}()
	prompt, err := s.prompts.Research.Format(task)
	if err != nil {
		return "", err
	}
	reply, err := s.agent.Invoke(ctx, []agent.Message{agent.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if len(reply) == 0 {
		return "", errors.New("agent returned an empty conversation")
	}
	return agent.LastContent(reply), nil
}

func failed(state State, err error) State {
	text := ErrorPrefix + err.Error()
	state.Err = err
	state.Result = text
	state.Messages = appendMessage(state.Messages, agent.AssistantMessage(text))
	return state
}

// PanicError is recorded in State.Err when the agent panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("agent panicked: %v", e.Value)
}

// appendMessage copies before appending so callers' slices are never
// written through.
func appendMessage(messages []agent.Message, m agent.Message) []agent.Message {
	out := make([]agent.Message, 0, len(messages)+1)
	out = append(out, messages...)
	return append(out, m)
}
