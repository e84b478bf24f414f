package research

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/minhyannv/agent-workflows-go/pkg/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent records the conversation it receives.
type fakeAgent struct {
	reply string
	err   error
	seen  [][]agent.Message
}

func (f *fakeAgent) Invoke(_ context.Context, messages []agent.Message) ([]agent.Message, error) {
	f.seen = append(f.seen, messages)
	if f.err != nil {
		return nil, f.err
	}
	return append(append([]agent.Message{}, messages...), agent.AssistantMessage(f.reply)), nil
}

func TestSingleAgentSuccess(t *testing.T) {
	fake := &fakeAgent{reply: "AI agents dominate the news."}
	wf, err := NewSingleAgent(fake)
	require.NoError(t, err)

	out, err := wf.Invoke(context.Background(), State{Task: "X", Messages: []agent.Message{}})
	require.NoError(t, err)

	assert.False(t, out.Failed())
	assert.Equal(t, "AI agents dominate the news.", out.Result)
	assert.Equal(t, []agent.Message{agent.AssistantMessage("AI agents dominate the news.")}, out.Messages)

	require.Len(t, fake.seen, 1)
	require.Len(t, fake.seen[0], 1)
	assert.Equal(t, agent.RoleUser, fake.seen[0][0].Role)
	assert.Contains(t, fake.seen[0][0].Content, "Task: X")
}

func TestSingleAgentDefaultTask(t *testing.T) {
	fake := &fakeAgent{reply: "ok"}
	wf, err := NewSingleAgent(fake)
	require.NoError(t, err)

	_, err = wf.Run(context.Background(), "  ")
	require.NoError(t, err)
	assert.Contains(t, fake.seen[0][0].Content, "Task: "+DefaultTask)
}

func TestSingleAgentFailureBecomesResult(t *testing.T) {
	var logs bytes.Buffer
	fake := &fakeAgent{err: errors.New("groq: 401 unauthorized")}
	wf, err := NewSingleAgent(fake, WithLogger(loggerpkg.NewWriterLogger(&logs)))
	require.NoError(t, err)

	out, err := wf.Invoke(context.Background(), State{Task: "X", Messages: []agent.Message{}})
	require.NoError(t, err, "agent failures never fail the graph")

	assert.True(t, out.Failed())
	assert.EqualError(t, out.Err, "groq: 401 unauthorized")
	assert.True(t, strings.HasPrefix(out.Result, ErrorPrefix))
	assert.Equal(t, "Error: groq: 401 unauthorized", out.Result)
	assert.Equal(t, []agent.Message{agent.AssistantMessage(out.Result)}, out.Messages)
	assert.Contains(t, logs.String(), "single agent error")
}

// crashingAgent fails at runtime instead of returning an error.
type crashingAgent struct{}

func (crashingAgent) Invoke(context.Context, []agent.Message) ([]agent.Message, error) {
	var counts map[string]int
	counts["calls"]++
	return nil, nil
}

func TestSingleAgentPanicBecomesResult(t *testing.T) {
	var logs bytes.Buffer
	wf, err := NewSingleAgent(crashingAgent{}, WithLogger(loggerpkg.NewWriterLogger(&logs)))
	require.NoError(t, err)

	var out State
	require.NotPanics(t, func() {
		out, err = wf.Run(context.Background(), "X")
	})
	require.NoError(t, err)

	require.True(t, out.Failed())
	var panicErr *PanicError
	require.ErrorAs(t, out.Err, &panicErr)
	assert.True(t, strings.HasPrefix(out.Result, "Error: agent panicked: "))
	assert.Contains(t, out.Result, "nil map")
	assert.Equal(t, []agent.Message{agent.AssistantMessage(out.Result)}, out.Messages)
	assert.Contains(t, logs.String(), "single agent error")
}

func TestSingleAgentMessagesAppendOnly(t *testing.T) {
	fake := &fakeAgent{reply: "second"}
	wf, err := NewSingleAgent(fake)
	require.NoError(t, err)

	prior := []agent.Message{agent.UserMessage("earlier"), agent.AssistantMessage("first")}
	out, err := wf.Invoke(context.Background(), State{Task: "X", Messages: prior})
	require.NoError(t, err)

	require.Len(t, out.Messages, 3)
	assert.Equal(t, prior, out.Messages[:2])
	assert.Len(t, prior, 2)
}

func TestSingleAgentCustomPrompts(t *testing.T) {
	catalogue, err := prompts.Load([]byte("research: \"Look into {{.Task}}\"\nweather_system: x\n"))
	require.NoError(t, err)
	fake := &fakeAgent{reply: "ok"}
	wf, err := NewSingleAgent(fake, WithPrompts(catalogue))
	require.NoError(t, err)

	_, err = wf.Run(context.Background(), "quantum")
	require.NoError(t, err)
	assert.Equal(t, "Look into quantum", fake.seen[0][0].Content)
}

func TestSingleAgentCancelledBeforeStart(t *testing.T) {
	fake := &fakeAgent{reply: "ok"}
	wf, err := NewSingleAgent(fake)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = wf.Run(ctx, "X")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.seen)
}

func TestNewSingleAgentRequiresAgent(t *testing.T) {
	_, err := NewSingleAgent(nil)
	assert.Error(t, err)
}
