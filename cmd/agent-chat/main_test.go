package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceFlagSetRejectsComma(t *testing.T) {
	var f stringSliceFlag
	assert.Error(t, f.Set("get_weather,get_time"))
}

func TestStringSliceFlagSetAcceptsSingleValue(t *testing.T) {
	var f stringSliceFlag
	require.NoError(t, f.Set(" get_weather "))
	assert.Equal(t, stringSliceFlag{"get_weather"}, f)
}

func TestParseCLIConfigCollectsTools(t *testing.T) {
	opts, err := parseCLIConfig([]string{"-tool", "get_weather", "-tool", "get_time", "-system", " be brief ", "-temperature", "0.2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"get_weather", "get_time"}, opts.Tools)
	assert.Equal(t, "be brief", opts.System)
	assert.InDelta(t, 0.2, opts.Temperature, 1e-9)
	assert.Equal(t, "groq", opts.Provider)
}

// historyAgent answers with the number of messages it was given.
type historyAgent struct {
	fail string
}

func (h historyAgent) Invoke(_ context.Context, messages []agent.Message) ([]agent.Message, error) {
	if agent.LastContent(messages) == h.fail {
		return nil, errors.New("model unavailable")
	}
	reply := agent.AssistantMessage(strings.Repeat("#", len(messages)))
	return append(append([]agent.Message{}, messages...), reply), nil
}

func TestREPLKeepsConversation(t *testing.T) {
	in := strings.NewReader("hello\nagain\n/clear\nfresh\n/quit\nignored\n")
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), historyAgent{}, replOptions{}, in, &out))

	text := out.String()
	assert.Contains(t, text, "> #\n")
	assert.Contains(t, text, "> ###\n")
	assert.Contains(t, text, "Conversation history cleared.")
	assert.Equal(t, 2, strings.Count(text, "> #\n"), "history restarts after /clear")
	assert.Contains(t, text, "Goodbye!")
}

func TestREPLDropsFailedTurn(t *testing.T) {
	in := strings.NewReader("first\nbreak\nsecond\n")
	var out bytes.Buffer

	require.NoError(t, runREPL(context.Background(), historyAgent{fail: "break"}, replOptions{}, in, &out))

	text := out.String()
	assert.Contains(t, text, "Error: model unavailable")
	// first -> 1 message, second -> user, assistant, user
	assert.Contains(t, text, "> ###\n")
}

func TestREPLUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), historyAgent{}, replOptions{}, strings.NewReader("/nope\n"), &out))
	assert.Contains(t, out.String(), "Unknown command: /nope")
}

func TestREPLRequiresAgent(t *testing.T) {
	assert.Error(t, runREPL(context.Background(), nil, replOptions{}, strings.NewReader(""), nil))
}
