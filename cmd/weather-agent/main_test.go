package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	configpkg "github.com/minhyannv/agent-workflows-go/pkg/config"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedAgent struct {
	answers map[string]string
	err     error
}

func (c cannedAgent) Invoke(_ context.Context, messages []agent.Message) ([]agent.Message, error) {
	if c.err != nil {
		return nil, c.err
	}
	q := agent.LastContent(messages)
	return append(messages, agent.AssistantMessage(c.answers[q])), nil
}

func TestRunPrintsEachAnswer(t *testing.T) {
	var out bytes.Buffer
	a := cannedAgent{answers: map[string]string{
		questions[0]: "Sunny, 72°F in NYC.",
		questions[1]: "It is 10:30:00 in America/New_York.",
	}}

	require.NoError(t, run(context.Background(), a, questions, &out))
	assert.Equal(t, "Sunny, 72°F in NYC.\nIt is 10:30:00 in America/New_York.\n", out.String())
}

func TestRunStopsOnError(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), cannedAgent{err: errors.New("boom")}, questions, &out)
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, out.String())
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", opts.Model)
	assert.Equal(t, "openai", opts.Provider)
	assert.False(t, opts.React)
	assert.False(t, opts.LocalTime)

	opts, err = parseFlags([]string{"-provider", "groq", "-react", "-local-time", "-model", ""})
	require.NoError(t, err)
	assert.True(t, opts.LocalTime)
	assert.Equal(t, "groq", opts.Provider)
	assert.True(t, opts.React)
	assert.Empty(t, opts.Model)
}

func TestBuildAgentFailsWithoutSettings(t *testing.T) {
	t.Setenv(configpkg.KeyGroqAPIKey, "")
	t.Setenv(configpkg.KeyOpenAIAPIKey, "")
	t.Setenv(configpkg.KeyDefaultModel, "")

	_, err := buildAgent(cliOptions{EnvFile: filepath.Join(t.TempDir(), "none.env"), Provider: "openai"}, loggerpkg.NopLogger{})
	assert.ErrorIs(t, err, configpkg.ErrMissingSetting)
}

func TestBuildAgentWithSettings(t *testing.T) {
	t.Setenv(configpkg.KeyGroqAPIKey, "gsk")
	t.Setenv(configpkg.KeyOpenAIAPIKey, "sk")
	t.Setenv(configpkg.KeyDefaultModel, "llama")

	a, err := buildAgent(cliOptions{EnvFile: filepath.Join(t.TempDir(), "none.env"), Provider: "openai", Model: "gpt-4", React: true}, loggerpkg.NopLogger{})
	require.NoError(t, err)
	assert.NotNil(t, a)

	a, err = buildAgent(cliOptions{EnvFile: filepath.Join(t.TempDir(), "none.env"), Provider: "groq", LocalTime: true}, loggerpkg.NopLogger{})
	require.NoError(t, err)
	assert.NotNil(t, a)

	_, err = buildAgent(cliOptions{EnvFile: filepath.Join(t.TempDir(), "none.env"), Provider: "bedrock"}, loggerpkg.NopLogger{})
	assert.Error(t, err)
}
