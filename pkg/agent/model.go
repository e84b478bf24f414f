package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	configpkg "github.com/minhyannv/agent-workflows-go/pkg/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider selects the OpenAI-compatible backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// ParseProvider maps a flag value to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderOpenAI, ProviderGroq:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q (want openai or groq)", s)
	}
}

// ModelSpec binds a chat model to its credentials.
type ModelSpec struct {
	Provider    Provider
	Model       string
	Temperature float64
	APIKey      string
	// BaseURL overrides the provider default when set.
	BaseURL string
}

// ModelFromSettings picks the API key for provider from settings. An empty
// model falls back to settings.DefaultModel.
func ModelFromSettings(settings configpkg.Settings, provider Provider, model string, temperature float64) ModelSpec {
	spec := ModelSpec{
		Provider:    provider,
		Model:       strings.TrimSpace(model),
		Temperature: temperature,
	}
	if spec.Model == "" {
		spec.Model = settings.DefaultModel
	}
	switch provider {
	case ProviderGroq:
		spec.APIKey = settings.GroqAPIKey
	default:
		spec.APIKey = settings.OpenAIAPIKey
	}
	return spec
}

func (s ModelSpec) validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return errors.New("APIKey is not set")
	}
	if strings.TrimSpace(s.Model) == "" {
		return errors.New("Model is not set")
	}
	if s.Temperature < 0 || s.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", s.Temperature)
	}
	return nil
}

func (s ModelSpec) baseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	if s.Provider == ProviderGroq {
		return GroqBaseURL
	}
	return ""
}

// Completer performs one chat completion and returns the first choice.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error)
}

type clientCompleter struct {
	client openai.Client
}

func newOpenAIClient(spec ModelSpec, maxRetries int) openai.Client {
	opts := []option.RequestOption{}
	// Negative keeps the SDK default.
	if maxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(maxRetries))
	}
	if u := spec.baseURL(); u != "" {
		opts = append(opts, option.WithBaseURL(u))
	}
	if spec.APIKey != "" {
		opts = append(opts, option.WithAPIKey(spec.APIKey))
	}
	return openai.NewClient(opts...)
}

func (c clientCompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (openai.ChatCompletionMessage, error) {
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	if len(completion.Choices) == 0 {
		return openai.ChatCompletionMessage{}, errors.New("empty completion choices")
	}
	return completion.Choices[0].Message, nil
}
