package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/openai/openai-go"
)

// Tool names registered by NewRegistry.
const (
	NameGetWeather     = "get_weather"
	NameGetTime        = "get_time"
	NameGetLocalTime   = "get_local_time"
	NameTrendingTopics = "fetch_trending_topics"
	NameSearchArticles = "search_articles"
	NameSentiment      = "analyze_sentiment"
)

// Presets used by the command-line agents.
var (
	WeatherTools  = []string{NameGetWeather, NameGetTime}
	ResearchTools = []string{NameTrendingTopics, NameSearchArticles, NameSentiment}

	// LocalWeatherTools answers time questions in the process zone.
	LocalWeatherTools = []string{NameGetWeather, NameGetLocalTime}
)

type tool interface {
	definition() openai.ChatCompletionToolParam
	execute(argText string) (string, error)
	name() string
}

// Context carries the runtime dependencies shared by all tools.
type Context struct {
	Verbose bool
	Logger  loggerpkg.Logger
	// Now returns the current instant; nil means time.Now.
	Now func() time.Time
}

func (c Context) debugf(format string, args ...any) {
	loggerpkg.Debugf(c.Verbose, c.Logger, format, args...)
}

func (c Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Registry holds registered tools and handles execution.
type Registry struct {
	registry map[string]tool
	ctx      Context
	params   []openai.ChatCompletionToolParam
	names    []string
}

type toolResponse struct {
	OK   bool        `json:"ok"`
	Tool string      `json:"tool,omitempty"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"error,omitempty"`
}

func builtins(ctx Context) map[string]tool {
	return map[string]tool{
		NameGetWeather:     newWeatherTool(ctx),
		NameGetTime:        newTimeTool(ctx),
		NameGetLocalTime:   newLocalTimeTool(ctx),
		NameTrendingTopics: newTrendingTool(ctx),
		NameSearchArticles: newSearchTool(ctx),
		NameSentiment:      newSentimentTool(ctx),
	}
}

// AllTools lists the built-in tools registered by default, in registration
// order. get_local_time is opt-in.
var AllTools = []string{NameGetWeather, NameGetTime, NameTrendingTopics, NameSearchArticles, NameSentiment}

// NewRegistry builds a registry with the named built-in tools, or all of
// them when no names are given.
func NewRegistry(ctx Context, names ...string) (*Registry, error) {
	if ctx.Logger == nil {
		ctx.Logger = loggerpkg.NopLogger{}
	}
	if len(names) == 0 {
		names = AllTools
	}
	available := builtins(ctx)
	t := &Registry{
		registry: make(map[string]tool),
		ctx:      ctx,
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		impl, ok := available[name]
		if !ok {
			return nil, fmt.Errorf("unknown tool: %s", name)
		}
		if _, dup := t.registry[name]; dup {
			return nil, fmt.Errorf("tool registered twice: %s", name)
		}
		t.register(impl)
	}
	return t, nil
}

func (t *Registry) register(toolImpl tool) {
	t.registry[toolImpl.name()] = toolImpl
	t.params = append(t.params, toolImpl.definition())
	t.names = append(t.names, toolImpl.name())
	t.ctx.debugf("[verbose] registered tool: %s", toolImpl.name())
}

// Definitions returns tool declarations in registration order.
func (t *Registry) Definitions() []openai.ChatCompletionToolParam {
	return t.params
}

// Names returns registered tool names in registration order.
func (t *Registry) Names() []string {
	return append([]string(nil), t.names...)
}

// Execute runs one model-requested tool call and returns the JSON envelope
// sent back to the model. Tool-level failures are reported in the envelope;
// the error return is reserved for envelope encoding failures. A done ctx
// is reported as a tool failure without running the tool.
func (t *Registry) Execute(ctx context.Context, call openai.ChatCompletionMessageToolCall) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return marshalToolResponse(call.Function.Name, nil, err)
		}
	}

	toolImpl, ok := t.registry[call.Function.Name]
	if !ok {
		return marshalToolResponse(call.Function.Name, nil, fmt.Errorf("unknown tool: %s", call.Function.Name))
	}

	return toolImpl.execute(call.Function.Arguments)
}

func marshalToolResponse(toolName string, data interface{}, err error) (string, error) {
	resp := toolResponse{
		OK:   err == nil,
		Tool: toolName,
		Data: data,
	}
	if err != nil {
		resp.Err = err.Error()
	}
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return "", marshalErr
	}
	return string(payload), nil
}

// funcTool adapts a typed function into a registry tool. The parameter
// schema is reflected from A.
type funcTool[A any] struct {
	ctx         Context
	toolName    string
	description string
	run         func(ctx Context, args A) (any, error)
}

func (f *funcTool[A]) name() string { return f.toolName }

func (f *funcTool[A]) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        f.toolName,
			Description: openai.String(f.description),
			Parameters:  schemaFor[A](),
		},
	}
}

func (f *funcTool[A]) execute(argText string) (string, error) {
	var args A
	if strings.TrimSpace(argText) != "" {
		if err := json.Unmarshal([]byte(argText), &args); err != nil {
			f.ctx.debugf("[verbose] %s: failed to parse arguments: %v", f.toolName, err)
			return marshalToolResponse(f.toolName, nil, fmt.Errorf("invalid arguments: %w", err))
		}
	}
	data, err := f.run(f.ctx, args)
	if err != nil {
		f.ctx.debugf("[verbose] %s: %v", f.toolName, err)
		return marshalToolResponse(f.toolName, nil, err)
	}
	f.ctx.debugf("[verbose] %s: success", f.toolName)
	return marshalToolResponse(f.toolName, data, nil)
}

func schemaFor[A any]() openai.FunctionParameters {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v A
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		panic(fmt.Sprintf("tools: reflect schema for %T: %v", v, err))
	}
	params := openai.FunctionParameters{}
	if err := json.Unmarshal(raw, &params); err != nil {
		panic(fmt.Sprintf("tools: decode schema for %T: %v", v, err))
	}
	delete(params, "$schema")
	delete(params, "$id")
	return params
}
