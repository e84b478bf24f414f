// Package main runs the weather and time demo agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	configpkg "github.com/minhyannv/agent-workflows-go/pkg/config"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/minhyannv/agent-workflows-go/pkg/prompts"
	"github.com/minhyannv/agent-workflows-go/pkg/tools"
)

var questions = []string{
	"What's the weather in NYC?",
	"What's the time in us eastern zone now?",
}

type cliOptions struct {
	EnvFile   string
	Provider  string
	Model     string
	React     bool
	LocalTime bool
	Verbose   bool
}

func parseFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("weather-agent", flag.ContinueOnError)
	var opts cliOptions
	fs.StringVar(&opts.EnvFile, "env", configpkg.DefaultEnvFile, "Dotenv file with API keys")
	fs.StringVar(&opts.Provider, "provider", string(agent.ProviderOpenAI), "Model provider: openai or groq")
	fs.StringVar(&opts.Model, "model", "gpt-4", "Chat model name (empty uses DEFAULT_MODEL)")
	fs.BoolVar(&opts.React, "react", false, "Use the reactive agent with an explicit system prompt")
	fs.BoolVar(&opts.LocalTime, "local-time", false, "Answer time questions in the local timezone")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Verbose tool-call logging")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	return opts, nil
}

// main is the program entry point.
func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	appLogger := loggerpkg.NewWriterLogger(os.Stderr)
	weatherAgent, err := buildAgent(opts, appLogger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), weatherAgent, questions, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildAgent(opts cliOptions, appLogger loggerpkg.Logger) (*agent.Agent, error) {
	settings, err := configpkg.Load(configpkg.LoadOptions{EnvFile: opts.EnvFile})
	if err != nil {
		return nil, err
	}
	provider, err := agent.ParseProvider(opts.Provider)
	if err != nil {
		return nil, err
	}

	toolNames := tools.WeatherTools
	if opts.LocalTime {
		toolNames = tools.LocalWeatherTools
	}
	registry, err := tools.NewRegistry(tools.Context{
		Verbose: opts.Verbose,
		Logger:  appLogger,
	}, toolNames...)
	if err != nil {
		return nil, err
	}

	spec := agent.ModelFromSettings(settings, provider, opts.Model, 0)
	agentOpts := []agent.AgentOption{
		agent.WithLogger(appLogger),
		agent.WithVerbose(opts.Verbose),
		agent.WithMaxTurns(settings.MaxTurns),
		agent.WithMaxRetries(settings.MaxRetries),
	}
	if opts.React {
		return agent.NewReact(spec, registry, prompts.Default().WeatherSystem, agentOpts...)
	}
	return agent.New(spec, registry, agentOpts...)
}

// run asks each question in a fresh conversation and prints the answer.
func run(ctx context.Context, a agent.Invoker, questions []string, out io.Writer) error {
	for _, q := range questions {
		reply, err := a.Invoke(ctx, []agent.Message{agent.UserMessage(q)})
		if err != nil {
			return fmt.Errorf("%q: %w", q, err)
		}
		_, _ = fmt.Fprintln(out, agent.LastContent(reply))
	}
	return nil
}
