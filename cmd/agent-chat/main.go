// Package main provides an interactive chat CLI over the tool-calling agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	configpkg "github.com/minhyannv/agent-workflows-go/pkg/config"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
	"github.com/minhyannv/agent-workflows-go/pkg/tools"
)

type cliOptions struct {
	EnvFile     string
	Provider    string
	Model       string
	System      string
	Temperature float64
	Tools       []string
	Verbose     bool
}

// main is the program entry point.
func main() {
	opts, err := parseCLIConfig(os.Args[1:])
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	appLogger := loggerpkg.NewWriterLogger(os.Stderr)
	chatAgent, err := buildAgent(opts, appLogger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runREPL(context.Background(), chatAgent, replOptions{
		Verbose: opts.Verbose,
		Logger:  appLogger,
	}, os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseCLIConfig turns flags into CLI options.
func parseCLIConfig(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("agent-chat", flag.ContinueOnError)
	var toolNames stringSliceFlag
	var opts cliOptions
	fs.StringVar(&opts.EnvFile, "env", configpkg.DefaultEnvFile, "Dotenv file with API keys")
	fs.StringVar(&opts.Provider, "provider", string(agent.ProviderGroq), "Model provider: groq or openai")
	fs.StringVar(&opts.Model, "model", "", "Chat model name (empty uses DEFAULT_MODEL)")
	fs.StringVar(&opts.System, "system", "", "System prompt; set to use the reactive agent")
	fs.Float64Var(&opts.Temperature, "temperature", 0, "Sampling temperature")
	fs.Var(&toolNames, "tool", "Tool to register. Repeat this flag for multiple tools; all tools when omitted")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Verbose tool-call logging")
	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	opts.Tools = toolNames.values()
	opts.System = strings.TrimSpace(opts.System)
	return opts, nil
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
	registry, err := tools.NewRegistry(tools.Context{
		Verbose: opts.Verbose,
		Logger:  appLogger,
	}, opts.Tools...)
	if err != nil {
		return nil, err
	}

	spec := agent.ModelFromSettings(settings, provider, opts.Model, opts.Temperature)
	agentOpts := []agent.AgentOption{
		agent.WithLogger(appLogger),
		agent.WithVerbose(opts.Verbose),
		agent.WithMaxTurns(settings.MaxTurns),
		agent.WithMaxRetries(settings.MaxRetries),
	}
	if opts.System != "" {
		return agent.NewReact(spec, registry, opts.System, agentOpts...)
	}
	return agent.New(spec, registry, agentOpts...)
}

// stringSliceFlag supports repeatable -tool flags.
type stringSliceFlag []string

func (f *stringSliceFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(*f, ",")
}

func (f *stringSliceFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("empty tool name")
	}
	if strings.Contains(value, ",") {
		return fmt.Errorf("comma-separated values are not supported for -tool; repeat the flag instead")
	}
	*f = append(*f, value)
	return nil
}

func (f stringSliceFlag) values() []string {
	out := make([]string, len(f))
	copy(out, f)
	return out
}
