// Package main runs the single-agent research workflow once.
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
	"github.com/minhyannv/agent-workflows-go/pkg/research"
	"github.com/minhyannv/agent-workflows-go/pkg/tools"
)

const researchTemperature = 0.7

type cliOptions struct {
	EnvFile  string
	Provider string
	Task     string
	Verbose  bool
}

func parseFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("research-agent", flag.ContinueOnError)
	var opts cliOptions
	fs.StringVar(&opts.EnvFile, "env", configpkg.DefaultEnvFile, "Dotenv file with API keys")
	fs.StringVar(&opts.Provider, "provider", string(agent.ProviderGroq), "Model provider: groq or openai")
	fs.StringVar(&opts.Task, "task", research.DefaultTask, "Research task")
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
	wf, err := buildWorkflow(opts, appLogger)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), wf, opts.Task, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func buildWorkflow(opts cliOptions, appLogger loggerpkg.Logger) (*research.SingleAgent, error) {
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
	}, tools.ResearchTools...)
	if err != nil {
		return nil, err
	}

	researcher, err := agent.New(
		agent.ModelFromSettings(settings, provider, settings.DefaultModel, researchTemperature),
		registry,
		agent.WithLogger(appLogger),
		agent.WithVerbose(opts.Verbose),
		agent.WithMaxTurns(settings.MaxTurns),
		agent.WithMaxRetries(settings.MaxRetries),
	)
	if err != nil {
		return nil, err
	}
	return research.NewSingleAgent(researcher, research.WithLogger(appLogger))
}

// run executes the workflow and prints the summary. A failed agent turn is
// printed like any result and then reported as an error for the exit code.
func run(ctx context.Context, wf *research.SingleAgent, task string, out io.Writer) error {
	state, err := wf.Run(ctx, task)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "📊 Research Summary:")
	_, _ = fmt.Fprintln(out, state.Result)
	if state.Failed() {
		return fmt.Errorf("research failed: %w", state.Err)
	}
	return nil
}
