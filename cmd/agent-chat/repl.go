package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minhyannv/agent-workflows-go/pkg/agent"
	loggerpkg "github.com/minhyannv/agent-workflows-go/pkg/logger"
)

// replOptions configures REPL behavior.
type replOptions struct {
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL reads one user line at a time, keeping the conversation across
// turns until /clear.
func runREPL(ctx context.Context, a agent.Invoker, opts replOptions, in io.Reader, out io.Writer) error {
	if a == nil {
		return fmt.Errorf("agent is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", nil)

	messages := []agent.Message{}
	scanner := bufio.NewScanner(in)

	printWelcome(out)

	for {
		_, _ = fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := handleCommand(input, &messages, out); quit {
				break
			}
			continue
		}

		pending := append(append([]agent.Message{}, messages...), agent.UserMessage(input))
		reply, err := a.Invoke(ctx, pending)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		messages = reply
		loggerpkg.Debug(opts.Verbose, opts.Logger, "turn complete", map[string]any{"messages": len(messages)})
		_, _ = fmt.Fprintf(out, "%s\n\n", agent.LastContent(reply))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

const commandHelp = `  /help  - Show this help message
  /clear - Clear conversation history
  /quit  - Exit the program
  /exit  - Exit the program`

func printWelcome(out io.Writer) {
	_, _ = fmt.Fprintln(out, "=== Agent Chat - Interactive Mode ===")
	_, _ = fmt.Fprintln(out, "Type your message and press Enter. Commands:")
	_, _ = fmt.Fprintln(out, commandHelp)
	_, _ = fmt.Fprintln(out)
}

// handleCommand runs a slash command and reports whether to quit.
func handleCommand(input string, messages *[]agent.Message, out io.Writer) bool {
	switch strings.ToLower(input) {
	case "/help", "/h":
		_, _ = fmt.Fprintln(out, "Commands:")
		_, _ = fmt.Fprintln(out, commandHelp)
		_, _ = fmt.Fprintln(out)
	case "/clear", "/c":
		*messages = []agent.Message{}
		_, _ = fmt.Fprintln(out, "Conversation history cleared.")
		_, _ = fmt.Fprintln(out)
	case "/quit", "/exit", "/q":
		_, _ = fmt.Fprintln(out, "Goodbye!")
		return true
	default:
		_, _ = fmt.Fprintf(out, "Unknown command: %s. Type /help for available commands.\n\n", input)
	}
	return false
}
