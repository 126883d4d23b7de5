package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/PerryB-GIT/support-forge-app-sub000/internal/core"
)

// ConsoleAsker prompts for credentials on the terminal. On a terminal each
// answer is read with an inline textinput, masked for secret fields. Other
// input is read line by line.
type ConsoleAsker struct {
	out io.Writer

	// ask shows prompt and returns one answer.
	ask func(ctx context.Context, prompt string, secret bool) (string, error)
}

// NewConsoleAsker creates an asker reading from in and writing prompts to out.
func NewConsoleAsker(in *os.File, out io.Writer) *ConsoleAsker {
	if !IsTerminal(in) {
		return newConsoleAsker(in, out)
	}
	return &ConsoleAsker{
		out: out,
		ask: func(ctx context.Context, prompt string, secret bool) (string, error) {
			return runPrompt(ctx, in, out, prompt, secret)
		},
	}
}

func newConsoleAsker(in io.Reader, out io.Writer) *ConsoleAsker {
	r := bufio.NewReader(in)
	return &ConsoleAsker{
		out: out,
		ask: func(_ context.Context, prompt string, _ bool) (string, error) {
			_, _ = fmt.Fprint(out, prompt)
			return readLine(r)
		},
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ConfirmModule asks whether to configure a module that needs credentials.
func (a *ConsoleAsker) ConfirmModule(ctx context.Context, m *core.IntegrationModule) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, _ = fmt.Fprintf(a.out, "\n%s %s\n", selectedItemStyle.Render(m.Name), mutedStyle.Render("needs credentials"))
	if m.Docs != "" {
		_, _ = fmt.Fprintf(a.out, "  %s\n", mutedStyle.Render(m.Docs))
	}
	return a.Confirm(ctx, "  Configure it now?", true)
}

// AskField prompts for one credential. A non-zero attempt means the previous
// answer was empty and the field has no default.
func (a *ConsoleAsker) AskField(ctx context.Context, m *core.IntegrationModule, f core.AuthField, attempt int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if attempt > 0 {
		_, _ = fmt.Fprintf(a.out, "  %s\n", warningStyle.Render(f.Prompt()+" is required"))
	}
	if f.Help != "" && attempt == 0 {
		_, _ = fmt.Fprintf(a.out, "  %s\n", mutedStyle.Render(f.Help))
	}

	prompt := "  " + f.Prompt()
	if f.MultiValue {
		prompt += mutedStyle.Render(" (comma-separated)")
	}
	if f.HasDefault() && *f.Default != "" {
		prompt += mutedStyle.Render(" [" + *f.Default + "]")
	}
	return a.ask(ctx, prompt+": ", f.Secret)
}

// Confirm asks a yes/no question. An empty answer picks def.
func (a *ConsoleAsker) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		line, err := a.ask(ctx, question+" "+hint+" ", false)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		_, _ = fmt.Fprintln(a.out, "  Please answer y or n.")
	}
}

// readLine returns the next input line without its terminator. A final line
// without a newline is returned as is; EOF with nothing read is an error.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
