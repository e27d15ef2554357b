package prez

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/exec"
	"github.com/k1LoW/prez/template"
	"github.com/pkg/browser"
)

// Open opens a generated deck. When command is empty the file opens with the
// OS default application. Otherwise the command runs through the user's
// shell and may reference {{input}} and {{env.XXX}} template variables.
func Open(ctx context.Context, command, input string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}
	if command == "" {
		if err := browser.OpenFile(input); err != nil {
			return fmt.Errorf("failed to open %s: %w", input, err)
		}
		return nil
	}

	store := map[string]any{
		"input": input,
		"env":   template.EnvironToMap(),
	}
	expanded, err := template.Expand(command, store)
	if err != nil {
		return fmt.Errorf("failed to expand open command template: %w", err)
	}
	c, args, err := buildCommand(expanded)
	if err != nil {
		return fmt.Errorf("failed to build open command: %w", err)
	}

	cmd := exec.CommandContext(ctx, c, args...)
	cmd.Env = os.Environ()

	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run open command: %w\nstderr: %s", err, stderr.String())
	}
	return nil
}
