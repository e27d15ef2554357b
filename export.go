package prez

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/exec"
	"github.com/k1LoW/prez/template"
)

// Environment variables passed to the external export command.
const (
	envExportInput  = "PREZ_EXPORT_INPUT"
	envExportOutput = "PREZ_EXPORT_OUTPUT"
)

// Export converts a generated deck with an external command, typically a
// LibreOffice or PDF converter. The command runs through the user's shell
// and may reference {{input}}, {{output}} and {{env.XXX}} template
// variables; the same values are exported as PREZ_EXPORT_INPUT and
// PREZ_EXPORT_OUTPUT.
func Export(ctx context.Context, command, input, output string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if command == "" {
		return fmt.Errorf("no export command configured")
	}
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	env := template.EnvironToMap()
	env[envExportInput] = input
	env[envExportOutput] = output
	store := map[string]any{
		"input":  input,
		"output": output,
		"env":    env,
	}
	expanded, err := template.Expand(command, store)
	if err != nil {
		return fmt.Errorf("failed to expand export command template: %w", err)
	}

	c, args, err := buildCommand(expanded)
	if err != nil {
		return fmt.Errorf("failed to build export command: %w", err)
	}

	cmd := exec.CommandContext(ctx, c, args...)
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, envExportInput+"="+input, envExportOutput+"="+output)

	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run export command: %w\nstderr: %s", err, stderr.String())
	}
	return nil
}

// buildCommand parses a command string and returns the command and arguments.
func buildCommand(cmdStr string) (string, []string, error) {
	shell, err := detectShell()
	if err != nil {
		return "", nil, err
	}
	return shell, []string{"-c", cmdStr}, nil
}

// detectShell detects the current shell.
func detectShell() (string, error) {
	shells := []string{
		os.Getenv("SHELL"),
		"/bin/bash",
		"/bin/sh",
	}
	for _, shell := range shells {
		if shell == "" {
			continue
		}
		if _, err := os.Stat(shell); err == nil {
			return shell, nil
		}
	}
	return "", fmt.Errorf("failed to detect shell")
}
