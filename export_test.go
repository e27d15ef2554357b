package prez

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "deck_v001.pptx")
	if err := os.WriteFile(input, []byte("deck"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "deck_v001.pdf")

	if err := Export(ctx, `cp "{{input}}" "{{output}}"`, input, output); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "deck" {
		t.Errorf("output = %q, want %q", b, "deck")
	}
}

// The input and output paths also reach the command as environment variables.
func TestExportEnv(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "deck_v002.pptx")
	if err := os.WriteFile(input, []byte("deck"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "deck_v002.pdf")

	if err := Export(ctx, `cp "$PREZ_EXPORT_INPUT" "$PREZ_EXPORT_OUTPUT"`, input, output); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("want output file: %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	input := filepath.Join(dir, "deck_v003.pptx")
	if err := os.WriteFile(input, []byte("deck"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Export(ctx, "", input, "out.pdf"); err == nil {
		t.Error("want error for an empty command")
	}
	if err := Export(ctx, "true", filepath.Join(dir, "missing.pptx"), "out.pdf"); err == nil {
		t.Error("want error for a missing input")
	}

	err := Export(ctx, "echo boom >&2; exit 3", input, "out.pdf")
	if err == nil {
		t.Fatal("want error for a failing command")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %q, want captured stderr", err)
	}
}

func TestBuildCommand(t *testing.T) {
	t.Setenv("SHELL", "/bin/sh")
	c, args, err := buildCommand("echo hi")
	if err != nil {
		t.Fatal(err)
	}
	if c != "/bin/sh" {
		t.Errorf("shell = %q, want %q", c, "/bin/sh")
	}
	if len(args) != 2 || args[0] != "-c" || args[1] != "echo hi" {
		t.Errorf("args = %v, want [-c, echo hi]", args)
	}
}

// An unusable SHELL falls back to a shell that exists.
func TestDetectShellFallback(t *testing.T) {
	t.Setenv("SHELL", "/no/such/shell")
	sh, err := detectShell()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(sh); err != nil {
		t.Errorf("detected shell %q does not exist", sh)
	}
}
