package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// tailLines is how much of a failed tool's stderr is kept in its error.
const tailLines = 5

// Runner launches an external tool and waits for it to exit.
// It returns whatever the tool wrote to stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Exec runs tools with os/exec. When Stderr is set the tool's stderr is
// streamed there as well.
type Exec struct {
	Stderr io.Writer
}

func (e Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(e.Stderr, &stderr)
	}

	if err := cmd.Run(); err != nil {
		if tail := Tail(stderr.String(), tailLines); tail != "" {
			return stdout.Bytes(), fmt.Errorf("%s failed: %w\n%s", name, err, tail)
		}
		return stdout.Bytes(), fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Tail returns the last n non-empty lines of s.
func Tail(s string, n int) string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(s, "\r", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// CommandLine renders a tool invocation for logs and dry runs.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
