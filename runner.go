package panwrap

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-panwrap/internal/process"
)

// Command is one converter invocation.
type Command struct {
	Name string
	Args []string
	Dir  string   // working directory
	Env  []string // full environment, KEY=value
}

// String renders the command line for logs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, s := range append([]string{c.Name}, c.Args...) {
		if strings.ContainsAny(s, " \t\"'") {
			s = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run executes cmd and returns its combined stdout and stderr.
	Run(ctx context.Context, cmd Command) (output []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec. The command runs in
// its own process group, which is killed when ctx is cancelled. No timeout
// is applied.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	name := c.Name
	if p, err := LookPath(c.Name, c.Env); err == nil {
		name = p
	}
	cmd := exec.CommandContext(ctx, name, c.Args...) // #nosec G204 -- the converter and its arguments come from settings
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	process.Isolate(cmd)
	return cmd.CombinedOutput()
}

// LookPath searches for name in the directories of env's PATH, which
// differs from the process PATH once tex_path or pandoc_path are set.
// A name containing a separator is checked as is.
func LookPath(name string, env []string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		return exec.LookPath(name)
	}
	path := ""
	for _, kv := range env {
		if k, v, _ := strings.Cut(kv, "="); k == "PATH" {
			path = v
		}
	}
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		if p, err := exec.LookPath(filepath.Join(dir, name)); err == nil {
			return p, nil
		}
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// exitCode extracts the process exit status from a Run error.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
