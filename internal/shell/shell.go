// Package shell runs the external imaging tools a scan session depends on.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrToolMissing is returned by Check when a required executable is not on PATH.
var ErrToolMissing = errors.New("required tool not found")

// Runner executes an external command and returns its combined output.
// A non-zero exit status is reported as *ExitError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ExitError describes a command that ran but exited with a non-zero status.
type ExitError struct {
	Tool   string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.Code, out)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	log.Debug().Str("tool", name).Strs("args", args).Msg("Running command")
	err := cmd.Run()
	elapsed := time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		log.Debug().Str("tool", name).Dur("elapsed", elapsed).Msg("Command finished")
		return out.Bytes(), nil
	case ctx.Err() != nil:
		return out.Bytes(), fmt.Errorf("%s: %w", name, ctx.Err())
	case errors.As(err, &exitErr):
		log.Debug().Str("tool", name).Int("code", exitErr.ExitCode()).Dur("elapsed", elapsed).Msg("Command failed")
		return out.Bytes(), &ExitError{Tool: name, Code: exitErr.ExitCode(), Output: out.String()}
	default:
		return out.Bytes(), fmt.Errorf("failed to run %s: %w", name, err)
	}
}

// LookPath implements Runner.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Check verifies every named tool can be found.
func Check(r Runner, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := r.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrToolMissing, strings.Join(missing, ", "))
	}
	return nil
}

// ExitCode returns the exit status carried by err, or -1.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
