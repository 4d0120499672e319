package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pacfix/pacfix/pkg/telemetry"
)

// readBufferSize is the line buffer for streaming child output.
const readBufferSize = 4096

// ShellRunner executes commands through a shell so that pipes,
// redirections and sudo in the assembled command lines work unchanged.
// The child's stdout is echoed to Out while being captured; the
// returned capture is what the classifier operates on.
type ShellRunner struct {
	// Shell is the shell binary, /bin/sh when empty.
	Shell string

	// Out receives the echoed child output, os.Stdout when nil.
	Out io.Writer
}

// Run executes the command and returns the captured output. A spawn
// failure yields an empty capture and a transient error; non-zero exit
// codes are not errors because the engine classifies the text, not the
// code. Exit code 2 from pacman gets a soft notice.
func (r *ShellRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	log := telemetry.FromContext(ctx)
	log.Debugf("running: %s", command)

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stderr = out

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", NewTransientError("failed to open stdout pipe", err).WithOperation("run")
	}

	if err := cmd.Start(); err != nil {
		log.WithError(err).Error("failed to run command")
		return "", NewTransientError("failed to spawn command", err).WithOperation("run")
	}

	var capture strings.Builder
	reader := bufio.NewReaderSize(stdout, readBufferSize)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			fmt.Fprint(out, line)
			capture.WriteString(line)
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				log.WithError(readErr).Warn("error reading command output")
			}
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.ExitCode() == 2 {
				fmt.Fprintln(out, "pacman error: package not found or similar.")
			}
			log.Debugf("command exited with code %d", exitErr.ExitCode())
			return capture.String(), nil
		}
		log.WithError(err).Error("failed to reap command")
		return "", NewTransientError("failed to wait for command", err).WithOperation("run")
	}

	return capture.String(), nil
}
