package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"marketscout/internal/logger"
	"marketscout/internal/utils"
)

const versionCheckTimeout = 10 * time.Second

// runCLI executes the tool at path with args, bounded by timeout. Timeouts
// and cancellation are reported as ordinary failed Results.
func runCLI(ctx context.Context, path string, args []string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := commandContext(runCtx, path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.LogDebug(fmt.Sprintf("Running %s with %d args, timeout %s", path, len(args), timeout))

	err := cmd.Run()
	output := strings.TrimSpace(utils.SanitizeOutput(stdout.String()))
	if err == nil {
		return Result{Output: output, Success: true}
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return Result{
			Success:  false,
			Err:      fmt.Sprintf("command timed out after %s", timeout),
			ExitCode: -1,
		}
	}
	if ctx.Err() != nil {
		return Result{Success: false, Err: "command cancelled: " + ctx.Err().Error(), ExitCode: -1}
	}

	exitCode := -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		exitCode = ee.ExitCode()
	}
	msg := strings.TrimSpace(utils.SanitizeOutput(stderr.String()))
	if msg == "" {
		msg = err.Error()
	}
	logger.LogWarn(fmt.Sprintf("CLI %s exited with code %d: %s", path, exitCode, utils.Truncate(msg, 200)))
	return Result{Output: output, Success: false, Err: msg, ExitCode: exitCode}
}

// checkAvailable reports whether the tool at path responds to --version.
func checkAvailable(path string) bool {
	if path == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), versionCheckTimeout)
	defer cancel()
	cmd := commandContext(ctx, path, "--version")
	return cmd.Run() == nil
}
