// Package plugins wraps the external plugin-manager CLI and the
// package installs that back each platform.
package plugins

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const (
	commandTimeout = 60 * time.Second

	// plugin downloads can take a while
	installTimeout = 120 * time.Second
)

// Manager is the port over the plugin-manager CLI; operations are
// opaque pass/fail with captured diagnostic text
type Manager interface {
	CLIAvailable() bool
	MarketplaceAdded() bool
	AddMarketplace() bool
	Installed() []string
	Install(name string) (bool, string)
}

type runnerFunc func(timeout time.Duration, name string, args ...string) (bool, string)

func runCommand(timeout time.Duration, name string, args ...string) (bool, string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return false, "Command timed out"
	}
	if err != nil {
		output := strings.TrimSpace(string(out))
		if output == "" {
			output = err.Error()
		}
		return false, output
	}
	return true, strings.TrimSpace(string(out))
}
