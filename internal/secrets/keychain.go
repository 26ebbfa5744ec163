package secrets

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

type runnerFunc func(name string, args []string, stdin string) (string, error)

// NewKeychain creates a Store backed by the host OS keychain: the
// security command on macOS, secret-tool (libsecret) on Linux
func NewKeychain() Store {
	return &keychain{
		goos:     runtime.GOOS,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

type keychain struct {
	goos     string
	run      runnerFunc
	lookPath func(file string) (string, error)
}

func (k *keychain) IsAvailable() bool {
	switch k.goos {
	case "darwin":
		_, err := k.lookPath("security")
		return err == nil
	case "linux":
		_, err := k.lookPath("secret-tool")
		return err == nil
	}
	return false
}

func (k *keychain) Put(service, account, secret string) bool {
	switch k.goos {
	case "darwin":
		// drop any existing entry first, ignoring the result
		k.run("security", []string{"delete-generic-password", "-s", service, "-a", account}, "")

		_, err := k.run("security", []string{
			"add-generic-password",
			"-s", service,
			"-a", account,
			"-w", secret,
			"-U",
		}, "")
		return err == nil
	case "linux":
		_, err := k.run("secret-tool", []string{
			"store",
			"--label", fmt.Sprintf("%s - %s", service, account),
			"service", service,
			"account", account,
		}, secret)
		return err == nil
	}
	return false
}

func (k *keychain) Get(service, account string) (string, bool) {
	switch k.goos {
	case "darwin":
		out, err := k.run("security", []string{"find-generic-password", "-s", service, "-a", account, "-w"}, "")
		if err != nil {
			return "", false
		}
		return out, true
	case "linux":
		out, err := k.run("secret-tool", []string{"lookup", "service", service, "account", account}, "")
		if err != nil {
			return "", false
		}
		return out, true
	}
	return "", false
}

func (k *keychain) Delete(service, account string) bool {
	switch k.goos {
	case "darwin":
		// a missing entry is fine
		k.run("security", []string{"delete-generic-password", "-s", service, "-a", account}, "")
		return true
	case "linux":
		k.run("secret-tool", []string{"clear", "service", service, "account", account}, "")
		return true
	}
	return false
}

func (k *keychain) CommandRef(service, account string) string {
	switch k.goos {
	case "darwin":
		return fmt.Sprintf("$(security find-generic-password -s %s -a %s -w)", service, account)
	case "linux":
		return fmt.Sprintf("$(secret-tool lookup service %s account %s)", service, account)
	}
	return ""
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}
