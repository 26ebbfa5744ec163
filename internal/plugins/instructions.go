package plugins

import (
	"os/exec"
	"runtime"
)

// CLIToolPresent reports whether the named CLI tool is on PATH
func CLIToolPresent(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

var installInstructions = map[string]map[string]string{
	"glab": {
		"macos":        "brew install glab",
		"linux_apt":    "sudo apt install glab",
		"linux_dnf":    "sudo dnf install glab",
		"linux_pacman": "sudo pacman -S gitlab-glab",
		"linux":        "See https://gitlab.com/gitlab-org/cli#installation",
		"windows":      "winget install glab",
		"manual":       "https://gitlab.com/gitlab-org/cli#installation",
	},
}

// InstallHint returns the installation instruction for the named CLI
// tool matching the host OS and package manager
func InstallHint(tool string) string {
	instructions, ok := installInstructions[tool]
	if !ok {
		return ""
	}
	if hint, ok := instructions[detectOS()]; ok {
		return hint
	}
	return instructions["manual"]
}

func detectOS() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "linux":
		for _, manager := range []string{"apt", "dnf", "pacman"} {
			if CLIToolPresent(manager) {
				return "linux_" + manager
			}
		}
		return "linux"
	case "windows":
		return "windows"
	}
	return "unknown"
}
