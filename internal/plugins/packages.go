package plugins

import (
	"fmt"
	"path/filepath"

	"github.com/grandcamel/as-plugins-cli/internal/platform"
)

// PackageInstaller installs platform support packages into the
// configured Python virtual environment
type PackageInstaller struct {
	venvDir string
	run     runnerFunc
}

// NewPackageInstaller creates a package installer for the provided
// virtual environment directory
func NewPackageInstaller(venvDir string) PackageInstaller {
	return PackageInstaller{venvDir, runCommand}
}

// Install installs the package at or above its minimum version,
// returning success along with any captured diagnostic output
func (i PackageInstaller) Install(pkg platform.PackageSpec) (bool, string) {
	pip := filepath.Join(i.venvDir, "bin", "pip")
	return i.run(installTimeout, pip, "install", fmt.Sprintf("%s>=%s", pkg.Name, pkg.MinVersion))
}
