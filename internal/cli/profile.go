package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/platform"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const envPrefix = "as_plugins"

// set of wizard profile environment keys, resolved beneath the
// AS_PLUGINS_ prefix
const (
	keyRepoDir         = "repo_dir"
	keyVenvDir         = "venv_dir"
	keySkipPlugins     = "skip_plugins"
	keyNoKeychain      = "no_keychain"
	keySkipCredentials = "skip_credentials"
	keyPlatforms       = "platforms"
)

// Profile carries the wizard's run settings, resolved flag-first and
// then from AS_PLUGINS_* environment variables
type Profile struct {
	RepoDir         string
	VenvDir         string
	SkipPlugins     bool
	NoKeychain      bool
	SkipCredentials bool
	Platforms       string

	HomeDir string

	fs      afero.Fs
	environ []string
}

// NewProfile creates a new wizard profile
func NewProfile() (*Profile, error) {
	home, homeErr := homedir.Dir()
	if homeErr != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", homeErr)
	}

	return &Profile{
		HomeDir: home,
		fs:      afero.NewOsFs(),
		environ: os.Environ(),
	}, nil
}

// resolve fills any settings left unset by flags from the process
// environment and applies defaults
func (p *Profile) resolve() error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if p.RepoDir == "" {
		p.RepoDir = viper.GetString(keyRepoDir)
	}
	if p.RepoDir == "" {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return fmt.Errorf("failed to get current working directory: %w", wdErr)
		}
		p.RepoDir = wd
	}

	if p.VenvDir == "" {
		p.VenvDir = viper.GetString(keyVenvDir)
	}
	if p.VenvDir == "" {
		p.VenvDir = filepath.Join(p.RepoDir, ".venv")
	}

	if !p.SkipPlugins {
		p.SkipPlugins = viper.GetBool(keySkipPlugins)
	}
	if !p.NoKeychain {
		p.NoKeychain = viper.GetBool(keyNoKeychain)
	}
	if !p.SkipCredentials {
		p.SkipCredentials = viper.GetBool(keySkipCredentials)
	}
	if p.Platforms == "" {
		p.Platforms = viper.GetString(keyPlatforms)
	}
	return nil
}

// Resolver returns the credential source resolver for this run
func (p *Profile) Resolver() envfile.Resolver {
	return envfile.NewResolver(p.fs, p.environ, p.HomeDir, p.RepoDir, platform.EnvPrefixes())
}

// Store returns the env file store used to persist credentials
func (p *Profile) Store() envfile.Store {
	return envfile.NewStore(p.fs)
}

// SelectedPlatforms parses the profile's comma-separated platform
// filter, dropping anything unrecognized
func (p *Profile) SelectedPlatforms() []platform.Platform {
	if p.Platforms == "" {
		return nil
	}

	var selected []platform.Platform
	for _, raw := range strings.Split(p.Platforms, ",") {
		if name, ok := platform.Parse(raw); ok {
			selected = append(selected, name)
		}
	}
	return selected
}
