package cli

import (
	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/plugins"
	"github.com/grandcamel/as-plugins-cli/internal/terminal"

	"github.com/spf13/pflag"
)

// InstallCommand runs the package, CLI tool and plugin install steps
// without touching credentials
var InstallCommand = CommandDefinition{
	Command:     &installCommand{},
	Use:         "install",
	Description: "Install platform packages and plugins without collecting credentials",
	Help: `Installs each selected platform's support package into the virtual
environment, checks its CLI tooling and installs its plugin from the
as-plugins marketplace. Credentials are left untouched`,
}

type installCommand struct {
	platforms   string
	repoDir     string
	venvDir     string
	skipPlugins bool

	pluginManager  plugins.Manager
	installPackage func(platform.PackageSpec) (bool, string)
}

func (cmd *installCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.platforms, flagPlatforms, "", flagPlatformsUsage)
	fs.StringVar(&cmd.repoDir, flagRepoDir, "", flagRepoDirUsage)
	fs.StringVar(&cmd.venvDir, flagVenvDir, "", flagVenvDirUsage)
	fs.BoolVar(&cmd.skipPlugins, flagSkipPlugins, false, flagSkipPluginsUsage)
}

func (cmd *installCommand) Setup(profile *Profile, ui terminal.UI) error {
	if cmd.platforms != "" {
		profile.Platforms = cmd.platforms
	}
	if cmd.repoDir != "" {
		profile.RepoDir = cmd.repoDir
	}
	if cmd.venvDir != "" {
		profile.VenvDir = cmd.venvDir
	}
	profile.SkipPlugins = profile.SkipPlugins || cmd.skipPlugins

	if cmd.pluginManager == nil {
		cmd.pluginManager = plugins.NewClaudeManager()
	}
	if cmd.installPackage == nil {
		cmd.installPackage = plugins.NewPackageInstaller(profile.VenvDir).Install
	}
	return nil
}

func (cmd *installCommand) Handler(profile *Profile, ui terminal.UI) error {
	targets := profile.SelectedPlatforms()
	if len(targets) == 0 {
		for _, spec := range platform.All() {
			targets = append(targets, spec.Name)
		}
	}

	runInstallSteps(profile, ui, targets, cmd.pluginManager, cmd.installPackage)
	return nil
}
