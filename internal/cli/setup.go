package cli

import (
	"strings"

	"github.com/grandcamel/as-plugins-cli/internal/collect"
	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/plugins"
	"github.com/grandcamel/as-plugins-cli/internal/secrets"
	"github.com/grandcamel/as-plugins-cli/internal/terminal"
	"github.com/grandcamel/as-plugins-cli/internal/validate"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/pflag"
)

// set of setup command flags
const (
	flagPlatforms      = "platforms"
	flagPlatformsUsage = "set the platforms to configure as a comma-separated list (e.g. confluence,jira)"

	flagRepoDir      = "repo-dir"
	flagRepoDirUsage = "set the assistant-skills checkout the wizard runs against"

	flagVenvDir      = "venv-dir"
	flagVenvDirUsage = "set the Python virtual environment packages are installed into"

	flagSkipPlugins      = "skip-plugins"
	flagSkipPluginsUsage = "skip installing plugins through the claude CLI"

	flagNoKeychain      = "no-keychain"
	flagNoKeychainUsage = "keep secrets in the env file instead of the OS keychain"

	flagSkipCredentials      = "skip-credentials"
	flagSkipCredentialsUsage = "skip credential collection and only run the install steps"
)

// SetupCommand is the interactive credential setup wizard
var SetupCommand = CommandDefinition{
	Command:     &setupCommand{check: validate.Check},
	Use:         "setup",
	Aliases:     []string{"init"},
	Description: "Configure platform credentials and install the matching plugins",
	Help: `Walks through credential collection for each selected platform,
validates the credentials against the live service, persists them to
~/.env (secrets go to the OS keychain when one is available) and
installs the platform's packages and plugins`,
}

type setupCommand struct {
	platforms       string
	repoDir         string
	venvDir         string
	skipPlugins     bool
	noKeychain      bool
	skipCredentials bool

	secretStore    secrets.Store
	pluginManager  plugins.Manager
	installPackage func(platform.PackageSpec) (bool, string)
	check          func(platform.Platform, map[string]string) (bool, string)
}

func (cmd *setupCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.platforms, flagPlatforms, "", flagPlatformsUsage)
	fs.StringVar(&cmd.repoDir, flagRepoDir, "", flagRepoDirUsage)
	fs.StringVar(&cmd.venvDir, flagVenvDir, "", flagVenvDirUsage)
	fs.BoolVar(&cmd.skipPlugins, flagSkipPlugins, false, flagSkipPluginsUsage)
	fs.BoolVar(&cmd.noKeychain, flagNoKeychain, false, flagNoKeychainUsage)
	fs.BoolVar(&cmd.skipCredentials, flagSkipCredentials, false, flagSkipCredentialsUsage)
}

func (cmd *setupCommand) Setup(profile *Profile, ui terminal.UI) error {
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
	profile.NoKeychain = profile.NoKeychain || cmd.noKeychain
	profile.SkipCredentials = profile.SkipCredentials || cmd.skipCredentials

	if cmd.secretStore == nil {
		cmd.secretStore = secrets.NewKeychain()
	}
	if cmd.pluginManager == nil {
		cmd.pluginManager = plugins.NewClaudeManager()
	}
	if cmd.installPackage == nil {
		cmd.installPackage = plugins.NewPackageInstaller(profile.VenvDir).Install
	}
	return nil
}

func (cmd *setupCommand) Handler(profile *Profile, ui terminal.UI) error {
	resolver := profile.Resolver()
	sources := resolver.Sources()
	merged := envfile.Merge(sources)

	ui.Print(terminal.NewTextLog("Assistant Skills setup"))

	if configured := platform.ConfiguredPlatforms(merged); len(configured) > 0 {
		var names []string
		for _, spec := range platform.All() {
			if _, ok := configured[spec.Name]; ok {
				names = append(names, string(spec.Name))
			}
		}
		ui.Print(terminal.NewTextLog("Already configured: %s", strings.Join(names, ", ")))
	}

	if profile.SkipCredentials {
		targets := profile.SelectedPlatforms()
		if len(targets) == 0 {
			for _, spec := range platform.All() {
				if spec.Configured(merged) {
					targets = append(targets, spec.Name)
				}
			}
		}

		runInstallSteps(profile, ui, targets, cmd.pluginManager, cmd.installPackage)

		if len(platform.ConfiguredPlatforms(merged)) == 0 {
			return errNoPlatformsConfigured
		}
		return nil
	}

	targets, targetsErr := cmd.selectPlatforms(profile, ui)
	if targetsErr != nil {
		return targetsErr
	}

	if !ui.Interactive() {
		return New("setup must be run from an interactive terminal (use --skip-credentials to only run install steps)")
	}

	session := map[string]string{}
	for key, value := range merged {
		session[key] = value
	}

	var completed []platform.Spec
	for _, name := range targets {
		spec, ok := platform.Get(name)
		if !ok {
			continue
		}

		values, configured, err := cmd.configurePlatform(profile, ui, spec, sources, session)
		if err != nil {
			return err
		}
		if !configured {
			continue
		}

		for key, value := range values {
			session[key] = value
		}

		toSave := cmd.protectSecrets(profile, ui, spec, values)
		backupPath, saveErr := profile.Store().Save(resolver.EnvFilePath(), toSave)
		if saveErr != nil {
			return saveErr
		}
		if backupPath != "" {
			ui.Print(terminal.NewDebugLog("Backed up existing env file to %s", backupPath))
		}
		ui.Print(terminal.NewTextLog("Saved %s credentials to %s", spec.Name, resolver.EnvFilePath()))

		completed = append(completed, spec)
	}

	if len(completed) > 0 {
		// only platforms that ended up with saved credentials get their
		// support tooling installed
		var configured []platform.Platform
		for _, spec := range completed {
			configured = append(configured, spec.Name)
		}
		runInstallSteps(profile, ui, configured, cmd.pluginManager, cmd.installPackage)
	}

	finalEnv := envfile.Merge(profile.Resolver().Sources())
	if len(platform.ConfiguredPlatforms(finalEnv)) == 0 {
		return errNoPlatformsConfigured
	}

	cmd.printSummary(ui, completed, session)
	return nil
}

var errNoPlatformsConfigured = New("no platforms configured")

// preset choices offered when no --platforms filter was given
const (
	choiceConfluence     = "Confluence"
	choiceJira           = "JIRA"
	choiceConfluenceJira = "Confluence + JIRA"
	choiceSplunk         = "Splunk"
	choiceGitlab         = "GitLab"
	choiceAll            = "All platforms"
)

func (cmd *setupCommand) selectPlatforms(profile *Profile, ui terminal.UI) ([]platform.Platform, error) {
	if selected := profile.SelectedPlatforms(); len(selected) > 0 {
		return selected, nil
	}
	if profile.Platforms != "" {
		return nil, New("no recognized platforms in --platforms, expected from: confluence, jira, splunk, gitlab")
	}
	if !ui.Interactive() {
		return nil, New("no platforms selected, pass --platforms when running non-interactively")
	}

	var choice string
	if err := ui.AskOne(&choice, &survey.Select{
		Message: "Which platforms would you like to set up?",
		Options: []string{
			choiceConfluence,
			choiceJira,
			choiceConfluenceJira,
			choiceSplunk,
			choiceGitlab,
			choiceAll,
		},
	}); err != nil {
		return nil, err
	}

	switch choice {
	case choiceConfluence:
		return []platform.Platform{platform.Confluence}, nil
	case choiceJira:
		return []platform.Platform{platform.Jira}, nil
	case choiceConfluenceJira:
		return []platform.Platform{platform.Confluence, platform.Jira}, nil
	case choiceSplunk:
		return []platform.Platform{platform.Splunk}, nil
	case choiceGitlab:
		return []platform.Platform{platform.Gitlab}, nil
	}
	return []platform.Platform{platform.Confluence, platform.Jira, platform.Splunk, platform.Gitlab}, nil
}

// configurePlatform walks one platform through collection and
// validation, returning the values to persist; configured is false
// when the user kept an existing configuration or abandoned the
// platform after a failed validation
func (cmd *setupCommand) configurePlatform(profile *Profile, ui terminal.UI, spec platform.Spec, sources []envfile.Source, session map[string]string) (map[string]string, bool, error) {
	ui.Print(terminal.NewTextLog(""))
	ui.Print(terminal.NewTextLog(spec.Title))

	if spec.Configured(session) {
		reconfigure, err := ui.Confirm("%s is already configured. Reconfigure?", spec.Title)
		if err != nil {
			return nil, false, err
		}
		if !reconfigure {
			return nil, false, nil
		}
		// force prompting for every field below
		sources = nil
	}

	if spec.Name == platform.Jira {
		if values, ok, err := cmd.reuseConfluenceCredentials(ui, session); err != nil {
			return nil, false, err
		} else if ok {
			return values, true, nil
		}
	}

	collector := collect.New(ui, sources)
	for {
		values, collectErr := collector.Collect(spec, session)
		if collectErr != nil {
			return nil, false, collectErr
		}

		ok, message := cmd.check(spec.Name, cmd.resolveSecretRefs(spec.Name, values))
		if ok {
			ui.Print(terminal.NewTextLog("%s", message))
			return values, true, nil
		}
		ui.Print(terminal.NewErrorLog(New(message)))

		retry, confirmErr := ui.Confirm("Try %s again?", spec.Title)
		if confirmErr != nil {
			return nil, false, confirmErr
		}
		if !retry {
			saveAnyway, saveErr := ui.Confirm("Save these credentials anyway?")
			if saveErr != nil {
				return nil, false, saveErr
			}
			if saveAnyway {
				return values, true, nil
			}
			return nil, false, nil
		}

		// re-prompt for everything on the next pass
		collector = collect.New(ui, nil)
	}
}

// reuseConfluenceCredentials offers the Confluence credentials already
// on hand for JIRA, since Atlassian Cloud shares the site and token
// across both products
func (cmd *setupCommand) reuseConfluenceCredentials(ui terminal.UI, session map[string]string) (map[string]string, bool, error) {
	siteURL := session[platform.FieldConfluenceSiteURL]
	email := session[platform.FieldConfluenceEmail]
	token := session[platform.FieldConfluenceAPIToken]
	if siteURL == "" || email == "" || token == "" {
		return nil, false, nil
	}

	reuse, err := ui.Confirm("Use the same credentials as Confluence?")
	if err != nil {
		return nil, false, err
	}
	if !reuse {
		return nil, false, nil
	}

	values := map[string]string{
		platform.FieldJiraSiteURL:  siteURL,
		platform.FieldJiraEmail:    email,
		platform.FieldJiraAPIToken: token,
	}

	ok, message := cmd.check(platform.Jira, cmd.resolveSecretRefs(platform.Jira, values))
	if !ok {
		ui.Print(terminal.NewWarningLog("Confluence credentials were rejected by JIRA: %s", message))
		return nil, false, nil
	}
	ui.Print(terminal.NewTextLog("%s", message))
	return values, true, nil
}

// resolveSecretRefs swaps keychain command references for the secrets
// they point at so validators always see plaintext; the reference
// itself is never executed
func (cmd *setupCommand) resolveSecretRefs(p platform.Platform, creds map[string]string) map[string]string {
	resolved := map[string]string{}
	for key, value := range creds {
		if envfile.IsCommandRef(value) {
			if secret, ok := cmd.secretStore.Get(secrets.ServiceName(p), key); ok {
				value = secret
			}
		}
		resolved[key] = value
	}
	return resolved
}

// protectSecrets moves secret field values into the OS keychain and
// substitutes command references for persistence; values that fail to
// store stay plaintext so the credentials still work
func (cmd *setupCommand) protectSecrets(profile *Profile, ui terminal.UI, spec platform.Spec, values map[string]string) map[string]string {
	if profile.NoKeychain || !cmd.secretStore.IsAvailable() {
		return values
	}

	protected := map[string]string{}
	for key, value := range values {
		protected[key] = value
	}

	service := secrets.ServiceName(spec.Name)
	for _, field := range spec.Fields {
		if !field.Secret {
			continue
		}
		value := protected[field.Name]
		if value == "" || envfile.IsCommandRef(value) {
			continue
		}

		if !cmd.secretStore.Put(service, field.Name, value) {
			ui.Print(terminal.NewWarningLog("Could not store %s in the keychain, keeping it in the env file", field.Name))
			continue
		}
		protected[field.Name] = cmd.secretStore.CommandRef(service, field.Name)
	}
	return protected
}

var sampleCommands = map[platform.Platform]string{
	platform.Confluence: `claude "Search Confluence for our onboarding docs"`,
	platform.Jira:       `claude "List my open JIRA issues"`,
	platform.Splunk:     `claude "Search Splunk for errors in the last hour"`,
	platform.Gitlab:     `glab mr list`,
}

func (cmd *setupCommand) printSummary(ui terminal.UI, completed []platform.Spec, env map[string]string) {
	ui.Print(terminal.NewTextLog(""))
	ui.Print(terminal.NewTextLog("Setup complete"))

	for _, spec := range completed {
		if url := spec.DisplayURL(env); url != "" {
			ui.Print(terminal.NewTextLog("  %s (%s)", spec.Name, url))
		} else {
			ui.Print(terminal.NewTextLog("  %s", spec.Name))
		}
		if sample, ok := sampleCommands[spec.Name]; ok {
			ui.Print(terminal.NewTextLog("    try: %s", sample))
		}
	}
}

// runInstallSteps installs each target platform's support package,
// checks its CLI tooling and installs its plugin through the claude
// CLI; failures warn but never abort the run
func runInstallSteps(profile *Profile, ui terminal.UI, targets []platform.Platform, manager plugins.Manager, installPackage func(platform.PackageSpec) (bool, string)) {
	var specs []platform.Spec
	for _, name := range targets {
		if spec, ok := platform.Get(name); ok {
			specs = append(specs, spec)
		}
	}

	for _, spec := range specs {
		switch spec.Install {
		case platform.InstallKindPackage:
			ui.Print(terminal.NewTextLog("Installing %s>=%s", spec.Package.Name, spec.Package.MinVersion))
			if ok, out := installPackage(spec.Package); !ok {
				ui.Print(terminal.NewWarningLog("Failed to install %s: %s", spec.Package.Name, out))
			}
		case platform.InstallKindCLI:
			if plugins.CLIToolPresent(spec.CLITool) {
				ui.Print(terminal.NewTextLog("%s CLI found", spec.CLITool))
				continue
			}
			ui.Print(terminal.NewWarningLog("%s CLI not found. Install it with: %s", spec.CLITool, plugins.InstallHint(spec.CLITool)))
		}
	}

	if profile.SkipPlugins {
		return
	}

	if !manager.CLIAvailable() {
		ui.Print(terminal.NewWarningLog("claude CLI not found, skipping plugin installs"))
		return
	}

	if !manager.MarketplaceAdded() && !manager.AddMarketplace() {
		ui.Print(terminal.NewWarningLog("Could not add the %s marketplace, skipping plugin installs", plugins.MarketplaceName))
		return
	}

	installed := map[string]bool{}
	for _, name := range manager.Installed() {
		installed[name] = true
	}

	for _, spec := range specs {
		if spec.Plugin == "" {
			continue
		}
		if installed[spec.Plugin] {
			ui.Print(terminal.NewTextLog("Plugin %s already installed", spec.Plugin))
			continue
		}
		if ok, out := manager.Install(spec.Plugin); !ok {
			ui.Print(terminal.NewWarningLog("Failed to install plugin %s: %s", spec.Plugin, out))
			continue
		}
		ui.Print(terminal.NewTextLog("Installed plugin %s", spec.Plugin))
	}
}
