package cli

import (
	"fmt"

	"github.com/grandcamel/as-plugins-cli/internal/envfile"
	"github.com/grandcamel/as-plugins-cli/internal/platform"
	"github.com/grandcamel/as-plugins-cli/internal/secrets"
	"github.com/grandcamel/as-plugins-cli/internal/terminal"
	"github.com/grandcamel/as-plugins-cli/internal/validate"

	"github.com/spf13/pflag"
)

// ValidateCommand checks configured credentials against each live service
var ValidateCommand = CommandDefinition{
	Command:     &validateCommand{check: validate.Check},
	Use:         "validate",
	Aliases:     []string{"check"},
	Description: "Validate configured platform credentials against the live services",
	Help: `Resolves credentials from the shell environment and env files, then
confirms each configured platform's credentials with a live API call.
Exits non-zero if any platform fails validation`,
}

type validateCommand struct {
	platforms string

	secretStore secrets.Store
	check       func(platform.Platform, map[string]string) (bool, string)
}

func (cmd *validateCommand) Flags(fs *pflag.FlagSet) {
	fs.StringVar(&cmd.platforms, flagPlatforms, "", flagPlatformsUsage)
}

func (cmd *validateCommand) Setup(profile *Profile, ui terminal.UI) error {
	if cmd.platforms != "" {
		profile.Platforms = cmd.platforms
	}
	if cmd.secretStore == nil {
		cmd.secretStore = secrets.NewKeychain()
	}
	return nil
}

func (cmd *validateCommand) Handler(profile *Profile, ui terminal.UI) error {
	merged := envfile.Merge(profile.Resolver().Sources())

	targets := profile.SelectedPlatforms()
	explicit := len(targets) > 0
	if !explicit {
		for _, spec := range platform.All() {
			targets = append(targets, spec.Name)
		}
	}

	var failures int
	var checked int
	for _, name := range targets {
		spec, ok := platform.Get(name)
		if !ok {
			continue
		}
		if !spec.Configured(merged) {
			// an explicitly requested platform must be configured to pass
			if explicit {
				failures++
				ui.Print(terminal.NewErrorLog(New(fmt.Sprintf("%s: not configured", spec.Name))))
				continue
			}
			ui.Print(terminal.NewTextLog("%s: not configured", spec.Name))
			continue
		}
		checked++

		creds := map[string]string{}
		for _, field := range spec.Fields {
			value := merged[field.Name]
			if envfile.IsCommandRef(value) {
				if secret, found := cmd.secretStore.Get(secrets.ServiceName(spec.Name), field.Name); found {
					value = secret
				}
			}
			creds[field.Name] = value
		}

		valid, message := cmd.check(spec.Name, creds)
		if !valid {
			failures++
			ui.Print(terminal.NewErrorLog(New(fmt.Sprintf("%s: %s", spec.Name, message))))
			continue
		}
		ui.Print(terminal.NewTextLog("%s: %s", spec.Name, message))
	}

	if checked == 0 && failures == 0 {
		return errNoPlatformsConfigured
	}
	if failures > 0 {
		return New(fmt.Sprintf("%d platform(s) failed validation", failures))
	}
	return nil
}
