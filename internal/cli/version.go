package cli

import (
	"github.com/grandcamel/as-plugins-cli/internal/terminal"
)

// cli details
const (
	Name    = "as-plugins-cli"
	Version = "0.1.0"
)

// VersionCommand prints the cli name and version
var VersionCommand = CommandDefinition{
	Command:     &versionCommand{},
	Use:         "version",
	Description: "Show the cli version",
}

type versionCommand struct{}

func (cmd *versionCommand) Handler(profile *Profile, ui terminal.UI) error {
	ui.Print(terminal.NewTextLog("%s version %s", Name, Version))
	return nil
}
