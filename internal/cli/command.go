package cli

import (
	"github.com/grandcamel/as-plugins-cli/internal/terminal"

	"github.com/spf13/pflag"
)

// Command is an executable CLI command
// This interface maps 1:1 to Cobra's Command.RunE phase
//
// Optionally, a Command may implement any of the other interfaces
// found below. The order of operations is:
//   1. CommandFlagger.Flags: use this hook to register flags to parse
//   2. CommandPreparer.Setup: use this hook to set up the command (e.g. create clients/services)
//   3. Command.Handler: this is the command hook
//   4. CommandResponder.Feedback: use this hook to print feedback to the user after the command has executed
// At any point should an error occur, command execution will terminate
// and the ensuing steps will not be run
type Command interface {
	Handler(profile *Profile, ui terminal.UI) error
}

// CommandFlagger is a hook for commands to register local flags to be parsed
type CommandFlagger interface {
	Flags(fs *pflag.FlagSet)
}

// CommandPreparer handles the command setup phase
type CommandPreparer interface {
	Setup(profile *Profile, ui terminal.UI) error
}

// CommandResponder handles the command feedback phase
type CommandResponder interface {
	Feedback(profile *Profile, ui terminal.UI) error
}

// CommandDefinition is a command's definition that the CommandFactory
// can build a *cobra.Command from
type CommandDefinition struct {
	// Command is the command's implementation
	Command Command

	// SubCommands are the command's sub commands
	SubCommands []CommandDefinition

	// Description is the short command description shown in the 'help' output
	Description string

	// Help is the long message shown in the 'help <this-command>' output
	Help string

	// Use defines how the command is used
	Use string

	// Display controls how the command is described in output
	// If left blank, the command's Use value will be used instead
	Display string

	// Aliases is the list of supported aliases for the command
	Aliases []string
}
