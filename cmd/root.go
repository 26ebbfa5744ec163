package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/grandcamel/as-plugins-cli/internal/cli"

	"github.com/spf13/cobra"
)

// Run runs the CLI
func Run() {
	// print commands in help/usage text in the order they are declared
	cobra.EnableCommandSorting = false

	cmd := &cobra.Command{
		Version:       cli.Version,
		Use:           cli.Name,
		Short:         "CLI tool to set up Assistant Skills platform credentials and plugins",
		Long:          fmt.Sprintf(`Use "%s [command] --help" for information on a specific command`, cli.Name),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	factory, err := cli.NewCommandFactory()
	if err != nil {
		log.Fatal(err)
	}

	cobra.OnInitialize(factory.Setup)

	cmd.Flags().SortFlags = false // ensures CLI help text displays global flags unsorted
	factory.SetGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(factory.Build(cli.SetupCommand))
	cmd.AddCommand(factory.Build(cli.ValidateCommand))
	cmd.AddCommand(factory.Build(cli.InstallCommand))
	cmd.AddCommand(factory.Build(cli.VersionCommand))

	exitCode := factory.Run(cmd)
	factory.Close()
	os.Exit(exitCode)
}
