package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/grandcamel/as-plugins-cli/internal/terminal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandFactory is a command factory
type CommandFactory struct {
	profile   *Profile
	ui        terminal.UI
	uiConfig  terminal.UIConfig
	inReader  *os.File
	outWriter *os.File
	errWriter *os.File
	errLogger *log.Logger
}

// NewCommandFactory creates a new command factory
func NewCommandFactory() (*CommandFactory, error) {
	profile, profileErr := NewProfile()
	if profileErr != nil {
		return nil, profileErr
	}

	return &CommandFactory{
		profile:   profile,
		errLogger: log.New(os.Stderr, "UTC ERROR ", log.Ltime|log.Lmsgprefix),
	}, nil
}

// Build builds a Cobra command from the specified CommandDefinition
func (factory *CommandFactory) Build(command CommandDefinition) *cobra.Command {
	display := command.Display
	if display == "" {
		display = command.Use
	}

	cmd := cobra.Command{
		Use:           command.Use,
		Short:         command.Description,
		Long:          command.Help,
		Aliases:       command.Aliases,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	for _, subCommand := range command.SubCommands {
		cmd.AddCommand(factory.Build(subCommand))
	}

	if command.Command != nil {
		if command, ok := command.Command.(CommandFlagger); ok {
			fs := cmd.Flags()
			fs.SortFlags = false // ensures command flags are added unsorted
			command.Flags(fs)
		}

		cmd.PersistentPreRun = func(c *cobra.Command, a []string) {
			factory.ensureUI()
			c.SetIn(factory.inReader)
			c.SetOut(factory.outWriter)
			c.SetErr(factory.errWriter)

			if err := factory.profile.resolve(); err != nil {
				factory.ui.Print(terminal.NewErrorLog(err))
				os.Exit(1)
			}
		}

		cmd.RunE = func(c *cobra.Command, a []string) error {
			if command, ok := command.Command.(CommandPreparer); ok {
				if err := command.Setup(factory.profile, factory.ui); err != nil {
					return fmt.Errorf("%s setup failed: %w", display, err)
				}
			}

			if err := command.Command.Handler(factory.profile, factory.ui); err != nil {
				return fmt.Errorf("%s failed: %w", display, err)
			}

			if command, ok := command.Command.(CommandResponder); ok {
				return command.Feedback(factory.profile, factory.ui)
			}
			return nil
		}
	}

	return &cmd
}

// Run executes the command and returns the process exit code
func (factory *CommandFactory) Run(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		if factory.ui == nil {
			factory.errLogger.Print(err)
			return 1
		}

		factory.ui.Print(terminal.NewErrorLog(err))
		return 1
	}
	return 0
}

// SetGlobalFlags sets the global flags
func (factory *CommandFactory) SetGlobalFlags(fs *pflag.FlagSet) {
	fs.SortFlags = false // ensures global flags are added unsorted

	fs.BoolVarP(&factory.uiConfig.AutoConfirm, terminal.FlagAutoConfirm, terminal.FlagAutoConfirmShort, false, terminal.FlagAutoConfirmUsage)
	fs.BoolVar(&factory.uiConfig.DisableColors, terminal.FlagDisableColors, false, terminal.FlagDisableColorsUsage)
	fs.VarP(&factory.uiConfig.OutputFormat, terminal.FlagOutputFormat, terminal.FlagOutputFormatShort, terminal.FlagOutputFormatUsage)
	fs.StringVarP(&factory.uiConfig.OutputTarget, terminal.FlagOutputTarget, terminal.FlagOutputTargetShort, "", terminal.FlagOutputTargetUsage)
}

// Setup initializes the command factory
func (factory *CommandFactory) Setup() {
	if filepath := factory.uiConfig.OutputTarget; filepath != "" {
		f, err := os.OpenFile(filepath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0660)
		if err != nil {
			factory.errLogger.Fatal(fmt.Errorf("failed to open target file: %w", err))
		}
		factory.outWriter = f
	}
}

// Close closes the command factory
func (factory *CommandFactory) Close() {
	if factory.uiConfig.OutputTarget != "" {
		factory.outWriter.Close()
	}
}

func (factory *CommandFactory) ensureUI() {
	if factory.inReader == nil {
		factory.inReader = os.Stdin
	}

	if factory.outWriter == nil {
		factory.outWriter = os.Stdout
	}

	if factory.errWriter == nil {
		if factory.uiConfig.OutputTarget != "" {
			factory.errWriter = factory.outWriter
		} else {
			factory.errWriter = os.Stderr
		}
	}

	if factory.ui == nil {
		factory.ui = terminal.NewUI(factory.uiConfig, factory.inReader, factory.outWriter, factory.errWriter)
	}
}
