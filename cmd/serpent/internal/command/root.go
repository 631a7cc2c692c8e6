package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
	"github.com/samedit66/eiffel-compiler/cmd/serpent/version"
	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/features"
)

// LogEnv selects the log level when --debug is not given.
const LogEnv = "SERPENT_LOG"

var (
	outputFlag   string
	debugFlag    bool
	analysisFlag AnalysisOptions
	rootCmd      *cobra.Command
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "serpent",
		Short: Highlight("serpent [global options] <subcommand> [args]") + "\n" +
			"Semantic checks for Eiffel class hierarchies",
		Long: Highlight("Usage: serpent [global options] <subcommand> [args]") + "\n\n" +
			"serpent validates a system of class declarations and computes the flat\n" +
			"feature table of every class: multiple inheritance with rename, undefine,\n" +
			"redefine and select, deferred/effective reconciliation and creation\n" +
			"procedure checks.\n\n" +
			"Classes are read from YAML files, one or more classes per file.\n",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
	}

	analysisFlag = AnalysisOptions{}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format. One of: (human | json)")
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Set log level to debug")
	cmd.PersistentFlags().IntVarP(&analysisFlag.Parallelism, "parallelism", "j", 1, "Number of classes flattened concurrently")
	cmd.PersistentFlags().StringVar(&analysisFlag.RootClass, "root-class", ast.DefaultRootClass, "Implicit parent of classes without an inherit clause")
	cmd.PersistentFlags().StringVar(&analysisFlag.Creator, "default-creator", ast.DefaultCreator, "Creation procedure of classes without a create clause")
	features.FeatureGate.AddFlag(cmd.PersistentFlags())
	return cmd
}

func setCobraUsageTemplate() {
	cobra.AddTemplateFunc("StyleHeading", color.RGB(50, 108, 229).SprintFunc())
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Additional Commands:`, `{{StyleHeading "Additional Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(usageTemplate)
	rootCmd.SetUsageTemplate(usageTemplate)
}

// Configure returns the hook that rebuilds the viewer of cli once flags are
// parsed.
func Configure(cli *CLI, w io.Writer) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		viewType, err := view.ParseOutputFormat(outputFlag)
		if err != nil {
			return err
		}

		logLevel := view.ParseLogLevel(strings.ToLower(os.Getenv(LogEnv)))
		if debugFlag {
			logLevel = view.LogLevelDebug
		}

		s := view.NewStream(w)
		cli.Viewer = view.NewViewer(viewType, s, logLevel)
		cli.Stream = s
		cli.Analysis = analysisFlag
		return nil
	}
}

func Execute() {
	rootCmd = NewRootCommand()

	setCobraUsageTemplate()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Disable color output if NO_COLOR is set in the environment
	_, noColor := os.LookupEnv("NO_COLOR")
	color.NoColor = noColor

	// The viewer is reconfigured in PersistentPreRunE after flags are parsed.
	cli := NewCLI(view.ViewHuman, os.Stdout, view.LogLevelSilent)

	AddCommands(rootCmd, cli)
	rootCmd.PersistentPreRunE = Configure(cli, os.Stdout)

	err := rootCmd.Execute()
	if werr := cli.Stream.Err(); werr != nil && err == nil {
		err = fmt.Errorf("write output: %w", werr)
	}
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(1)
	}

	os.Exit(0)
}

// AddCommands registers all subcommands to the root command.
func AddCommands(root *cobra.Command, cli *CLI) {
	root.AddCommand(
		NewVersionCommand(cli),
		NewCheckCommand(cli),
		NewInterfaceCommand(cli),
		NewFeaturesCommand(cli),
	)
}
