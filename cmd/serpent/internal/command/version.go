package command

import (
	"github.com/spf13/cobra"
)

func NewVersionCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: Highlight("serpent version") + "\n\n" +
			"Display the current version of serpent.\n\n" +
			"This information is useful for bug reports and for checking\n" +
			"that scripts run against the expected build.\n",
		Args: ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cli.PrintVersion()
		},
	}
}
