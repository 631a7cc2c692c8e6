package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
)

type InterfaceOptions struct {
	Path  string
	Class string
}

func NewInterfaceCommand(cli *CLI) *cobra.Command {
	var opts InterfaceOptions

	cmd := &cobra.Command{
		Use:   "interface CLASS",
		Short: "Show the flat interface of a class",
		Long: Highlight("serpent interface -f <path> CLASS") + "\n\n" +
			"Print every feature CLASS offers to its clients, inherited ones\n" +
			"included, grouped by the class that declared them.\n\n" +
			"Examples:\n" +
			"  serpent interface -f ./classes CIRCLE\n",
		Args: ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Class = args[0]
			return RunInterface(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to a class file or directory")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func RunInterface(ctx context.Context, cli *CLI, opts InterfaceOptions) error {
	a, err := analyzePath(ctx, cli, opts.Path, nil)
	if err != nil {
		return err
	}

	if table := a.result.Table(opts.Class); table != nil {
		view.NewInterfaceView(cli.Viewer).Render(table)
		return nil
	}

	result := a.checkResult()
	switch {
	case a.result.System == nil:
		// validation failed; every diagnostic may concern the class
	case a.result.System.Class(opts.Class) == nil:
		return fmt.Errorf("unknown class %q", opts.Class)
	default:
		result.Diagnostics = result.Diagnostics.ForClass(opts.Class)
		result.Skipped = slices.DeleteFunc(slices.Clone(result.Skipped), func(s string) bool { return s != opts.Class })
		result.FileErrors = nil
	}
	view.NewCheckView(cli.Viewer).Render(result)
	return errors.New("")
}
