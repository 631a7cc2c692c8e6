package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
	"github.com/samedit66/eiffel-compiler/pkg/query"
	"github.com/samedit66/eiffel-compiler/pkg/semantic"
)

type FeaturesOptions struct {
	Path    string
	Classes []string
	Where   string
}

func NewFeaturesCommand(cli *CLI) *cobra.Command {
	var opts FeaturesOptions

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List and filter flattened features",
		Long: Highlight("serpent features -f <path> [--class NAME] [--where EXPR]") + "\n\n" +
			"List the features of every class that flattened cleanly, optionally\n" +
			"restricted to some classes and filtered with a CEL expression over\n" +
			"name, origin, class, kind, category, deferred, creator, returnType,\n" +
			"params and clients.\n\n" +
			"Examples:\n" +
			"  # Deferred features inherited by CIRCLE\n" +
			"  serpent features -f ./classes --class CIRCLE --where 'deferred && category == \"inherited\"'\n\n" +
			"  # Boolean queries everywhere\n" +
			"  serpent features -f ./classes --where 'returnType == \"BOOLEAN\" && name.startsWith(\"is_\")'\n",
		Args: ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunFeatures(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to a class file or directory")
	cmd.Flags().StringSliceVarP(&opts.Classes, "class", "c", nil, "Only list features of these classes")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "CEL predicate a feature must satisfy")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func RunFeatures(ctx context.Context, cli *CLI, opts FeaturesOptions) error {
	// Compile first so a bad expression fails before any analysis.
	filter, err := query.Compile(opts.Where)
	if err != nil {
		return err
	}

	a, err := analyzePath(ctx, cli, opts.Path, nil)
	if err != nil {
		return err
	}
	if a.result.System == nil {
		view.NewCheckView(cli.Viewer).Render(a.checkResult())
		return errors.New("")
	}

	names := opts.Classes
	if len(names) == 0 {
		names = a.result.Order
	}
	tables := make([]*semantic.FeatureTable, 0, len(names))
	for _, name := range names {
		table := a.result.Table(name)
		if table == nil {
			if a.result.System.Class(name) == nil {
				return fmt.Errorf("unknown class %q", name)
			}
			return fmt.Errorf("class %q has errors, run serpent check", name)
		}
		tables = append(tables, table)
	}

	rows, err := query.Select(filter, tables...)
	if err != nil {
		return err
	}
	cli.Logger().Debug("features selected", "classes", len(tables), "rows", len(rows), "where", opts.Where)
	view.NewFeaturesView(cli.Viewer).Render(rows)
	return nil
}
