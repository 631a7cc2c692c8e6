package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
	"github.com/samedit66/eiffel-compiler/pkg/semantic"
)

type CheckOptions struct {
	Path    string
	Metrics bool
}

func NewCheckCommand(cli *CLI) *cobra.Command {
	var opts CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a system of classes",
		Long: Highlight("serpent check -f <path>") + "\n\n" +
			"Validate the class graph and flatten every class.\n\n" +
			"Reports duplicate and unknown classes, inheritance cycles, invalid\n" +
			"adaptation clauses, name clashes, incomplete classes and invalid\n" +
			"creation procedures. When targeting a directory, all .yaml and .yml\n" +
			"files are loaded as one system.\n\n" +
			"Examples:\n" +
			"  # Check a single file\n" +
			"  serpent check -f shapes.yaml\n\n" +
			"  # Check a directory and print analysis metrics\n" +
			"  serpent check -f ./classes --metrics\n",
		Args: ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunCheck(cmd.Context(), cli, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "file", "f", "", "Path to a class file or directory")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Print analysis metrics in the Prometheus text format")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func RunCheck(ctx context.Context, cli *CLI, opts CheckOptions) error {
	registry := prometheus.NewRegistry()
	metrics := semantic.NewMetrics()
	metrics.MustRegister(registry)

	a, err := analyzePath(ctx, cli, opts.Path, metrics)
	if err != nil {
		return err
	}

	result := a.checkResult()
	view.NewCheckView(cli.Viewer).Render(result)

	if opts.Metrics {
		if err := writeMetrics(cli, registry); err != nil {
			return err
		}
	}

	if result.HasErrors() {
		return errors.New("")
	}
	return nil
}

func writeMetrics(cli *CLI, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(cli.Writer, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
