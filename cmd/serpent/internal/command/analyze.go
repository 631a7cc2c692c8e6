package command

import (
	"context"
	"fmt"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/loader"
	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/semantic"
)

// analysis is one load-and-analyze run shared by the subcommands.
type analysis struct {
	files      int
	fileErrors []view.FileError
	result     *semantic.Result
}

// checkResult converts the run into what the check views render.
func (a *analysis) checkResult() view.CheckResult {
	return view.CheckResult{
		FileCount:   a.files,
		FileErrors:  a.fileErrors,
		Classes:     a.result.Order,
		Diagnostics: a.result.Diagnostics,
		Skipped:     a.result.Skipped,
	}
}

// analyzePath loads every class file under path and analyzes the classes
// that decoded. Files that fail to decode are reported, not fatal.
func analyzePath(ctx context.Context, cli *CLI, path string, metrics *semantic.Metrics) (*analysis, error) {
	log := cli.Logger()

	results, err := loader.LoadDetailed(path)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no YAML files found in %q", path)
	}

	a := &analysis{files: len(results)}
	var classes []*ast.ClassDeclaration
	for _, r := range results {
		if r.Err != nil {
			a.fileErrors = append(a.fileErrors, view.FileError{File: r.Path, Message: r.Err.Error()})
			continue
		}
		log.Debug("loaded class file", "file", r.Path, "classes", len(r.Classes))
		classes = append(classes, r.Classes...)
	}
	classes = ast.ApplyDefaultsAll(classes, cli.Analysis.Defaults())

	analyzer := semantic.NewAnalyzer(
		semantic.WithLogger(log.Logr()),
		semantic.WithConfig(semantic.Config{Parallelism: cli.Analysis.Parallelism}),
		semantic.WithMetrics(metrics),
	)
	a.result, err = analyzer.Analyze(ctx, classes)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return a, nil
}
