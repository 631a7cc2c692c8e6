// Copyright 2025 The Serpent Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package semantic

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/component-base/featuregate"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
	"github.com/samedit66/eiffel-compiler/pkg/features"
	"github.com/samedit66/eiffel-compiler/pkg/semantic/walker"
)

// SystemValidator checks a declaration forest as a whole.
type SystemValidator interface {
	// Validate returns the System, or an error. Rule violations are
	// returned as a diag.List holding every problem found.
	Validate([]*ast.ClassDeclaration) (*System, error)
}

// Flattener computes feature tables for the classes of one System.
type Flattener interface {
	// Flatten returns the table of class, a *FlattenError when the class
	// breaks an inheritance rule, or a *BlockedError when a parent does.
	Flatten(ctx context.Context, class string) (*FeatureTable, error)
}

// FlattenerFactory builds the Flattener used for one validated System.
type FlattenerFactory func(*System) Flattener

// Config tunes the analyzer.
type Config struct {
	// Parallelism is the number of classes flattened at once. Values above
	// one enable parallel flattening regardless of the ParallelFlattening
	// gate; zero lets the walker pick runtime.NumCPU().
	Parallelism int
}

// Result is the outcome of one Analyze call.
type Result struct {
	// System is nil when validation failed.
	System *System
	// Tables holds the table of every class that flattened cleanly.
	Tables map[string]*FeatureTable
	// Order lists the classes of Tables parents first.
	Order []string
	// Diagnostics are ordered by stage, then by class order.
	Diagnostics diag.List
	// Skipped lists classes that were not flattened because a parent failed.
	Skipped []string
}

// OK reports whether every class produced a table.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 && len(r.Skipped) == 0 }

// Table returns the table of class, or nil.
func (r *Result) Table(class string) *FeatureTable { return r.Tables[class] }

// Analyzer runs validation and flattening over a class system.
// Each stage can be replaced through options for testing or custom behavior.
type Analyzer struct {
	validator    SystemValidator
	newFlattener FlattenerFactory
	config       Config
	log          logr.Logger
	metrics      *Metrics
	gates        featuregate.FeatureGate
}

// Option mutates Analyzer wiring before defaults are applied.
type Option func(*Analyzer)

// WithValidator overrides the validator stage implementation.
func WithValidator(v SystemValidator) Option { return func(a *Analyzer) { a.validator = v } }

// WithFlattener overrides the flattener stage implementation.
func WithFlattener(f FlattenerFactory) Option { return func(a *Analyzer) { a.newFlattener = f } }

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Option { return func(a *Analyzer) { a.config = cfg } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logr.Logger) Option { return func(a *Analyzer) { a.log = log } }

// WithMetrics records into m instead of a private, unregistered set.
func WithMetrics(m *Metrics) Option { return func(a *Analyzer) { a.metrics = m } }

// WithFeatureGate reads feature gates from gate instead of
// features.FeatureGate.
func WithFeatureGate(gate featuregate.FeatureGate) Option { return func(a *Analyzer) { a.gates = gate } }

// NewAnalyzer constructs an Analyzer.
//
// Configuration flow:
// 1. Apply opts to inject custom stages.
// 2. Fill any nil stage with the package default implementation.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{log: logr.Discard()}
	for _, opt := range opts {
		opt(a)
	}

	if a.metrics == nil {
		a.metrics = NewMetrics()
	}
	if a.gates == nil {
		a.gates = features.FeatureGate
	}
	if a.validator == nil {
		a.validator = newValidator(a.log.WithName("validator"))
	}
	if a.newFlattener == nil {
		useMemo := a.gates.Enabled(features.FlattenMemo)
		log := a.log.WithName("flattener")
		a.newFlattener = func(s *System) Flattener { return NewFlattener(s, useMemo, log, a.metrics) }
	}
	return a
}

// Analyze validates classes and flattens every class of the system.
//
//	Validate -> Flatten
//
// Rule violations end up in Result.Diagnostics; the returned error is only
// set when ctx is done or a stage fails internally.
func (a *Analyzer) Analyze(ctx context.Context, classes []*ast.ClassDeclaration) (*Result, error) {
	res := &Result{Tables: make(map[string]*FeatureTable)}

	system, err := a.validator.Validate(classes)
	if err != nil {
		var list diag.List
		if !errors.As(err, &list) {
			return nil, fmt.Errorf("validate: %w", err)
		}
		a.metrics.CountDiagnostics(list)
		res.Diagnostics = list
		a.log.V(1).Info("validation failed", "diagnostics", len(list))
		return res, nil
	}
	res.System = system

	flattener := a.newFlattener(system)
	outcomes := make(map[string]error, len(system.Order))
	tables := make(map[string]*FeatureTable, len(system.Order))
	if a.parallel() {
		err = a.flattenParallel(ctx, system, flattener, tables, outcomes)
	} else {
		err = a.flattenSequential(ctx, system, flattener, tables, outcomes)
	}
	if err != nil {
		return nil, err
	}

	for _, name := range system.Order {
		if table, ok := tables[name]; ok {
			res.Tables[name] = table
			res.Order = append(res.Order, name)
			continue
		}
		classErr := outcomes[name]
		var fe *FlattenError
		var skipped *walker.SkippedError[string]
		switch {
		case errors.As(classErr, &fe):
			a.metrics.CountDiagnostics(fe.Diagnostics)
			res.Diagnostics = append(res.Diagnostics, fe.Diagnostics...)
		case IsBlocked(classErr), errors.As(classErr, &skipped):
			a.metrics.ObserveFlatten(0, ResultSkipped)
			res.Skipped = append(res.Skipped, name)
		default:
			return nil, fmt.Errorf("flatten %s: %w", name, classErr)
		}
	}

	a.log.V(1).Info("analysis finished", "classes", len(system.Order), "tables", len(res.Tables),
		"diagnostics", len(res.Diagnostics), "skipped", len(res.Skipped))
	return res, nil
}

func (a *Analyzer) parallel() bool {
	return a.config.Parallelism > 1 || a.gates.Enabled(features.ParallelFlattening)
}

func (a *Analyzer) flattenSequential(ctx context.Context, system *System, fl Flattener, tables map[string]*FeatureTable, outcomes map[string]error) error {
	for _, name := range system.Order {
		if err := ctx.Err(); err != nil {
			return err
		}
		table, err := fl.Flatten(ctx, name)
		if err != nil {
			outcomes[name] = err
			continue
		}
		tables[name] = table
	}
	return nil
}

func (a *Analyzer) flattenParallel(ctx context.Context, system *System, fl Flattener, tables map[string]*FeatureTable, outcomes map[string]error) error {
	var mu sync.Mutex
	errs := walker.Walk(ctx, system.Graph, func(ctx context.Context, name string) error {
		table, err := fl.Flatten(ctx, name)
		if err != nil {
			return err
		}
		mu.Lock()
		tables[name] = table
		mu.Unlock()
		return nil
	}, walker.Options{Parallelism: a.config.Parallelism})

	if err := ctx.Err(); err != nil {
		return err
	}
	for name, err := range errs {
		outcomes[name] = err
	}
	return nil
}
