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
	"fmt"
	"slices"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

// flattening holds the state of one FlattenClass call.
type flattening struct {
	class    *ast.ClassDeclaration
	ownIndex map[string]FeatureRecord
	table    *FeatureTable
	diags    diag.List

	renamed, redefined, precursors, selected []FeatureRecord

	inheritedRenamed, inheritedRedefined, inheritedPrecursors, inheritedSelected []FeatureRecord
}

func (f *flattening) errorf(code diag.Code, loc *ast.Location, format string, a ...any) *diag.Diagnostic {
	d := diag.Errorf(StageFlattener, code, f.class.Name, loc, format, a...)
	f.diags.Add(d)
	return d
}

func (f *flattening) clauseLocation(p *ast.ParentClause) *ast.Location {
	return clauseLocation(f.class, p)
}

// FlattenClass computes the feature table of class from the tables of its
// parents; parents[i] must be the table of class.Parents[i]. It reports
// every problem of the class and returns a nil table if there is any.
func FlattenClass(class *ast.ClassDeclaration, parents []*FeatureTable) (*FeatureTable, diag.List) {
	if len(parents) != len(class.Parents) {
		panic(fmt.Sprintf("semantic: class %s has %d parents, got %d tables", class.Name, len(class.Parents), len(parents)))
	}

	f := &flattening{
		class:    class,
		ownIndex: make(map[string]FeatureRecord, len(class.Features)),
		table:    &FeatureTable{Class: class},
	}

	own := f.ownFeatures()
	adapted := make([][]candidate, len(class.Parents))
	for i := range class.Parents {
		adapted[i] = f.adaptParent(&class.Parents[i], parents[i])
	}
	adapted = f.selectAcross(adapted)

	f.merge(slices.Concat(append([][]candidate{own}, adapted...)...))
	f.checkComplete()
	f.checkCreators()
	f.finish()

	if len(f.diags) > 0 {
		return nil, f.diags
	}
	return f.table, nil
}

func (f *flattening) ownFeatures() []candidate {
	own := make([]candidate, 0, len(f.class.Features))
	for _, feature := range f.class.Features {
		name := feature.FeatureName()
		if first, dup := f.ownIndex[name]; dup {
			f.errorf(diag.CodeDuplicateFeature, feature.Loc(), "class %s declares feature %s more than once", f.class.Name, name).
				WithRelated(first.Location())
			continue
		}
		rec := FeatureRecord{From: f.class.Name, Name: name, Node: feature}
		f.ownIndex[name] = rec
		own = append(own, candidate{FeatureRecord: rec, origin: originOwn})
	}
	return own
}

// finish stores the bookkeeping lists, records of this class first.
func (f *flattening) finish() {
	uniq := func(local, inherited []FeatureRecord) []FeatureRecord {
		return lo.UniqBy(slices.Concat(local, inherited), FeatureRecord.Key)
	}
	f.table.Renamed = uniq(f.renamed, f.inheritedRenamed)
	f.table.Redefined = uniq(f.redefined, f.inheritedRedefined)
	f.table.Precursors = uniq(f.precursors, f.inheritedPrecursors)
	f.table.Selected = uniq(f.selected, f.inheritedSelected)
}

type outcome struct {
	table *FeatureTable
	err   error
}

// InheritanceFlattener flattens the classes of one System, parents on
// demand. It is safe for concurrent use.
type InheritanceFlattener struct {
	system  *System
	memo    *memo[outcome]
	log     logr.Logger
	metrics *Metrics
}

// NewFlattener returns a flattener for system. With useMemo every class is
// flattened at most once; without it ancestors are flattened again for
// every path that reaches them.
func NewFlattener(system *System, useMemo bool, log logr.Logger, metrics *Metrics) *InheritanceFlattener {
	f := &InheritanceFlattener{system: system, log: log, metrics: metrics}
	if useMemo {
		f.memo = newMemo[outcome]()
	}
	if f.metrics == nil {
		f.metrics = NewMetrics()
	}
	return f
}

// Flatten returns the feature table of class. The error is a *FlattenError
// when the class itself is invalid and a *BlockedError when one of its
// parents is.
func (fl *InheritanceFlattener) Flatten(ctx context.Context, class string) (*FeatureTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := fl.outcome(class)
	return o.table, o.err
}

func (fl *InheritanceFlattener) outcome(class string) outcome {
	if fl.memo == nil {
		return fl.compute(class)
	}
	o, hit := fl.memo.get(class, func() outcome { return fl.compute(class) })
	fl.metrics.ObserveCache(hit)
	return o
}

func (fl *InheritanceFlattener) compute(name string) outcome {
	class := fl.system.Class(name)
	if class == nil {
		return outcome{err: fmt.Errorf("class %s is not part of the system", name)}
	}

	parents := make([]*FeatureTable, 0, len(class.Parents))
	for _, p := range class.Parents {
		po := fl.outcome(p.Name)
		if po.err != nil {
			fl.log.V(1).Info("class skipped", "class", name, "parent", p.Name)
			return outcome{err: &BlockedError{Class: name, Parent: p.Name}}
		}
		parents = append(parents, po.table)
	}

	start := time.Now()
	table, diags := FlattenClass(class, parents)
	elapsed := time.Since(start).Seconds()

	if len(diags) > 0 {
		fl.metrics.ObserveFlatten(elapsed, ResultError)
		fl.log.V(1).Info("class rejected", "class", name, "diagnostics", len(diags))
		return outcome{err: &FlattenError{Class: name, Diagnostics: diags}}
	}
	fl.metrics.ObserveFlatten(elapsed, ResultSuccess)
	fl.log.V(2).Info("class flattened", "class", name,
		"own", len(table.Own), "inherited", len(table.Inherited), "undefined", len(table.Undefined))
	return outcome{table: table}
}
