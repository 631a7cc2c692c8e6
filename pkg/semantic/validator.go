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
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
	"github.com/samedit66/eiffel-compiler/pkg/semantic/dag"
)

// System is a validated class forest: every parent resolves, no class or
// parent is duplicated and inheritance is acyclic.
type System struct {
	// Classes indexes declarations by name.
	Classes map[string]*ast.ClassDeclaration
	// Graph has one vertex per class depending on its parents.
	Graph *dag.DirectedAcyclicGraph[string]
	// Order lists classes parents first, declaration order within a level.
	Order []string
}

// Class returns the declaration called name, or nil.
func (s *System) Class(name string) *ast.ClassDeclaration { return s.Classes[name] }

type validator struct {
	log logr.Logger
}

func newValidator(log logr.Logger) SystemValidator { return &validator{log: log} }

// Validate runs every whole-program check and returns the System, or a
// diag.List with every problem found.
func (v *validator) Validate(classes []*ast.ClassDeclaration) (*System, error) {
	var diags diag.List

	index, unique := v.checkDuplicateClasses(classes, &diags)
	v.checkUnknownParents(unique, index, &diags)
	v.checkDuplicateParents(unique, &diags)
	graph := v.buildGraph(unique, index, &diags)

	if len(diags) > 0 {
		v.log.V(1).Info("class system rejected", "classes", len(classes), "diagnostics", len(diags))
		return nil, diags
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("order classes: %w", err)
	}
	v.log.V(1).Info("class system validated", "classes", len(unique))
	return &System{Classes: index, Graph: graph, Order: order}, nil
}

// checkDuplicateClasses keeps the first declaration of every name.
func (v *validator) checkDuplicateClasses(classes []*ast.ClassDeclaration, diags *diag.List) (map[string]*ast.ClassDeclaration, []*ast.ClassDeclaration) {
	index := make(map[string]*ast.ClassDeclaration, len(classes))
	unique := make([]*ast.ClassDeclaration, 0, len(classes))
	for _, c := range classes {
		if first, dup := index[c.Name]; dup {
			diags.Add(diag.Errorf(StageValidator, diag.CodeDuplicateClass, c.Name, c.Location,
				"class %s is declared more than once", c.Name).WithRelated(first.Location))
			continue
		}
		index[c.Name] = c
		unique = append(unique, c)
	}
	return index, unique
}

func (v *validator) checkUnknownParents(classes []*ast.ClassDeclaration, index map[string]*ast.ClassDeclaration, diags *diag.List) {
	for _, c := range classes {
		for _, p := range c.Parents {
			if _, ok := index[p.Name]; !ok {
				diags.Add(diag.Errorf(StageValidator, diag.CodeUnknownParent, c.Name, clauseLocation(c, &p),
					"class %s inherits from unknown class %s", c.Name, p.Name))
			}
		}
	}
}

func (v *validator) checkDuplicateParents(classes []*ast.ClassDeclaration, diags *diag.List) {
	for _, c := range classes {
		seen := sets.New[string]()
		for _, p := range c.Parents {
			if seen.Has(p.Name) {
				diags.Add(diag.Errorf(StageValidator, diag.CodeDuplicateParent, c.Name, clauseLocation(c, &p),
					"class %s lists parent %s more than once", c.Name, p.Name))
				continue
			}
			seen.Insert(p.Name)
		}
	}
}

// buildGraph adds the resolvable parent edges one by one. An edge that would
// close a cycle is reported and left out, so every cycle is reported once
// and the resulting graph is always acyclic.
func (v *validator) buildGraph(classes []*ast.ClassDeclaration, index map[string]*ast.ClassDeclaration, diags *diag.List) *dag.DirectedAcyclicGraph[string] {
	graph := dag.NewDirectedAcyclicGraph[string]()
	for i, c := range classes {
		_ = graph.AddVertex(c.Name, i)
	}

	for _, c := range classes {
		parents := lo.Uniq(lo.Filter(c.ParentNames(), func(name string, _ int) bool {
			_, ok := index[name]
			return ok
		}))
		for _, parent := range parents {
			if parent == c.Name {
				diags.Add(v.cycleDiagnostic(c, []string{c.Name, c.Name}, index))
				continue
			}
			err := graph.AddDependencies(c.Name, []string{parent})
			if ce := dag.AsCycleError[string](err); ce != nil {
				diags.Add(v.cycleDiagnostic(c, rotateCycle(graph, ce.Cycle), index))
			}
		}
	}
	return graph
}

func (v *validator) cycleDiagnostic(c *ast.ClassDeclaration, cycle []string, index map[string]*ast.ClassDeclaration) *diag.Diagnostic {
	d := diag.Errorf(StageValidator, diag.CodeCircularInheritance, c.Name, c.Location,
		"circular inheritance: %s", dag.FormatCycle(cycle))
	for _, name := range lo.Uniq(cycle) {
		if name != c.Name {
			d.WithRelated(index[name].Location)
		}
	}
	return d
}

// rotateCycle starts a closed chain at its earliest declared class.
func rotateCycle(graph *dag.DirectedAcyclicGraph[string], cycle []string) []string {
	members := cycle[:len(cycle)-1]
	start := 0
	for i, name := range members {
		if graph.Vertices[name].Order < graph.Vertices[members[start]].Order {
			start = i
		}
	}
	rotated := slices.Concat(members[start:], members[:start])
	return append(rotated, rotated[0])
}

func clauseLocation(c *ast.ClassDeclaration, p *ast.ParentClause) *ast.Location {
	if p.Location != nil {
		return p.Location
	}
	return c.Location
}
