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

// Package query filters flattened features with CEL predicates.
//
// A predicate sees one feature at a time through these variables:
//
//	name        string        presented feature name
//	origin      string        class that declared the feature
//	class       string        class the table belongs to
//	kind        string        field, constant, method or external
//	category    string        own, inherited or undefined
//	deferred    bool          no implementation
//	creator     bool          creation procedure of the class
//	returnType  string        empty for procedures
//	params      list(string)  parameter types in order
//	clients     list(string)  export clients, empty when exported to all
//
// For example: `deferred && category == "inherited"` or
// `name.startsWith("is_") && returnType == "BOOLEAN"`.
package query

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
	"github.com/samber/lo"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/semantic"
)

// Variable names declared in the query environment.
const (
	VarName       = "name"
	VarOrigin     = "origin"
	VarClass      = "class"
	VarKind       = "kind"
	VarCategory   = "category"
	VarDeferred   = "deferred"
	VarCreator    = "creator"
	VarReturnType = "returnType"
	VarParams     = "params"
	VarClients    = "clients"
)

// Environment returns the CEL environment predicates are compiled in.
func Environment() (*cel.Env, error) {
	listOfStrings := cel.ListType(cel.StringType)
	return cel.NewEnv(
		ext.Strings(),
		ext.Lists(),
		cel.Variable(VarName, cel.StringType),
		cel.Variable(VarOrigin, cel.StringType),
		cel.Variable(VarClass, cel.StringType),
		cel.Variable(VarKind, cel.StringType),
		cel.Variable(VarCategory, cel.StringType),
		cel.Variable(VarDeferred, cel.BoolType),
		cel.Variable(VarCreator, cel.BoolType),
		cel.Variable(VarReturnType, cel.StringType),
		cel.Variable(VarParams, listOfStrings),
		cel.Variable(VarClients, listOfStrings),
	)
}

// Filter is a compiled predicate. The zero value and a nil *Filter match
// every feature. A Filter is safe for concurrent use.
type Filter struct {
	// Original is the source expression, kept for error messages.
	Original string
	program  cel.Program
}

// Compile parses and type-checks expr. The expression must evaluate to a
// bool. An empty expression yields a filter that matches everything.
func Compile(expr string) (*Filter, error) {
	if expr == "" {
		return &Filter{}, nil
	}

	env, err := Environment()
	if err != nil {
		return nil, fmt.Errorf("query environment: %w", err)
	}

	checked, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	if !cel.BoolType.IsExactType(checked.OutputType()) {
		return nil, fmt.Errorf("query %q must return bool, but returns %q", expr, checked.OutputType().String())
	}

	prg, err := env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Filter{Original: expr, program: prg}, nil
}

// Row is the view of one presented feature a predicate evaluates against.
type Row struct {
	Name       string
	Origin     string
	Class      string
	Kind       string
	Category   semantic.Category
	Deferred   bool
	Creator    bool
	ReturnType string
	Params     []string
	Clients    []string
	Record     semantic.FeatureRecord
}

// Activation returns the CEL variable bindings of the row.
func (r Row) Activation() map[string]any {
	return map[string]any{
		VarName:       r.Name,
		VarOrigin:     r.Origin,
		VarClass:      r.Class,
		VarKind:       r.Kind,
		VarCategory:   string(r.Category),
		VarDeferred:   r.Deferred,
		VarCreator:    r.Creator,
		VarReturnType: r.ReturnType,
		VarParams:     nonNil(r.Params),
		VarClients:    nonNil(r.Clients),
	}
}

// Match reports whether the row satisfies the filter.
func (f *Filter) Match(r Row) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, _, err := f.program.Eval(r.Activation())
	if err != nil {
		return false, fmt.Errorf("eval %q on %s.%s: %w", f.Original, r.Class, r.Name, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q on %s.%s: got %T, want bool", f.Original, r.Class, r.Name, out.Value())
	}
	return b, nil
}

// Rows returns the presented features of table, own features first.
func Rows(table *semantic.FeatureTable) []Row {
	rows := make([]Row, 0, len(table.Own)+len(table.Inherited)+len(table.Undefined))
	for _, r := range table.Features() {
		category, _ := table.CategoryOf(r.Name)
		rows = append(rows, Row{
			Name:       r.Name,
			Origin:     r.From,
			Class:      table.Name(),
			Kind:       r.Node.Kind().String(),
			Category:   category,
			Deferred:   r.Deferred(),
			Creator:    table.IsConstructor(r.Name),
			ReturnType: ast.TypeString(ast.ValueType(r.Node)),
			Params: lo.Map(ast.Parameters(r.Node), func(p ast.Parameter, _ int) string {
				return ast.TypeString(p.Type)
			}),
			Clients: r.Node.Clients(),
			Record:  r,
		})
	}
	return rows
}

// Select returns the rows of every table that satisfy the filter, in table
// order.
func Select(f *Filter, tables ...*semantic.FeatureTable) ([]Row, error) {
	var out []Row
	for _, t := range tables {
		for _, r := range Rows(t) {
			ok, err := f.Match(r)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
