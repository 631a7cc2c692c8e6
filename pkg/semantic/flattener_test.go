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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

func TestImplicitRootParent(t *testing.T) {
	implicit := mustTable(t, "POINT", class("POINT", feats(field("x", "INTEGER"))))
	explicit := mustTable(t, "POINT", class("POINT", inherit("ANY"), feats(field("x", "INTEGER"))))

	assert.Equal(t, []string{"ANY"}, implicit.Class.ParentNames())
	assert.Equal(t, keys(explicit.Features()), keys(implicit.Features()))
	assert.Equal(t, keys(explicit.Constructors), keys(implicit.Constructors))
	assert.Equal(t, []FeatureKey{{"POINT", "x"}, {"ANY", "default_create"}}, keys(implicit.Features()))
}

func TestRootClassHasNoParent(t *testing.T) {
	table := mustTable(t, "ANY")

	assert.Empty(t, table.Class.Parents)
	assert.Equal(t, []string{"default_create"}, names(table.Own))
	assert.Empty(t, table.Inherited)
	assert.Equal(t, []string{"default_create"}, names(table.Constructors))
}

func TestRenamePreservesStructure(t *testing.T) {
	original := function("f", "STRING", param("a", "INTEGER"), param("b", "REAL"))
	p := class("P", feats(original, procedure("h")))
	c := class("C", inherit("P", rename("f", "g")))

	table := mustTable(t, "C", p, c)

	g, ok := table.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, "P", g.From)
	assert.Equal(t, "g", g.Node.FeatureName())
	assert.Equal(t, original.Kind(), g.Node.Kind())
	assert.Equal(t, ast.Parameters(original), ast.Parameters(g.Node))
	assert.Equal(t, ast.ValueType(original), ast.ValueType(g.Node))

	_, ok = table.Lookup("f")
	assert.False(t, ok, "f must be renamed away")
	assert.Equal(t, []FeatureKey{{"P", "f"}}, keys(table.Renamed))
	assert.Equal(t, "f", original.FeatureName(), "the parent declaration must not change")

	h, ok := table.Lookup("h")
	require.True(t, ok)
	assert.Same(t, p.Features[1], h.Node)
}

func TestRenameCollisionWithChild(t *testing.T) {
	p := class("P", feats(procedure("f")))
	c := class("C", inherit("P", rename("f", "g")), feats(procedure("g")))

	res := analyze(t, p, c)

	assert.Equal(t, []diag.Code{diag.CodeNameCollision}, res.Diagnostics.Codes())
	assert.Nil(t, res.Table("C"))
	assert.Equal(t, "C", res.Diagnostics[0].Class)
	assert.Len(t, res.Diagnostics[0].Related, 1)
}

func TestUndefineRoundTrip(t *testing.T) {
	t.Run("placeholder keeps the value type", func(t *testing.T) {
		p := class("P", feats(field("x", "INTEGER"), function("y", "REAL"), external("z", "")))
		c := class("C", isDeferred(), inherit("P", undefine("x", "y", "z")))

		table := mustTable(t, "C", p, c)

		assert.Equal(t, []string{"x", "y", "z"}, names(table.Undefined))
		for _, want := range []struct {
			name string
			ret  ast.TypeDecl
		}{
			{"x", ast.Named("INTEGER")},
			{"y", ast.Named("REAL")},
			{"z", nil},
		} {
			rec, ok := table.Lookup(want.name)
			require.True(t, ok, want.name)
			category, _ := table.CategoryOf(want.name)
			assert.Equal(t, CategoryUndefined, category)
			assert.True(t, rec.Deferred(), want.name)
			assert.Equal(t, ast.FeatureKindMethod, rec.Node.Kind(), want.name)
			assert.Equal(t, want.ret, ast.ValueType(rec.Node), want.name)
		}
		assert.False(t, ast.IsDeferred(p.Features[1]), "the parent declaration must not change")
	})

	t.Run("effective class keeps no placeholder", func(t *testing.T) {
		p := class("P", feats(field("x", "INTEGER")))
		c := class("C", inherit("P", undefine("x")))

		res := analyze(t, p, c)
		assert.Equal(t, []diag.Code{diag.CodeIncompleteClass}, res.Diagnostics.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "x")
	})

	t.Run("sibling definition wins", func(t *testing.T) {
		p := class("P", feats(field("x", "INTEGER")))
		q := class("Q", feats(function("x", "INTEGER")))
		c := class("C", inherit("P", undefine("x")), inherit("Q"))

		table := mustTable(t, "C", p, q, c)

		rec, ok := table.Lookup("x")
		require.True(t, ok)
		assert.Equal(t, "Q", rec.From)
		assert.False(t, rec.Deferred())
		assert.Empty(t, table.Undefined)
		require.Equal(t, []FeatureKey{{"P", "x"}}, keys(table.Joined))
		assert.Same(t, q.Features[0], table.Joined[0].Node)
	})
}

func TestRedefinitionSubstitution(t *testing.T) {
	parentArea := function("area", "REAL")
	childArea := function("area", "REAL")
	p := class("P", feats(parentArea))
	c := class("C", inherit("P", redefine("area")), feats(childArea))
	d := class("D", inherit("C"))

	res := analyze(t, p, c, d)
	require.Empty(t, res.Diagnostics)

	table := res.Table("C")
	rec, ok := table.Lookup("area")
	require.True(t, ok)
	assert.Same(t, childArea, rec.Node)
	assert.Equal(t, FeatureKey{"C", "area"}, rec.Key())

	precursor, ok := table.Precursor("area", "P")
	require.True(t, ok)
	assert.Same(t, parentArea, precursor.Node)
	assert.NotEqual(t, rec.Key(), precursor.Key())
	assert.Equal(t, []FeatureKey{{"P", "area"}}, keys(table.Precursors))

	require.Len(t, table.Redefined, 1)
	assert.Equal(t, FeatureKey{"P", "area"}, table.Redefined[0].Key())
	assert.Same(t, childArea, table.Redefined[0].Node)

	// bookkeeping reaches heirs so precursor calls resolve further down
	heir := res.Table("D")
	rec, ok = heir.Lookup("area")
	require.True(t, ok)
	assert.Equal(t, "C", rec.From)
	precursor, ok = heir.Precursor("area", "")
	require.True(t, ok)
	assert.Same(t, parentArea, precursor.Node)
	_, ok = heir.Precursor("area", "Q")
	assert.False(t, ok)
}

func TestAmbiguityRequiresResolution(t *testing.T) {
	t.Run("unresolved join", func(t *testing.T) {
		b := class("B", feats(procedure("f")))
		c := class("C", feats(procedure("f")))
		a := class("A", inherit("B"), inherit("C"))

		res := analyze(t, b, c, a)

		assert.Equal(t, []diag.Code{diag.CodeAmbiguousJoin}, res.Diagnostics.Codes())
		d := res.Diagnostics[0]
		assert.Equal(t, "A", d.Class)
		assert.Equal(t, []*ast.Location{b.Features[0].Loc(), c.Features[0].Loc()}, d.Related)
		assert.Nil(t, res.Table("A"))
		assert.NotNil(t, res.Table("B"))
		assert.NotNil(t, res.Table("C"))
	})

	t.Run("select picks one parent", func(t *testing.T) {
		b := class("B", feats(procedure("f")))
		c := class("C", feats(procedure("f")))
		a := class("A", inherit("B", selects("f")), inherit("C"))

		table := mustTable(t, "A", b, c, a)

		rec, ok := table.Lookup("f")
		require.True(t, ok)
		assert.Equal(t, "B", rec.From)
		require.Equal(t, []FeatureKey{{"C", "f"}}, keys(table.Selected))
		assert.Same(t, b.Features[0], table.Selected[0].Node)
	})

	t.Run("rename resolves the clash", func(t *testing.T) {
		b := class("B", feats(procedure("f")))
		c := class("C", feats(procedure("f")))
		a := class("A", inherit("B"), inherit("C", rename("f", "c_f")))

		table := mustTable(t, "A", b, c, a)

		f, _ := table.Lookup("f")
		cf, _ := table.Lookup("c_f")
		assert.Equal(t, "B", f.From)
		assert.Equal(t, "C", cf.From)
	})

	t.Run("child declaration without redefine", func(t *testing.T) {
		b := class("B", feats(procedure("f")))
		a := class("A", inherit("B"), feats(procedure("f")))

		res := analyze(t, b, a)
		require.Equal(t, []diag.Code{diag.CodeAmbiguousJoin}, res.Diagnostics.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "redefine")
	})
}

func TestCompletenessGate(t *testing.T) {
	shape := func() *ast.ClassDeclaration {
		return class("SHAPE", isDeferred(), feats(deferred("area", "REAL"), deferred("perimeter", "REAL")))
	}

	t.Run("effective heir", func(t *testing.T) {
		res := analyze(t, shape(), class("SQUARE", inherit("SHAPE")))

		require.Equal(t, []diag.Code{diag.CodeIncompleteClass}, res.Diagnostics.Codes())
		msg := res.Diagnostics[0].Message
		assert.Contains(t, msg, "2 deferred features")
		assert.Contains(t, msg, "area, perimeter")
		assert.Nil(t, res.Table("SQUARE"))
	})

	t.Run("single leftover", func(t *testing.T) {
		res := analyze(t, shape(), class("SQUARE", inherit("SHAPE"), feats(function("area", "REAL"))))

		require.Equal(t, []diag.Code{diag.CodeIncompleteClass}, res.Diagnostics.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "1 deferred feature: perimeter")
	})

	t.Run("deferred heir", func(t *testing.T) {
		table := mustTable(t, "SQUARE", shape(), class("SQUARE", isDeferred(), inherit("SHAPE")))

		assert.Equal(t, []string{"area", "perimeter"}, names(table.Deferred()))
	})

	t.Run("effecting without redefine", func(t *testing.T) {
		area, perimeter := function("area", "REAL"), function("perimeter", "REAL")
		table := mustTable(t, "SQUARE", shape(), class("SQUARE", inherit("SHAPE"), feats(area, perimeter)))

		assert.Empty(t, table.Deferred())
		assert.Equal(t, []string{"area", "perimeter"}, names(table.Own))
		require.Equal(t, []FeatureKey{{"SHAPE", "area"}, {"SHAPE", "perimeter"}}, keys(table.Joined))
		assert.Same(t, area, table.Joined[0].Node)
	})

	t.Run("deferred arriving twice", func(t *testing.T) {
		other := class("OTHER", isDeferred(), feats(deferred("area", "REAL")))
		table := mustTable(t, "BOTH", shape(), other, class("BOTH", isDeferred(), inherit("SHAPE"), inherit("OTHER")))

		rec, ok := table.Lookup("area")
		require.True(t, ok)
		assert.Equal(t, "SHAPE", rec.From)
		assert.Equal(t, []FeatureKey{{"OTHER", "area"}}, keys(table.Joined))
	})
}

func TestCreationProcedureValidity(t *testing.T) {
	grid := []struct {
		name    string
		classes func() []*ast.ClassDeclaration
		valid   bool
	}{
		{
			name: "procedure",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"), feats(procedure("make", param("n", "INTEGER"))))}
			},
			valid: true,
		},
		{
			name: "external procedure",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"), feats(external("make", "")))}
			},
			valid: true,
		},
		{
			name: "function",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"), feats(function("make", "INTEGER")))}
			},
		},
		{
			name: "field",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"), feats(field("make", "INTEGER")))}
			},
		},
		{
			name: "constant",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"), feats(constant("make", "INTEGER", &ast.IntegerConst{Value: 1})))}
			},
		},
		{
			name: "deferred procedure",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", isDeferred(), creators("make"), feats(deferred("make", "")))}
			},
		},
		{
			name: "missing",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make"))}
			},
		},
		{
			name: "inherited",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{
					class("P", feats(procedure("make"))),
					class("C", inherit("P"), creators("make")),
				}
			},
		},
		{
			name: "listed twice",
			classes: func() []*ast.ClassDeclaration {
				return []*ast.ClassDeclaration{class("C", creators("make", "make"), feats(procedure("make")))}
			},
		},
	}

	for _, g := range grid {
		t.Run(g.name, func(t *testing.T) {
			res := analyze(t, g.classes()...)
			if g.valid {
				require.Empty(t, res.Diagnostics)
				table := res.Table("C")
				assert.Equal(t, []FeatureKey{{"C", "make"}}, keys(table.Constructors))
				assert.True(t, table.IsConstructor("make"))
				assert.False(t, table.IsConstructor("default_create"))
				return
			}
			assert.Equal(t, []diag.Code{diag.CodeInvalidCreationProcedure}, res.Diagnostics.Codes())
			assert.Nil(t, res.Table("C"))
		})
	}
}

func TestImplicitCreator(t *testing.T) {
	t.Run("inherited default creator", func(t *testing.T) {
		table := mustTable(t, "C", class("C"))

		assert.Equal(t, []FeatureKey{{"ANY", "default_create"}}, keys(table.Constructors))
	})

	t.Run("redefined default creator", func(t *testing.T) {
		own := procedure("default_create")
		table := mustTable(t, "C", class("C", inherit("ANY", redefine("default_create")), feats(own)))

		require.Len(t, table.Constructors, 1)
		assert.Same(t, own, table.Constructors[0].Node)
	})

	t.Run("renamed away", func(t *testing.T) {
		res := analyze(t, class("C", inherit("ANY", rename("default_create", "make"))))

		assert.Equal(t, []diag.Code{diag.CodeInvalidCreationProcedure}, res.Diagnostics.Codes())
	})

	t.Run("undefined default creator", func(t *testing.T) {
		res := analyze(t, class("C", isDeferred(), inherit("ANY", undefine("default_create"))))

		assert.Equal(t, []diag.Code{diag.CodeInvalidCreationProcedure}, res.Diagnostics.Codes())
		assert.Contains(t, res.Diagnostics[0].Message, "default_create of class C is deferred")
	})
}

func TestClauseValidity(t *testing.T) {
	p := func() *ast.ClassDeclaration {
		return class("P", feats(procedure("f"), procedure("g"), constant("k", "INTEGER", &ast.IntegerConst{Value: 3})))
	}
	deferredP := func() *ast.ClassDeclaration {
		return class("P", isDeferred(), feats(deferred("f", "")))
	}
	b := func() *ast.ClassDeclaration { return class("B", feats(procedure("f"))) }
	d := func() *ast.ClassDeclaration { return class("D", feats(procedure("f"))) }

	grid := []struct {
		name    string
		classes []*ast.ClassDeclaration
		want    []diag.Code
	}{
		{
			name:    "duplicate own feature",
			classes: []*ast.ClassDeclaration{class("C", feats(procedure("f"), field("f", "INTEGER")))},
			want:    []diag.Code{diag.CodeDuplicateFeature},
		},
		{
			name:    "rename original twice",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", rename("f", "x"), rename("f", "y")))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "rename alias twice",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", rename("f", "x"), rename("g", "x")))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "rename unknown feature",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", rename("zz", "x")))},
			want:    []diag.Code{diag.CodeNonexistentFeature},
		},
		{
			name:    "undefine twice",
			classes: []*ast.ClassDeclaration{p(), class("C", isDeferred(), inherit("P", undefine("f", "f")))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "undefine unknown feature",
			classes: []*ast.ClassDeclaration{p(), class("C", isDeferred(), inherit("P", undefine("zz")))},
			want:    []diag.Code{diag.CodeNonexistentFeature},
		},
		{
			name:    "undefine own feature",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", undefine("f")), feats(procedure("f")))},
			want:    []diag.Code{diag.CodeNameCollision, diag.CodeAmbiguousJoin},
		},
		{
			name:    "undefine constant",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", undefine("k")))},
			want:    []diag.Code{diag.CodeAdaptConstant},
		},
		{
			name:    "undefine deferred",
			classes: []*ast.ClassDeclaration{deferredP(), class("C", isDeferred(), inherit("P", undefine("f")))},
			want:    []diag.Code{diag.CodeUndefineDeferred},
		},
		{
			name:    "redefine twice",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", redefine("f", "f")), feats(procedure("f")))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "redefine unknown feature",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", redefine("zz")), feats(procedure("zz")))},
			want:    []diag.Code{diag.CodeNonexistentFeature},
		},
		{
			name:    "redefine without declaration",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", redefine("f")))},
			want:    []diag.Code{diag.CodeNotRedeclared},
		},
		{
			name:    "redefine constant",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", redefine("k")), feats(constant("k", "INTEGER", &ast.IntegerConst{Value: 4})))},
			want:    []diag.Code{diag.CodeAdaptConstant, diag.CodeAmbiguousJoin},
		},
		{
			name:    "redefine deferred",
			classes: []*ast.ClassDeclaration{deferredP(), class("C", inherit("P", redefine("f")), feats(procedure("f")))},
			want:    []diag.Code{diag.CodeRedefineDeferred},
		},
		{
			name:    "select unambiguous feature",
			classes: []*ast.ClassDeclaration{p(), class("C", inherit("P", selects("f")))},
			want:    []diag.Code{diag.CodeUnambiguousSelect},
		},
		{
			name:    "select unknown feature",
			classes: []*ast.ClassDeclaration{b(), d(), class("C", inherit("B", selects("zz")), inherit("D"))},
			want:    []diag.Code{diag.CodeNonexistentFeature, diag.CodeAmbiguousJoin},
		},
		{
			name:    "select twice in one clause",
			classes: []*ast.ClassDeclaration{b(), d(), class("C", inherit("B", selects("f", "f")), inherit("D"))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "select from two parents",
			classes: []*ast.ClassDeclaration{b(), d(), class("C", inherit("B", selects("f")), inherit("D", selects("f")))},
			want:    []diag.Code{diag.CodeDuplicateInClause},
		},
		{
			name:    "select own feature",
			classes: []*ast.ClassDeclaration{b(), d(), class("C", inherit("B", selects("f")), inherit("D"), feats(procedure("f")))},
			want:    []diag.Code{diag.CodeNameCollision, diag.CodeAmbiguousJoin},
		},
		{
			name: "every problem of one class",
			classes: []*ast.ClassDeclaration{p(), class("C",
				inherit("P", rename("zz", "x"), redefine("g")),
				creators("make"))},
			want: []diag.Code{diag.CodeNonexistentFeature, diag.CodeNotRedeclared, diag.CodeInvalidCreationProcedure},
		},
	}

	for _, g := range grid {
		t.Run(g.name, func(t *testing.T) {
			res := analyze(t, g.classes...)

			assert.Equal(t, g.want, res.Diagnostics.Codes(), "diagnostics:\n%v", res.Diagnostics)
			for _, d := range res.Diagnostics {
				assert.Equal(t, "C", d.Class)
				assert.Equal(t, StageFlattener, d.Stage)
				assert.NotNil(t, d.Location)
			}
			assert.Nil(t, res.Table("C"))
		})
	}
}

func TestDiamondInheritance(t *testing.T) {
	base := func() *ast.ClassDeclaration { return class("D", feats(procedure("f"), field("n", "INTEGER"))) }

	t.Run("shared features collapse", func(t *testing.T) {
		table := mustTable(t, "A", base(), class("B", inherit("D")), class("C", inherit("D")), class("A", inherit("B"), inherit("C")))

		assert.Equal(t, []FeatureKey{{"D", "f"}, {"D", "n"}, {"ANY", "default_create"}}, keys(table.Inherited))
	})

	t.Run("rename in one branch", func(t *testing.T) {
		table := mustTable(t, "A", base(),
			class("B", inherit("D", rename("f", "g"))),
			class("C", inherit("D")),
			class("A", inherit("B"), inherit("C")))

		g, _ := table.Lookup("g")
		f, _ := table.Lookup("f")
		assert.Equal(t, FeatureKey{"D", "g"}, g.Key())
		assert.Equal(t, FeatureKey{"D", "f"}, f.Key())
	})

	t.Run("redefinition in one branch needs select", func(t *testing.T) {
		classes := func(opts ...clauseOption) []*ast.ClassDeclaration {
			return []*ast.ClassDeclaration{
				base(),
				class("B", inherit("D", redefine("f")), feats(procedure("f"))),
				class("C", inherit("D")),
				class("A", inherit("B", opts...), inherit("C")),
			}
		}

		res := analyze(t, classes()...)
		assert.Equal(t, []diag.Code{diag.CodeAmbiguousJoin}, res.Diagnostics.Codes())

		table := mustTable(t, "A", classes(selects("f"))...)
		f, _ := table.Lookup("f")
		assert.Equal(t, "B", f.From)
		assert.Equal(t, []FeatureKey{{"D", "f"}}, keys(table.Selected))
		assert.Equal(t, []FeatureKey{{"D", "f"}}, keys(table.Precursors))
	})

	t.Run("undefine in one branch", func(t *testing.T) {
		table := mustTable(t, "A", base(),
			class("B", isDeferred(), inherit("D", undefine("f"))),
			class("C", inherit("D")),
			class("A", inherit("B"), inherit("C")))

		f, _ := table.Lookup("f")
		assert.False(t, f.Deferred())
		assert.Equal(t, []FeatureKey{{"D", "f"}}, keys(table.Joined))
	})
}

// Selecting a deferred version drops the effective competitors, so the
// class inherits the obligation.
func TestSelectDeferredVersion(t *testing.T) {
	b := class("B", isDeferred(), feats(deferred("f", "")))
	c := class("C", feats(procedure("f")))

	res := analyze(t, b, c, class("A", inherit("B", selects("f")), inherit("C")))
	assert.Equal(t, []diag.Code{diag.CodeIncompleteClass}, res.Diagnostics.Codes())

	table := mustTable(t, "A", b, c, class("A", isDeferred(), inherit("B", selects("f")), inherit("C")))
	f, _ := table.Lookup("f")
	assert.True(t, f.Deferred())
	assert.Equal(t, []FeatureKey{{"C", "f"}}, keys(table.Selected))
}

func TestSelectBetweenDeferredVersions(t *testing.T) {
	b := class("B", isDeferred(), feats(deferred("f", "")))
	c := class("C", isDeferred(), feats(deferred("f", "INTEGER")))

	t.Run("selected version wins", func(t *testing.T) {
		res := analyze(t, b, c, class("A", isDeferred(), inherit("B"), inherit("C", selects("f"))))
		require.Empty(t, res.Diagnostics)

		table := res.Table("A")
		require.NotNil(t, table)
		f, ok := table.Lookup("f")
		require.True(t, ok)
		assert.Equal(t, FeatureKey{"C", "f"}, f.Key())
		assert.True(t, f.Deferred())
		assert.Equal(t, "INTEGER", ast.TypeString(ast.ValueType(f.Node)))
		category, _ := table.CategoryOf("f")
		assert.Equal(t, CategoryInherited, category)

		require.Len(t, table.Selected, 1)
		assert.Equal(t, FeatureKey{"B", "f"}, table.Selected[0].Key())
		assert.Same(t, f.Node, table.Selected[0].Node)
		assert.Empty(t, table.Joined)
	})

	t.Run("without select the first deferred version wins", func(t *testing.T) {
		table := mustTable(t, "A", b, c, class("A", isDeferred(), inherit("B"), inherit("C")))
		f, _ := table.Lookup("f")
		assert.Equal(t, FeatureKey{"B", "f"}, f.Key())
		assert.Empty(t, table.Selected)
		require.Len(t, table.Joined, 1)
		assert.Equal(t, FeatureKey{"C", "f"}, table.Joined[0].Key())
		assert.Same(t, f.Node, table.Joined[0].Node)
	})

	t.Run("effective heir of the selected version", func(t *testing.T) {
		a := class("A", isDeferred(), inherit("B"), inherit("C", selects("f")))

		table := mustTable(t, "D", b, c, a, class("D", inherit("A"), feats(function("f", "INTEGER"))))
		f, _ := table.Lookup("f")
		assert.Equal(t, FeatureKey{"D", "f"}, f.Key())
		assert.False(t, f.Deferred())
		assert.Equal(t, []FeatureKey{{"C", "f"}}, keys(table.Joined))
		assert.Equal(t, []FeatureKey{{"B", "f"}}, keys(table.Selected))

		res := analyze(t, b, c, a, class("D", inherit("A", redefine("f")), feats(function("f", "INTEGER"))))
		assert.Equal(t, []diag.Code{diag.CodeRedefineDeferred}, res.Diagnostics.Codes())
	})
}

func TestFailedParentSkipsDescendantsOnly(t *testing.T) {
	classes := func() []*ast.ClassDeclaration {
		return system(
			class("BROKEN", feats(procedure("f"), procedure("f"))),
			class("CHILD", inherit("BROKEN")),
			class("GRANDCHILD", inherit("CHILD")),
			class("OTHER", feats(procedure("g"))),
		)
	}

	for _, gates := range []string{"ParallelFlattening=false", "ParallelFlattening=true", "FlattenMemo=false"} {
		t.Run(gates, func(t *testing.T) {
			res, err := newTestAnalyzer(t, gates).Analyze(context.Background(), classes())
			require.NoError(t, err)

			assert.Equal(t, []diag.Code{diag.CodeDuplicateFeature}, res.Diagnostics.Codes())
			assert.Equal(t, "BROKEN", res.Diagnostics[0].Class)
			assert.Equal(t, []string{"CHILD", "GRANDCHILD"}, res.Skipped)
			assert.Equal(t, []string{"ANY", "OTHER"}, res.Order)
			assert.NotNil(t, res.Table("OTHER"))
			assert.False(t, res.OK())
		})
	}
}
