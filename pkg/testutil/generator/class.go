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

// Package generator builds class declarations for tests.
package generator

import (
	"sync/atomic"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// File is the file name recorded in every generated location.
const File = "system.e"

var line atomic.Int64

// Loc returns a fresh location; every call gets the next line of File.
func Loc() *ast.Location {
	return ast.At(File, int(line.Add(1)), 1)
}

// Type returns the class type name, or the void type for "".
func Type(name string) ast.TypeDecl {
	if name == "" {
		return nil
	}
	return ast.Named(name)
}

func header(name string) ast.FeatureHeader {
	return ast.FeatureHeader{Name: name, Location: Loc()}
}

// Procedure returns an effective routine without a result.
func Procedure(name string, params ...ast.Parameter) *ast.Method {
	return &ast.Method{FeatureHeader: header(name), Params: params}
}

// Function returns an effective routine returning ret.
func Function(name, ret string, params ...ast.Parameter) *ast.Method {
	return &ast.Method{FeatureHeader: header(name), Params: params, Return: Type(ret)}
}

// Deferred returns a routine without implementation.
func Deferred(name, ret string) *ast.Method {
	return &ast.Method{FeatureHeader: header(name), Return: Type(ret), Deferred: true}
}

func Field(name, typ string) *ast.Field {
	return &ast.Field{FeatureHeader: header(name), Type: Type(typ)}
}

func Constant(name, typ string, value ast.Expr) *ast.Constant {
	return &ast.Constant{FeatureHeader: header(name), Type: Type(typ), Value: value}
}

// External returns a C routine aliased to its own name.
func External(name, ret string) *ast.ExternalMethod {
	return &ast.ExternalMethod{FeatureHeader: header(name), Return: Type(ret), Language: "C", Alias: name}
}

func Param(name, typ string) ast.Parameter {
	return ast.Parameter{Name: name, Type: Type(typ), Location: Loc()}
}

// ClassOption is a functional option for ClassDeclaration
type ClassOption func(*ast.ClassDeclaration)

// ParentOption is a functional option for ParentClause
type ParentOption func(*ast.ParentClause)

// NewClass creates a new ClassDeclaration with the given name and options
func NewClass(name string, opts ...ClassOption) *ast.ClassDeclaration {
	c := &ast.ClassDeclaration{Name: name, Location: Loc()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsDeferred marks the class deferred.
func IsDeferred() ClassOption { return func(c *ast.ClassDeclaration) { c.Deferred = true } }

// WithFeatures appends own features.
func WithFeatures(fs ...ast.Feature) ClassOption {
	return func(c *ast.ClassDeclaration) { c.Features = append(c.Features, fs...) }
}

// WithCreators appends creation procedure names.
func WithCreators(names ...string) ClassOption {
	return func(c *ast.ClassDeclaration) { c.Creators = append(c.Creators, names...) }
}

// WithParent appends a parent clause adapted by opts.
func WithParent(parent string, opts ...ParentOption) ClassOption {
	return func(c *ast.ClassDeclaration) {
		p := ast.ParentClause{Name: parent, Location: Loc()}
		for _, opt := range opts {
			opt(&p)
		}
		c.Parents = append(c.Parents, p)
	}
}

func Rename(original, alias string) ParentOption {
	return func(p *ast.ParentClause) {
		p.Rename = append(p.Rename, ast.RenamePair{Original: original, Alias: alias, Location: Loc()})
	}
}

func Undefine(names ...string) ParentOption {
	return func(p *ast.ParentClause) { p.Undefine = append(p.Undefine, names...) }
}

func Redefine(names ...string) ParentOption {
	return func(p *ast.ParentClause) { p.Redefine = append(p.Redefine, names...) }
}

func Select(names ...string) ParentOption {
	return func(p *ast.ParentClause) { p.Select = append(p.Select, names...) }
}

// Root returns the root class with its default creation procedure.
func Root() *ast.ClassDeclaration {
	return NewClass(ast.DefaultRootClass, WithFeatures(Procedure(ast.DefaultCreator)))
}

// System prepends Root to classes and applies the standard defaults.
func System(classes ...*ast.ClassDeclaration) []*ast.ClassDeclaration {
	return ast.ApplyDefaultsAll(append([]*ast.ClassDeclaration{Root()}, classes...), ast.StandardDefaults())
}
