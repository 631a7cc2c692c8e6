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

package ast

// FeatureKind identifies the variant of a Feature.
type FeatureKind int

const (
	// FeatureKindField is typed storage.
	FeatureKindField FeatureKind = iota
	// FeatureKindConstant is a typed compile-time value.
	FeatureKindConstant
	// FeatureKindMethod is a routine with a body (or a deferred one).
	FeatureKindMethod
	// FeatureKindExternal is a routine implemented outside the language.
	FeatureKindExternal
)

// String returns a human-readable string for the feature kind.
func (k FeatureKind) String() string {
	switch k {
	case FeatureKindField:
		return "field"
	case FeatureKindConstant:
		return "constant"
	case FeatureKindMethod:
		return "method"
	case FeatureKindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Feature is a member of a class. The set of variants is closed: *Field,
// *Constant, *Method and *ExternalMethod.
type Feature interface {
	FeatureName() string
	// Clients lists the classes the feature is exported to. Empty means
	// every class may call it.
	Clients() []string
	Loc() *Location
	Kind() FeatureKind
	// WithName returns a shallow copy of the feature carrying name.
	WithName(name string) Feature
	isFeature()
}

// FeatureHeader holds the attributes shared by every feature variant.
type FeatureHeader struct {
	Name       string
	ExportedTo []string
	Location   *Location
}

func (h *FeatureHeader) FeatureName() string { return h.Name }
func (h *FeatureHeader) Clients() []string   { return h.ExportedTo }
func (h *FeatureHeader) Loc() *Location      { return h.Location }

// Parameter is a formal argument of a routine.
type Parameter struct {
	Name     string
	Type     TypeDecl
	Location *Location
}

// LocalVar is a local variable declaration of a method body.
type LocalVar struct {
	Name     string
	Type     TypeDecl
	Location *Location
}

// Condition is a tagged assertion of a require or ensure clause.
type Condition struct {
	Tag      string
	Expr     Expr
	Location *Location
}

// Field is typed storage.
type Field struct {
	FeatureHeader
	Type TypeDecl
}

// Constant is a typed compile-time value.
type Constant struct {
	FeatureHeader
	Type  TypeDecl
	Value Expr
}

// Method is a routine written in the language. A deferred method has no body.
type Method struct {
	FeatureHeader
	Params   []Parameter
	Return   TypeDecl
	Require  []Condition
	Ensure   []Condition
	Locals   []LocalVar
	Body     []Statement
	Deferred bool
}

// ExternalMethod is a routine implemented in another language.
type ExternalMethod struct {
	FeatureHeader
	Params   []Parameter
	Return   TypeDecl
	Require  []Condition
	Ensure   []Condition
	Language string
	Alias    string
}

func (*Field) isFeature()          {}
func (*Constant) isFeature()       {}
func (*Method) isFeature()         {}
func (*ExternalMethod) isFeature() {}

func (*Field) Kind() FeatureKind          { return FeatureKindField }
func (*Constant) Kind() FeatureKind       { return FeatureKindConstant }
func (*Method) Kind() FeatureKind         { return FeatureKindMethod }
func (*ExternalMethod) Kind() FeatureKind { return FeatureKindExternal }

func (f *Field) WithName(name string) Feature {
	cp := *f
	cp.Name = name
	return &cp
}

func (c *Constant) WithName(name string) Feature {
	cp := *c
	cp.Name = name
	return &cp
}

func (m *Method) WithName(name string) Feature {
	cp := *m
	cp.Name = name
	return &cp
}

func (e *ExternalMethod) WithName(name string) Feature {
	cp := *e
	cp.Name = name
	return &cp
}

// IsDeferred reports whether f is a method without an implementation.
func IsDeferred(f Feature) bool {
	m, ok := f.(*Method)
	return ok && m.Deferred
}

// IsRoutine reports whether f is a Method or an ExternalMethod.
func IsRoutine(f Feature) bool {
	switch f.(type) {
	case *Method, *ExternalMethod:
		return true
	default:
		return false
	}
}

// ValueType returns the type of the value f produces: the declared type of
// fields and constants, the return type of routines.
func ValueType(f Feature) TypeDecl {
	switch f := f.(type) {
	case *Field:
		return f.Type
	case *Constant:
		return f.Type
	case *Method:
		return f.Return
	case *ExternalMethod:
		return f.Return
	default:
		panic("ast: unknown feature variant")
	}
}

// Parameters returns the formal arguments of a routine, nil otherwise.
func Parameters(f Feature) []Parameter {
	switch f := f.(type) {
	case *Method:
		return f.Params
	case *ExternalMethod:
		return f.Params
	default:
		return nil
	}
}

// Deferred returns the deferred form of f used when a parent feature is
// undefined: a field becomes a deferred method returning the field type,
// routines keep their signature and lose their implementation. Constants
// have no deferred form and report false.
func Deferred(f Feature) (Feature, bool) {
	switch f := f.(type) {
	case *Field:
		return &Method{
			FeatureHeader: f.FeatureHeader,
			Return:        f.Type,
			Deferred:      true,
		}, true
	case *Method:
		cp := *f
		cp.Deferred = true
		cp.Body = nil
		cp.Locals = nil
		return &cp, true
	case *ExternalMethod:
		return &Method{
			FeatureHeader: f.FeatureHeader,
			Params:        f.Params,
			Return:        f.Return,
			Require:       f.Require,
			Ensure:        f.Ensure,
			Deferred:      true,
		}, true
	case *Constant:
		return nil, false
	default:
		panic("ast: unknown feature variant")
	}
}
