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

// ClassDeclaration is one class of the system as produced by the parser.
type ClassDeclaration struct {
	Name     string
	Deferred bool
	Generics []GenericParam
	Parents  []ParentClause
	// Creators lists the names of the creation procedures.
	Creators []string
	// ImplicitCreators is set when Creators was supplied by ApplyDefaults
	// rather than written by the programmer.
	ImplicitCreators bool
	Features         []Feature
	Location         *Location
}

// GenericParam is a formal generic parameter, optionally constrained.
type GenericParam struct {
	Name       string
	Constraint TypeDecl
	Location   *Location
}

// ParentClause is one entry of the inherit list with its adaptation clauses.
type ParentClause struct {
	Name     string
	Generics []TypeDecl
	Rename   []RenamePair
	Undefine []string
	Redefine []string
	Select   []string
	Location *Location
}

// RenamePair maps an inherited feature name to the name used in the heir.
type RenamePair struct {
	Original string
	Alias    string
	Location *Location
}

// Feature returns the own feature called name, or nil.
func (c *ClassDeclaration) Feature(name string) Feature {
	for _, f := range c.Features {
		if f.FeatureName() == name {
			return f
		}
	}
	return nil
}

// ParentNames returns the parent class names in inherit-list order.
func (c *ClassDeclaration) ParentNames() []string {
	names := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		names = append(names, p.Name)
	}
	return names
}

// HasAdaptation reports whether the clause changes anything about the
// inherited features.
func (p *ParentClause) HasAdaptation() bool {
	return len(p.Rename) > 0 || len(p.Undefine) > 0 || len(p.Redefine) > 0 || len(p.Select) > 0
}
