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

const (
	// DefaultRootClass is the class every parentless class inherits from.
	DefaultRootClass = "ANY"
	// DefaultCreator is the creation procedure of classes without a create clause.
	DefaultCreator = "default_create"
)

// Defaults names the implicit root class and creation procedure.
type Defaults struct {
	RootClass string
	Creator   string
}

// StandardDefaults returns the language defaults.
func StandardDefaults() Defaults {
	return Defaults{RootClass: DefaultRootClass, Creator: DefaultCreator}
}

// ApplyDefaults returns a copy of decl with the two construction-time rules
// applied: a class without parents inherits the root class (unless it is the
// root class), and a class without creators gets the default creator.
// decl itself is left untouched.
func ApplyDefaults(decl *ClassDeclaration, d Defaults) *ClassDeclaration {
	cp := *decl
	if len(cp.Parents) == 0 && cp.Name != d.RootClass {
		cp.Parents = []ParentClause{{Name: d.RootClass}}
	}
	if len(cp.Creators) == 0 {
		cp.Creators = []string{d.Creator}
		cp.ImplicitCreators = true
	}
	return &cp
}

// ApplyDefaultsAll applies ApplyDefaults to every class.
func ApplyDefaultsAll(decls []*ClassDeclaration, d Defaults) []*ClassDeclaration {
	out := make([]*ClassDeclaration, 0, len(decls))
	for _, decl := range decls {
		out = append(out, ApplyDefaults(decl, d))
	}
	return out
}
