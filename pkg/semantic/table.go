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
	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// FeatureKey identifies a feature by the class that declared it and the name
// it carries at this point of the hierarchy. Two records with the same key
// are the same feature, whatever their nodes look like.
type FeatureKey struct {
	Class string
	Name  string
}

func (k FeatureKey) String() string { return k.Class + "." + k.Name }

// FeatureRecord is the unit the flattener works on.
type FeatureRecord struct {
	// From is the class that declared the feature.
	From string
	// Name is the feature name as seen by the class owning the table; it
	// differs from Node's original name after a rename.
	Name string
	Node ast.Feature
}

// Key returns the identity of the record.
func (r FeatureRecord) Key() FeatureKey { return FeatureKey{Class: r.From, Name: r.Name} }

// Deferred reports whether the record has no implementation.
func (r FeatureRecord) Deferred() bool { return ast.IsDeferred(r.Node) }

// Location returns the source location of the feature node.
func (r FeatureRecord) Location() *ast.Location {
	if r.Node == nil {
		return nil
	}
	return r.Node.Loc()
}

// Category names the FeatureTable list a record belongs to.
type Category string

const (
	CategoryOwn         Category = "own"
	CategoryInherited   Category = "inherited"
	CategoryUndefined   Category = "undefined"
	CategoryJoined      Category = "joined"
	CategoryRenamed     Category = "renamed"
	CategoryRedefined   Category = "redefined"
	CategoryPrecursor   Category = "precursor"
	CategorySelected    Category = "selected"
	CategoryConstructor Category = "constructor"
)

// FeatureTable is the flattened view of one class.
//
// Own, Inherited and Undefined together hold exactly one record per feature
// name: the features the class presents to its clients and to its heirs.
// The remaining lists are bookkeeping for later stages.
type FeatureTable struct {
	Class *ast.ClassDeclaration

	// Own are features declared by the class itself.
	Own []FeatureRecord
	// Inherited are parent features that survived adaptation and merging.
	Inherited []FeatureRecord
	// Undefined are deferred placeholders produced by undefine clauses of
	// this class.
	Undefined []FeatureRecord
	// Joined are deferred records merged into a same-named feature. Their
	// node is the node of the feature that satisfied them.
	Joined []FeatureRecord
	// Renamed are parent records as they were before a rename.
	Renamed []FeatureRecord
	// Redefined pairs a parent feature key with the redeclared node.
	Redefined []FeatureRecord
	// Precursors are the parent versions of redefined features.
	Precursors []FeatureRecord
	// Selected are the records that lost a select, rebound to the node of
	// the selected feature.
	Selected []FeatureRecord
	// Constructors are the creation procedures of the class.
	Constructors []FeatureRecord
}

// Name returns the class name.
func (t *FeatureTable) Name() string { return t.Class.Name }

// Features returns the features the class presents, own features first.
func (t *FeatureTable) Features() []FeatureRecord {
	out := make([]FeatureRecord, 0, len(t.Own)+len(t.Inherited)+len(t.Undefined))
	out = append(out, t.Own...)
	out = append(out, t.Inherited...)
	out = append(out, t.Undefined...)
	return out
}

// Lookup returns the feature called name.
func (t *FeatureTable) Lookup(name string) (FeatureRecord, bool) {
	for _, list := range [][]FeatureRecord{t.Own, t.Inherited, t.Undefined} {
		for _, r := range list {
			if r.Name == name {
				return r, true
			}
		}
	}
	return FeatureRecord{}, false
}

// CategoryOf returns the category of the presented feature called name.
func (t *FeatureTable) CategoryOf(name string) (Category, bool) {
	for _, c := range []struct {
		category Category
		list     []FeatureRecord
	}{
		{CategoryOwn, t.Own},
		{CategoryInherited, t.Inherited},
		{CategoryUndefined, t.Undefined},
	} {
		for _, r := range c.list {
			if r.Name == name {
				return c.category, true
			}
		}
	}
	return "", false
}

// Precursor returns the parent version of the redefined feature name. When
// ancestor is not empty only versions declared by that class are
// considered. Precursors of this class come before inherited ones.
func (t *FeatureTable) Precursor(name, ancestor string) (FeatureRecord, bool) {
	for _, r := range t.Precursors {
		if r.Name == name && (ancestor == "" || r.From == ancestor) {
			return r, true
		}
	}
	return FeatureRecord{}, false
}

// Deferred returns the presented features that have no implementation.
func (t *FeatureTable) Deferred() []FeatureRecord {
	var out []FeatureRecord
	for _, r := range t.Features() {
		if r.Deferred() {
			out = append(out, r)
		}
	}
	return out
}

// IsConstructor reports whether name is a creation procedure of the class.
func (t *FeatureTable) IsConstructor(name string) bool {
	for _, r := range t.Constructors {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Lists returns every non-empty list of the table keyed by category.
func (t *FeatureTable) Lists() map[Category][]FeatureRecord {
	out := make(map[Category][]FeatureRecord)
	for c, l := range map[Category][]FeatureRecord{
		CategoryOwn:         t.Own,
		CategoryInherited:   t.Inherited,
		CategoryUndefined:   t.Undefined,
		CategoryJoined:      t.Joined,
		CategoryRenamed:     t.Renamed,
		CategoryRedefined:   t.Redefined,
		CategoryPrecursor:   t.Precursors,
		CategorySelected:    t.Selected,
		CategoryConstructor: t.Constructors,
	} {
		if len(l) > 0 {
			out[c] = l
		}
	}
	return out
}
