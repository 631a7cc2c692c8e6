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
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

// origin tells the merge which table list a winning candidate goes to.
type origin int

const (
	originOwn origin = iota
	originParent
	originUndefine
)

type candidate struct {
	FeatureRecord
	origin origin
}

func indexOf(features []candidate, name string) int {
	for i, c := range features {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func candidateNames(features []candidate) sets.Set[string] {
	return sets.New(lo.Map(features, func(c candidate, _ int) string { return c.Name })...)
}

// adaptParent applies one inherit clause to the presented features of its
// parent: rename, then undefine, then redefine.
func (f *flattening) adaptParent(clause *ast.ParentClause, parent *FeatureTable) []candidate {
	features := lo.Map(parent.Features(), func(r FeatureRecord, _ int) candidate {
		return candidate{FeatureRecord: r, origin: originParent}
	})

	features = f.rename(clause, features)
	features = f.undefine(clause, features)
	features = f.redefine(clause, features)

	f.inheritedRenamed = append(f.inheritedRenamed, parent.Renamed...)
	f.inheritedRedefined = append(f.inheritedRedefined, parent.Redefined...)
	f.inheritedPrecursors = append(f.inheritedPrecursors, parent.Precursors...)
	f.inheritedSelected = append(f.inheritedSelected, parent.Selected...)
	return features
}

func (f *flattening) rename(clause *ast.ParentClause, features []candidate) []candidate {
	if len(clause.Rename) == 0 {
		return features
	}

	available := candidateNames(features)
	originals, aliases := sets.New[string](), sets.New[string]()
	valid := make(map[string]string, len(clause.Rename))
	for _, pair := range clause.Rename {
		loc := pair.Location
		if loc == nil {
			loc = f.clauseLocation(clause)
		}

		ok := true
		if originals.Has(pair.Original) {
			f.errorf(diag.CodeDuplicateInClause, loc, "feature %s is renamed more than once in the inherit clause for %s", pair.Original, clause.Name)
			ok = false
		}
		if aliases.Has(pair.Alias) {
			f.errorf(diag.CodeDuplicateInClause, loc, "alias %s is used more than once in the inherit clause for %s", pair.Alias, clause.Name)
			ok = false
		}
		originals.Insert(pair.Original)
		aliases.Insert(pair.Alias)

		if !available.Has(pair.Original) {
			f.errorf(diag.CodeNonexistentFeature, loc, "cannot rename %s: class %s has no such feature", pair.Original, clause.Name)
			ok = false
		}
		if own, declared := f.ownIndex[pair.Alias]; declared {
			f.errorf(diag.CodeNameCollision, loc, "cannot rename %s.%s to %s: class %s already declares %s",
				clause.Name, pair.Original, pair.Alias, f.class.Name, pair.Alias).WithRelated(own.Location())
			ok = false
		}
		if ok {
			valid[pair.Original] = pair.Alias
		}
	}

	out := make([]candidate, 0, len(features))
	for _, c := range features {
		alias, ok := valid[c.Name]
		if !ok {
			out = append(out, c)
			continue
		}
		f.renamed = append(f.renamed, c.FeatureRecord)
		out = append(out, candidate{
			FeatureRecord: FeatureRecord{From: c.From, Name: alias, Node: c.Node.WithName(alias)},
			origin:        c.origin,
		})
	}
	return out
}

func (f *flattening) undefine(clause *ast.ParentClause, features []candidate) []candidate {
	if len(clause.Undefine) == 0 {
		return features
	}

	loc := f.clauseLocation(clause)
	seen := sets.New[string]()
	placeholders := make(map[string]ast.Feature, len(clause.Undefine))
	for _, name := range clause.Undefine {
		if seen.Has(name) {
			f.errorf(diag.CodeDuplicateInClause, loc, "feature %s is listed more than once in the undefine clause for %s", name, clause.Name)
			continue
		}
		seen.Insert(name)

		idx := indexOf(features, name)
		if idx < 0 {
			f.errorf(diag.CodeNonexistentFeature, loc, "cannot undefine %s: class %s has no such feature", name, clause.Name)
			continue
		}
		if own, declared := f.ownIndex[name]; declared {
			f.errorf(diag.CodeNameCollision, loc, "cannot undefine %s: class %s declares it, list it under redefine instead",
				name, f.class.Name).WithRelated(own.Location())
			continue
		}
		node := features[idx].Node
		if ast.IsDeferred(node) {
			f.errorf(diag.CodeUndefineDeferred, loc, "cannot undefine %s: it is already deferred in %s", name, clause.Name).
				WithRelated(node.Loc())
			continue
		}
		deferred, ok := ast.Deferred(node)
		if !ok {
			f.errorf(diag.CodeAdaptConstant, loc, "cannot undefine constant %s of %s", name, clause.Name).
				WithRelated(node.Loc())
			continue
		}
		placeholders[name] = deferred
	}

	for i, c := range features {
		if node, ok := placeholders[c.Name]; ok {
			features[i] = candidate{
				FeatureRecord: FeatureRecord{From: c.From, Name: c.Name, Node: node},
				origin:        originUndefine,
			}
		}
	}
	return features
}

func (f *flattening) redefine(clause *ast.ParentClause, features []candidate) []candidate {
	if len(clause.Redefine) == 0 {
		return features
	}

	loc := f.clauseLocation(clause)
	seen := sets.New[string]()
	valid := sets.New[string]()
	for _, name := range clause.Redefine {
		if seen.Has(name) {
			f.errorf(diag.CodeDuplicateInClause, loc, "feature %s is listed more than once in the redefine clause for %s", name, clause.Name)
			continue
		}
		seen.Insert(name)

		idx := indexOf(features, name)
		if idx < 0 {
			f.errorf(diag.CodeNonexistentFeature, loc, "cannot redefine %s: class %s has no such feature", name, clause.Name)
			continue
		}
		if _, declared := f.ownIndex[name]; !declared {
			f.errorf(diag.CodeNotRedeclared, loc, "feature %s is listed under redefine but class %s does not declare it", name, f.class.Name)
			continue
		}
		node := features[idx].Node
		if node.Kind() == ast.FeatureKindConstant {
			f.errorf(diag.CodeAdaptConstant, loc, "cannot redefine constant %s of %s", name, clause.Name).
				WithRelated(node.Loc())
			continue
		}
		if ast.IsDeferred(node) {
			f.errorf(diag.CodeRedefineDeferred, loc, "cannot redefine %s: it is deferred in %s, declaring it is enough to make it effective",
				name, clause.Name).WithRelated(node.Loc())
			continue
		}
		valid.Insert(name)
	}

	out := make([]candidate, 0, len(features))
	for _, c := range features {
		if !valid.Has(c.Name) {
			out = append(out, c)
			continue
		}
		f.precursors = append(f.precursors, c.FeatureRecord)
		f.redefined = append(f.redefined, FeatureRecord{From: c.From, Name: c.Name, Node: f.ownIndex[c.Name].Node})
	}
	return out
}

// selectAcross applies the select clauses of every parent. adapted holds the
// adapted features of each parent, in inherit-list order.
func (f *flattening) selectAcross(adapted [][]candidate) [][]candidate {
	type choice struct {
		parent int
		name   string
	}

	var choices []choice
	claimed := make(map[string]int)
	for i := range f.class.Parents {
		clause := &f.class.Parents[i]
		loc := f.clauseLocation(clause)
		seen := sets.New[string]()
		for _, name := range clause.Select {
			if seen.Has(name) {
				f.errorf(diag.CodeDuplicateInClause, loc, "feature %s is listed more than once in the select clause for %s", name, clause.Name)
				continue
			}
			seen.Insert(name)

			if j, taken := claimed[name]; taken {
				f.errorf(diag.CodeDuplicateInClause, loc, "feature %s is selected from both %s and %s", name, f.class.Parents[j].Name, clause.Name).
					WithRelated(f.clauseLocation(&f.class.Parents[j]))
				continue
			}
			claimed[name] = i

			if own, declared := f.ownIndex[name]; declared {
				f.errorf(diag.CodeNameCollision, loc, "cannot select %s from %s: class %s declares it", name, clause.Name, f.class.Name).
					WithRelated(own.Location())
				continue
			}
			if indexOf(adapted[i], name) < 0 {
				f.errorf(diag.CodeNonexistentFeature, loc, "cannot select %s: class %s has no such feature", name, clause.Name)
				continue
			}
			competing := lo.Filter(lo.Range(len(adapted)), func(j int, _ int) bool {
				return j != i && indexOf(adapted[j], name) >= 0
			})
			if len(competing) == 0 {
				f.errorf(diag.CodeUnambiguousSelect, loc, "feature %s only comes from %s, select is not needed", name, clause.Name)
				continue
			}
			choices = append(choices, choice{parent: i, name: name})
		}
	}

	for _, ch := range choices {
		winner := adapted[ch.parent][indexOf(adapted[ch.parent], ch.name)]
		for j := range adapted {
			if j == ch.parent {
				continue
			}
			adapted[j] = lo.Filter(adapted[j], func(c candidate, _ int) bool {
				if c.Name != ch.name || (c.Key() == winner.Key() && c.Deferred() == winner.Deferred()) {
					return true
				}
				f.selected = append(f.selected, FeatureRecord{From: c.From, Name: c.Name, Node: winner.Node})
				return false
			})
		}
	}
	return adapted
}
