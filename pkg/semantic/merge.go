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
	"strings"

	"github.com/gobuffalo/flect"
	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

type arrival struct {
	key      FeatureKey
	deferred bool
}

// merge reconciles own features and adapted parent features by name and
// fills Own, Inherited, Undefined and Joined.
func (f *flattening) merge(sources []candidate) {
	// The same unchanged feature reaching the class through several paths
	// of a diamond is one feature.
	seen := make(map[arrival]bool, len(sources))
	groups := make(map[string][]candidate)
	var names []string
	for _, c := range sources {
		a := arrival{key: c.Key(), deferred: c.Deferred()}
		if seen[a] {
			continue
		}
		seen[a] = true
		if _, ok := groups[c.Name]; !ok {
			names = append(names, c.Name)
		}
		groups[c.Name] = append(groups[c.Name], c)
	}

	for _, name := range names {
		group := groups[name]
		effective, deferred := lo.FilterReject(group, func(c candidate, _ int) bool { return !c.Deferred() })

		var winner candidate
		switch {
		case len(effective) == 1:
			winner = effective[0]
		case len(effective) == 0:
			winner, deferred = deferred[0], deferred[1:]
		default:
			f.reportAmbiguousJoin(name, effective)
			continue
		}

		for _, d := range deferred {
			f.table.Joined = append(f.table.Joined, FeatureRecord{From: d.From, Name: d.Name, Node: winner.Node})
		}
		switch winner.origin {
		case originOwn:
			f.table.Own = append(f.table.Own, winner.FeatureRecord)
		case originUndefine:
			f.table.Undefined = append(f.table.Undefined, winner.FeatureRecord)
		default:
			f.table.Inherited = append(f.table.Inherited, winner.FeatureRecord)
		}
	}
}

func (f *flattening) reportAmbiguousJoin(name string, effective []candidate) {
	sources := lo.Map(effective, func(c candidate, _ int) string {
		if c.origin == originOwn {
			return f.class.Name
		}
		return c.From
	})
	locs := lo.Map(effective, func(c candidate, _ int) *ast.Location { return c.Location() })

	hint := "select one version or rename the others"
	if lo.ContainsBy(effective, func(c candidate) bool { return c.origin == originOwn }) {
		hint = "list it under redefine to replace the inherited version"
	}
	f.errorf(diag.CodeAmbiguousJoin, f.class.Location, "class %s gets %d effective versions of %s (from %s); %s",
		f.class.Name, len(effective), name, strings.Join(sources, ", "), hint).WithRelated(locs...)
}

// checkComplete rejects leftover deferred features in an effective class.
func (f *flattening) checkComplete() {
	if f.class.Deferred {
		return
	}
	deferred := f.table.Deferred()
	if len(deferred) == 0 {
		return
	}

	word := "feature"
	if len(deferred) > 1 {
		word = flect.Pluralize(word)
	}
	names := lo.Map(deferred, func(r FeatureRecord, _ int) string { return r.Name })
	f.errorf(diag.CodeIncompleteClass, f.class.Location, "class %s is not deferred but has %d deferred %s: %s",
		f.class.Name, len(deferred), word, strings.Join(names, ", ")).
		WithRelated(lo.Map(deferred, func(r FeatureRecord, _ int) *ast.Location { return r.Location() })...)
}

// checkCreators validates the creation list and fills Constructors.
// Explicit creators must be declared by the class itself. The implicit
// default creator may be inherited.
func (f *flattening) checkCreators() {
	seen := sets.New[string]()
	for _, name := range f.class.Creators {
		if seen.Has(name) {
			f.errorf(diag.CodeInvalidCreationProcedure, f.class.Location, "creation procedure %s is listed more than once", name)
			continue
		}
		seen.Insert(name)

		rec, ok := f.creator(name)
		if !ok {
			continue
		}
		if err := creatorShape(rec.Node); err != "" {
			f.errorf(diag.CodeInvalidCreationProcedure, f.class.Location, "creation procedure %s of class %s %s", name, f.class.Name, err).
				WithRelated(rec.Location())
			continue
		}
		f.table.Constructors = append(f.table.Constructors, rec)
	}
}

func (f *flattening) creator(name string) (FeatureRecord, bool) {
	if own, ok := f.ownIndex[name]; ok {
		return own, true
	}
	if f.class.ImplicitCreators {
		for _, list := range [][]FeatureRecord{f.table.Inherited, f.table.Undefined} {
			if rec, found := lo.Find(list, func(r FeatureRecord) bool { return r.Name == name }); found {
				return rec, true
			}
		}
		f.errorf(diag.CodeInvalidCreationProcedure, f.class.Location, "default creation procedure %s is not available in class %s", name, f.class.Name)
		return FeatureRecord{}, false
	}
	if _, inherited := lo.Find(f.table.Inherited, func(r FeatureRecord) bool { return r.Name == name }); inherited {
		f.errorf(diag.CodeInvalidCreationProcedure, f.class.Location, "creation procedure %s is inherited; class %s must declare it", name, f.class.Name)
		return FeatureRecord{}, false
	}
	f.errorf(diag.CodeInvalidCreationProcedure, f.class.Location, "creation procedure %s is not declared in class %s", name, f.class.Name)
	return FeatureRecord{}, false
}

// creatorShape returns why node cannot be a creation procedure, or "".
func creatorShape(node ast.Feature) string {
	if !ast.IsRoutine(node) {
		return fmt.Sprintf("is a %s, not a procedure", node.Kind())
	}
	if rt := ast.ValueType(node); !ast.IsVoid(rt) {
		return fmt.Sprintf("is a function returning %s", ast.TypeString(rt))
	}
	if ast.IsDeferred(node) {
		return "is deferred"
	}
	return ""
}
