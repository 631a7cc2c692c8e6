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

	"github.com/stretchr/testify/require"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/features"
	"github.com/samedit66/eiffel-compiler/pkg/testutil/generator"
)

var (
	loc       = generator.Loc
	procedure = generator.Procedure
	function  = generator.Function
	deferred  = generator.Deferred
	field     = generator.Field
	constant  = generator.Constant
	external  = generator.External
	param     = generator.Param

	class      = generator.NewClass
	isDeferred = generator.IsDeferred
	feats      = generator.WithFeatures
	creators   = generator.WithCreators
	inherit    = generator.WithParent
	rename     = generator.Rename
	undefine   = generator.Undefine
	redefine   = generator.Redefine
	selects    = generator.Select
	anyClass   = generator.Root
	system     = generator.System
)

type clauseOption = generator.ParentOption

func newTestAnalyzer(t *testing.T, gates string, opts ...Option) *Analyzer {
	t.Helper()
	gate := features.FeatureGate.DeepCopy()
	if gates != "" {
		require.NoError(t, gate.Set(gates))
	}
	return NewAnalyzer(append([]Option{WithFeatureGate(gate)}, opts...)...)
}

func analyze(t *testing.T, classes ...*ast.ClassDeclaration) *Result {
	t.Helper()
	res, err := newTestAnalyzer(t, "").Analyze(context.Background(), system(classes...))
	require.NoError(t, err)
	return res
}

// mustTable analyzes classes and returns the table of name, failing the test
// on any diagnostic.
func mustTable(t *testing.T, name string, classes ...*ast.ClassDeclaration) *FeatureTable {
	t.Helper()
	res := analyze(t, classes...)
	require.Empty(t, res.Diagnostics, "unexpected diagnostics:\n%v", res.Diagnostics)
	require.Empty(t, res.Skipped)
	table := res.Table(name)
	require.NotNil(t, table, "no table for %s", name)
	return table
}

func names(records []FeatureRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func keys(records []FeatureRecord) []FeatureKey {
	out := make([]FeatureKey, 0, len(records))
	for _, r := range records {
		out = append(out, r.Key())
	}
	return out
}

