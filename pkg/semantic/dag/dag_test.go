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

package dag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildHierarchy adds one vertex per class (in order) and one dependency per
// "HEIR->PARENT" edge.
func buildHierarchy(t *testing.T, classes, edges string) *DirectedAcyclicGraph[string] {
	t.Helper()
	d := NewDirectedAcyclicGraph[string]()
	for i, class := range strings.Split(classes, ",") {
		require.NoError(t, d.AddVertex(class, i))
	}
	if edges == "" {
		return d
	}
	for _, edge := range strings.Split(edges, ",") {
		tokens := strings.SplitN(edge, "->", 2)
		require.NoError(t, d.AddDependencies(tokens[0], []string{tokens[1]}), "adding edge %q", edge)
	}
	return d
}

func TestDAGAddVertex(t *testing.T) {
	d := NewDirectedAcyclicGraph[string]()

	require.NoError(t, d.AddVertex("ANY", 0))
	assert.Error(t, d.AddVertex("ANY", 1), "duplicate vertex must be rejected")
	assert.Len(t, d.Vertices, 1)
	assert.Equal(t, 0, d.Vertices["ANY"].Order)
}

func TestDAGAddDependencies(t *testing.T) {
	d := NewDirectedAcyclicGraph[string]()
	require.NoError(t, d.AddVertex("ANY", 0))
	require.NoError(t, d.AddVertex("POINT", 1))

	require.NoError(t, d.AddDependencies("POINT", []string{"ANY"}))
	require.NoError(t, d.AddDependencies("POINT", []string{"ANY"}), "re-adding an edge is a no-op")

	assert.Error(t, d.AddDependencies("POINT", []string{"SHAPE"}), "unknown dependency")
	assert.Error(t, d.AddDependencies("SHAPE", []string{"ANY"}), "unknown vertex")
	assert.Error(t, d.AddDependencies("POINT", []string{"POINT"}), "self dependency")
}

func TestDAGCycleChain(t *testing.T) {
	d := buildHierarchy(t, "A,B,C", "A->B,B->C")

	err := d.AddDependencies("C", []string{"A"})
	require.Error(t, err)

	ce := AsCycleError[string](err)
	require.NotNil(t, ce, "expected *CycleError, got %T", err)
	assert.Equal(t, []string{"C", "A", "B", "C"}, ce.Cycle)
	assert.Contains(t, err.Error(), "C -> A -> B -> C")

	// the rejected edge must not be recorded
	_, found := d.Vertices["C"].DependsOn["A"]
	assert.False(t, found)

	order, err := d.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestDAGHasCycle(t *testing.T) {
	d := buildHierarchy(t, "A,B,C", "A->B,B->C")

	cyclic, _ := d.hasCycle()
	assert.False(t, cyclic)

	// AddDependencies refuses cycles, so emulate one directly.
	d.Vertices["C"].DependsOn["A"] = struct{}{}
	cyclic, cycle := d.hasCycle()
	require.True(t, cyclic)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.ElementsMatch(t, []string{"A", "B", "C"}, cycle[:len(cycle)-1])

	_, err := d.TopologicalSort()
	require.Error(t, err)
	assert.NotNil(t, AsCycleError[string](err), "unexpected error type %T", err)
}

func TestDAGTopologicalSort(t *testing.T) {
	grid := []struct {
		Classes string
		Edges   string
		Want    string
	}{
		{Classes: "A,B", Want: "A,B"},
		{Classes: "A,B", Edges: "B->A", Want: "A,B"},
		{Classes: "A,B", Edges: "A->B", Want: "B,A"},
		{Classes: "ANY,POINT,SHAPE,CIRCLE", Edges: "POINT->ANY,SHAPE->ANY,CIRCLE->SHAPE,CIRCLE->POINT", Want: "ANY,POINT,SHAPE,CIRCLE"},
		{Classes: "CIRCLE,SHAPE,POINT,ANY", Edges: "POINT->ANY,SHAPE->ANY,CIRCLE->SHAPE,CIRCLE->POINT", Want: "ANY,SHAPE,POINT,CIRCLE"},
		{Classes: "A,B,C,D,E,F", Edges: "A->F,B->F,A->B", Want: "C,D,E,F,B,A"},
	}

	for i, g := range grid {
		t.Run(fmt.Sprintf("[%d] classes=%s,edges=%s", i, g.Classes, g.Edges), func(t *testing.T) {
			d := buildHierarchy(t, g.Classes, g.Edges)

			order, err := d.TopologicalSort()
			require.NoError(t, err)
			assert.Equal(t, g.Want, strings.Join(order, ","))

			pos := make(map[string]int)
			for i, class := range order {
				pos[class] = i
			}
			for _, class := range order {
				for parent := range d.Vertices[class].DependsOn {
					assert.Less(t, pos[parent], pos[class], "parent %s must precede %s", parent, class)
				}
			}
		})
	}
}

func TestDAGTopologicalSortLevels(t *testing.T) {
	grid := []struct {
		Name    string
		Classes string
		Edges   string
		Levels  [][]string
	}{
		{
			Name:    "single inheritance chain",
			Classes: "ANY,A,B",
			Edges:   "A->ANY,B->A",
			Levels:  [][]string{{"ANY"}, {"A"}, {"B"}},
		},
		{
			Name:    "diamond",
			Classes: "D,B,C,A",
			Edges:   "B->D,C->D,A->B,A->C",
			Levels:  [][]string{{"D"}, {"B", "C"}, {"A"}},
		},
		{
			Name:    "unrelated classes",
			Classes: "X,Y,Z",
			Levels:  [][]string{{"X", "Y", "Z"}},
		},
		{
			Name:    "declaration order preserved within level",
			Classes: "Z,Y,X,W,V,ROOT",
			Edges:   "Z->ROOT,Y->ROOT,X->ROOT",
			Levels:  [][]string{{"W", "V", "ROOT"}, {"Z", "Y", "X"}},
		},
	}

	for _, g := range grid {
		t.Run(g.Name, func(t *testing.T) {
			d := buildHierarchy(t, g.Classes, g.Edges)

			levels, err := d.TopologicalSortLevels()
			require.NoError(t, err)
			assert.Equal(t, g.Levels, levels)

			for levelIdx, level := range levels {
				for _, class := range level {
					for _, other := range level {
						_, dep := d.Vertices[class].DependsOn[other]
						assert.False(t, dep, "level %d: %s depends on %s", levelIdx, class, other)
					}
				}
			}
		})
	}
}

func TestDAGAncestors(t *testing.T) {
	d := buildHierarchy(t, "ANY,D,B,C,A", "D->ANY,B->D,C->D,A->B,A->C")

	assert.Equal(t, []string{"ANY", "D", "B", "C"}, d.Ancestors("A"))
	assert.Equal(t, []string{"ANY"}, d.Ancestors("D"))
	assert.Empty(t, d.Ancestors("ANY"))
	assert.Empty(t, d.Ancestors("MISSING"))
}
