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

// Package dag implements the directed acyclic graph used to order classes by
// inheritance. A vertex depends on the vertices it inherits from; a
// topological sort therefore lists ancestors before heirs.
package dag

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vertex is a node of the graph.
type Vertex[T cmp.Ordered] struct {
	// ID uniquely identifies the vertex.
	ID T
	// Order is the user-visible position of the vertex (e.g. declaration
	// index). Sorting preserves it wherever the dependencies allow.
	Order int
	// DependsOn is the set of vertices that must come before this one.
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph is a dependency graph that refuses edges creating a
// cycle.
type DirectedAcyclicGraph[T cmp.Ordered] struct {
	Vertices map[T]*Vertex[T]
}

// NewDirectedAcyclicGraph creates an empty graph.
func NewDirectedAcyclicGraph[T cmp.Ordered]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{Vertices: make(map[T]*Vertex[T])}
}

// CycleError is returned when an edge would close a cycle. Cycle lists the
// vertices along the dependency path and repeats the first one at the end.
type CycleError[T cmp.Ordered] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	return fmt.Sprintf("graph contains a cycle: %s", FormatCycle(e.Cycle))
}

// AsCycleError returns the CycleError in err's chain, or nil.
func AsCycleError[T cmp.Ordered](err error) *CycleError[T] {
	var ce *CycleError[T]
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// FormatCycle renders a cycle as "a -> b -> a".
func FormatCycle[T cmp.Ordered](cycle []T) string {
	parts := make([]string, 0, len(cycle))
	for _, v := range cycle {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, " -> ")
}

// AddVertex adds a vertex. Adding an existing ID is an error.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{ID: id, Order: order, DependsOn: make(map[T]struct{})}
	return nil
}

// AddDependencies records that from depends on every vertex of deps. All
// vertices must exist. An edge that would create a cycle is not added and a
// *CycleError is returned; edges added before it are kept.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, deps []T) error {
	v, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v not found", from)
	}
	for _, dep := range deps {
		if dep == from {
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			return fmt.Errorf("dependency %v of %v not found", dep, from)
		}
	}
	for _, dep := range deps {
		if _, exists := v.DependsOn[dep]; exists {
			continue
		}
		if path := d.path(dep, from); path != nil {
			return &CycleError[T]{Cycle: append([]T{from}, path...)}
		}
		v.DependsOn[dep] = struct{}{}
	}
	return nil
}

// path returns the dependency path from -> ... -> to, or nil.
func (d *DirectedAcyclicGraph[T]) path(from, to T) []T {
	visited := make(map[T]bool)
	var walk func(cur T) []T
	walk = func(cur T) []T {
		if cur == to {
			return []T{cur}
		}
		if visited[cur] {
			return nil
		}
		visited[cur] = true
		for _, next := range d.sortedDeps(cur) {
			if rest := walk(next); rest != nil {
				return append([]T{cur}, rest...)
			}
		}
		return nil
	}
	return walk(from)
}

func (d *DirectedAcyclicGraph[T]) sortedDeps(id T) []T {
	deps := make([]T, 0, len(d.Vertices[id].DependsOn))
	for dep := range d.Vertices[id].DependsOn {
		deps = append(deps, dep)
	}
	d.sortByOrder(deps)
	return deps
}

func (d *DirectedAcyclicGraph[T]) sortByOrder(ids []T) {
	slices.SortFunc(ids, func(a, b T) int {
		if c := cmp.Compare(d.Vertices[a].Order, d.Vertices[b].Order); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// hasCycle reports whether the graph contains a cycle, returning one.
// Edges are only ever added through AddDependencies, so this is a
// consistency check.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	const (
		white = iota
		grey
		black
	)
	color := make(map[T]int, len(d.Vertices))
	var stack []T
	var cycle []T
	var visit func(id T) bool
	visit = func(id T) bool {
		color[id] = grey
		stack = append(stack, id)
		for _, dep := range d.sortedDeps(id) {
			switch color[dep] {
			case grey:
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			case white:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}
	for _, id := range d.ids() {
		if color[id] == white && visit(id) {
			return true, cycle
		}
	}
	return false, nil
}

func (d *DirectedAcyclicGraph[T]) ids() []T {
	ids := make([]T, 0, len(d.Vertices))
	for id := range d.Vertices {
		ids = append(ids, id)
	}
	d.sortByOrder(ids)
	return ids
}

// TopologicalSortLevels groups vertices into levels: every vertex appears
// after all of its dependencies, and vertices of one level are independent
// of each other. Within a level vertices keep their Order.
func (d *DirectedAcyclicGraph[T]) TopologicalSortLevels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining := make(map[T]int, len(d.Vertices))
	dependents := make(map[T][]T, len(d.Vertices))
	for id, v := range d.Vertices {
		remaining[id] = len(v.DependsOn)
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var current []T
	for id, n := range remaining {
		if n == 0 {
			current = append(current, id)
		}
	}

	var levels [][]T
	for len(current) > 0 {
		d.sortByOrder(current)
		levels = append(levels, current)
		var next []T
		for _, id := range current {
			for _, dependent := range dependents[id] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		current = next
	}
	return levels, nil
}

// TopologicalSort returns every vertex after its dependencies, level by
// level.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	levels, err := d.TopologicalSortLevels()
	if err != nil {
		return nil, err
	}
	order := make([]T, 0, len(d.Vertices))
	for _, level := range levels {
		order = append(order, level...)
	}
	return order, nil
}

// Ancestors returns every vertex id transitively depends on, sorted by Order.
func (d *DirectedAcyclicGraph[T]) Ancestors(id T) []T {
	seen := make(map[T]bool)
	var walk func(cur T)
	walk = func(cur T) {
		for dep := range d.Vertices[cur].DependsOn {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	if _, ok := d.Vertices[id]; ok {
		walk(id)
	}
	out := make([]T, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	d.sortByOrder(out)
	return out
}
