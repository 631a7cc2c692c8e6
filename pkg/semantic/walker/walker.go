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

// Package walker runs a function over every vertex of a class hierarchy DAG
// with bounded parallelism, never starting a vertex before all of the
// vertices it depends on have completed successfully.
package walker

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/samedit66/eiffel-compiler/pkg/semantic/dag"
)

// VertexFunc is executed once for each vertex of the graph.
type VertexFunc[T cmp.Ordered] func(ctx context.Context, vertexID T) error

// Options configures the walker's execution behavior.
type Options struct {
	// Parallelism sets the maximum number of concurrent workers.
	// If <= 0, defaults to runtime.NumCPU().
	Parallelism int

	// StopOnError stops the whole walk on the first failing vertex.
	// If false, vertices that do not depend on the failure keep running.
	StopOnError bool
}

// SkippedError is recorded for a vertex that never ran because one of its
// (transitive) dependencies failed.
type SkippedError[T cmp.Ordered] struct {
	Vertex  T
	Blocker T
}

func (e *SkippedError[T]) Error() string {
	return fmt.Sprintf("%v skipped: dependency %v failed", e.Vertex, e.Blocker)
}

// Walk executes fn over the DAG using a fixed worker pool. The returned map
// holds the error of every failed vertex and a *SkippedError for every vertex
// blocked by a failure.
func Walk[T cmp.Ordered](ctx context.Context, d *dag.DirectedAcyclicGraph[T], fn VertexFunc[T], opts Options) map[T]error {
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}

	// indegree counts the unfinished dependencies of each vertex; dependents
	// is the reverse edge list used to release vertices.
	indegree := make(map[T]*int32, len(d.Vertices))
	dependents := make(map[T][]T)
	for id, v := range d.Vertices {
		count := int32(len(v.DependsOn))
		indegree[id] = &count
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make(chan T, len(d.Vertices))
	remaining := int64(len(d.Vertices))
	var closeOnce sync.Once
	finish := func(n int64) {
		if atomic.AddInt64(&remaining, -n) == 0 {
			closeOnce.Do(func() { close(ready) })
		}
	}

	for id, count := range indegree {
		if *count == 0 {
			ready <- id
		}
	}
	if len(d.Vertices) == 0 {
		closeOnce.Do(func() { close(ready) })
	}

	var mu sync.Mutex
	errs := make(map[T]error)
	processed := make(map[T]bool)

	g, ctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(opts.Parallelism))

	var markSkipped func(id, blocker T)
	markSkipped = func(id, blocker T) {
		mu.Lock()
		if processed[id] {
			mu.Unlock()
			return
		}
		processed[id] = true
		errs[id] = &SkippedError[T]{Vertex: id, Blocker: blocker}
		mu.Unlock()

		for _, next := range dependents[id] {
			markSkipped(next, blocker)
		}
		finish(1)
	}

	for i := 0; i < opts.Parallelism; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case id, ok := <-ready:
					if !ok {
						return nil
					}

					if err := sem.Acquire(ctx, 1); err != nil {
						return err
					}
					err := fn(ctx, id)
					sem.Release(1)

					mu.Lock()
					processed[id] = true
					if err != nil {
						errs[id] = err
					}
					mu.Unlock()

					if err != nil {
						for _, next := range dependents[id] {
							markSkipped(next, id)
						}
						finish(1)
						if opts.StopOnError {
							return err
						}
						continue
					}

					for _, next := range dependents[id] {
						if atomic.AddInt32(indegree[next], -1) != 0 {
							continue
						}
						mu.Lock()
						skipped := processed[next]
						mu.Unlock()
						if !skipped {
							// ready has room for every vertex, so this never blocks.
							ready <- next
						}
					}
					finish(1)
				}
			}
		})
	}

	_ = g.Wait()
	return errs
}
