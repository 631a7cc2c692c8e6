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

// Package semantic resolves inheritance for a system of class declarations
// and flattens every class into a FeatureTable.
//
// The Analyzer runs a two-stage pipeline:
//
//	Validate -> Flatten
//
//   - Validate: checks the whole declaration forest (duplicate classes,
//     unknown parents, duplicate parents, circular inheritance) and builds the
//     class hierarchy DAG. Any error stops the pipeline before flattening.
//
//   - Flatten: for every class, parents first, adapts each parent's feature
//     table through its inherit clause (rename -> undefine -> redefine), then
//     applies select across parents, merges the results with the class's own
//     features and checks completeness and creation procedures.
//
// Stage contract:
//   - Declarations are never mutated; adaptation works on copies.
//   - A parent's FeatureTable is computed once per Analyze call and shared by
//     all of its heirs (see FlattenMemo in pkg/features).
//
// Error model:
//
//   - Rule violations are reported as diag.Diagnostic values collected in
//     Result.Diagnostics. A class with at least one diagnostic has no table.
//   - A class whose parent failed is listed in Result.Skipped and produces no
//     further diagnostics of its own.
//   - Analyze itself only returns an error for cancellation or internal
//     failures.
package semantic
