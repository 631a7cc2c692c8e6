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

// Package ast holds the declaration tree consumed by the semantic front end.
//
// The tree is a pure value model: classes, inheritance clauses, features,
// type declarations, expressions and statements. Nodes carry an optional
// source Location and no behavior beyond small accessors. Once built (and
// once ApplyDefaults has run) a ClassDeclaration is treated as immutable by
// every later stage.
package ast
