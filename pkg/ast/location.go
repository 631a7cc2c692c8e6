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

import "fmt"

// Location pinpoints a node in its source file. Lines and columns are
// 1-based; File may be empty for synthesized nodes.
type Location struct {
	File        string `json:"file,omitempty"`
	FirstLine   int    `json:"firstLine"`
	FirstColumn int    `json:"firstColumn"`
	LastLine    int    `json:"lastLine"`
	LastColumn  int    `json:"lastColumn"`
}

// At returns a single-point location.
func At(file string, line, column int) *Location {
	return &Location{File: file, FirstLine: line, FirstColumn: column, LastLine: line, LastColumn: column}
}

// String renders the location as file:line:column.
func (l *Location) String() string {
	if l == nil {
		return "<unknown>"
	}
	file := l.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, l.FirstLine, l.FirstColumn)
}
