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

// Package diag defines the structured diagnostics produced by the semantic
// front end.
//
// Diagnostics are plain values: a severity, a stable code, the stage and
// class that produced them, a message and optional source locations. They
// never contain terminal escape sequences; rendering is left to the caller.
package diag

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns a human-readable string for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Code identifies the rule a diagnostic reports.
type Code string

// Graph-structure codes.
const (
	CodeDuplicateClass      Code = "duplicate-class"
	CodeUnknownParent       Code = "unknown-parent"
	CodeDuplicateParent     Code = "duplicate-parent"
	CodeCircularInheritance Code = "circular-inheritance"
)

// Clause-validity codes.
const (
	CodeDuplicateFeature   Code = "duplicate-feature"
	CodeDuplicateInClause  Code = "duplicate-in-clause"
	CodeNonexistentFeature Code = "nonexistent-feature"
	CodeNameCollision      Code = "name-collision"
	CodeAdaptConstant      Code = "adapt-constant"
	CodeRedefineDeferred   Code = "redefine-deferred"
	CodeUndefineDeferred   Code = "undefine-deferred"
	CodeNotRedeclared      Code = "not-redeclared"
	CodeUnambiguousSelect  Code = "unambiguous-select"
)

// Merge codes.
const (
	CodeAmbiguousJoin            Code = "ambiguous-join"
	CodeIncompleteClass          Code = "incomplete-class"
	CodeInvalidCreationProcedure Code = "invalid-creation-procedure"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity        `json:"severity"`
	Code     Code            `json:"code"`
	Stage    string          `json:"stage"`
	Class    string          `json:"class,omitempty"`
	Message  string          `json:"message"`
	Location *ast.Location   `json:"location,omitempty"`
	Related  []*ast.Location `json:"related,omitempty"`
}

// Errorf builds an error-severity diagnostic.
func Errorf(stage string, code Code, class string, loc *ast.Location, format string, a ...any) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Stage:    stage,
		Class:    class,
		Message:  fmt.Sprintf(format, a...),
		Location: loc,
	}
}

// WithRelated attaches further locations, e.g. every colliding declaration.
func (d *Diagnostic) WithRelated(locs ...*ast.Location) *Diagnostic {
	for _, l := range locs {
		if l != nil {
			d.Related = append(d.Related, l)
		}
	}
	return d
}

func (d *Diagnostic) Error() string {
	var b strings.Builder
	if d.Location != nil {
		b.WriteString(d.Location.String())
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s: %s", d.Severity, d.Message)
	return b.String()
}

// List is an ordered collection of diagnostics. A non-empty List is an error.
type List []*Diagnostic

// Add appends diagnostics, skipping nils.
func (l *List) Add(ds ...*Diagnostic) {
	for _, d := range ds {
		if d != nil {
			*l = append(*l, d)
		}
	}
}

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	return slices.ContainsFunc(l, func(d *Diagnostic) bool { return d.Severity == SeverityError })
}

// ForClass returns the diagnostics reported against class.
func (l List) ForClass(class string) List {
	var out List
	for _, d := range l {
		if d.Class == class {
			out = append(out, d)
		}
	}
	return out
}

// Codes returns the code of every diagnostic, in order.
func (l List) Codes() []Code {
	codes := make([]Code, 0, len(l))
	for _, d := range l {
		codes = append(codes, d.Code)
	}
	return codes
}

// Err returns l as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, d := range l {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual diagnostics to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, 0, len(l))
	for _, d := range l {
		errs = append(errs, d)
	}
	return errs
}

// IsCode reports whether err (or any error in its tree) is a diagnostic
// with the given code.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var d *Diagnostic
	if errors.As(err, &d) && d.Code == code {
		return true
	}
	var l List
	if errors.As(err, &l) {
		return slices.ContainsFunc(l, func(d *Diagnostic) bool { return d.Code == code })
	}
	return false
}
