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
	"errors"
	"fmt"

	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

// Stages reported in diag.Diagnostic.Stage.
const (
	StageValidator = "validator"
	StageFlattener = "flattener"
)

// FlattenError reports that a class has no feature table because its own
// declaration broke one or more inheritance rules.
type FlattenError struct {
	Class       string
	Diagnostics diag.List
}

func (e *FlattenError) Error() string {
	return fmt.Sprintf("flatten %s: %d problem(s)", e.Class, len(e.Diagnostics))
}
func (e *FlattenError) Unwrap() error { return e.Diagnostics }

// BlockedError reports that a class was not flattened because one of its
// parents failed.
type BlockedError struct {
	Class  string
	Parent string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("flatten %s: parent %s failed", e.Class, e.Parent)
}

// IsBlocked reports whether err (or any error in its chain) is a BlockedError.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// DiagnosticsOf returns the diagnostics carried by a FlattenError in err's
// chain.
func DiagnosticsOf(err error) diag.List {
	var fe *FlattenError
	if errors.As(err, &fe) {
		return fe.Diagnostics
	}
	return nil
}
