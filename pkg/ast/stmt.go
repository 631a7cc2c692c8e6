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

// Statement is an instruction of a routine body.
type Statement interface {
	Loc() *Location
	isStatement()
}

// StmtBase carries the location of a statement.
type StmtBase struct {
	Location *Location
}

func (s *StmtBase) Loc() *Location { return s.Location }

type (
	// Assignment is target := value. Target is an entity name or Result.
	Assignment struct {
		StmtBase
		Target Expr
		Value  Expr
	}
	// CreateStmt is create {T} x.make (args).
	CreateStmt struct {
		StmtBase
		TypeName string
		Target   string
		Creator  string
		Args     []Expr
	}
	// IfStmt is if/elseif/else.
	IfStmt struct {
		StmtBase
		Condition Expr
		Then      []Statement
		ElseIfs   []ElseIfBranch
		Else      []Statement
	}
	// ElseIfBranch is one elseif arm of an IfStmt.
	ElseIfBranch struct {
		Condition Expr
		Body      []Statement
		Location  *Location
	}
	// LoopStmt is from ... until ... loop ... end.
	LoopStmt struct {
		StmtBase
		Init  []Statement
		Until Expr
		Body  []Statement
	}
	// InspectStmt is the multi-branch instruction.
	InspectStmt struct {
		StmtBase
		Subject Expr
		Whens   []WhenBranch
		Else    []Statement
	}
	// WhenBranch is one when arm of an InspectStmt.
	WhenBranch struct {
		Choices  []Choice
		Body     []Statement
		Location *Location
	}
	// RoutineCall is a feature call used as an instruction.
	RoutineCall struct {
		StmtBase
		Call *FeatureCall
	}
	// PrecursorStmt is a precursor call used as an instruction.
	PrecursorStmt struct {
		StmtBase
		Call *PrecursorCall
	}
)

// Choice is a value or an interval of an inspect when-branch. Exactly one of
// Value or (Low, High) is set.
type Choice struct {
	Value Expr
	Low   Expr
	High  Expr
}

func (*Assignment) isStatement()    {}
func (*CreateStmt) isStatement()    {}
func (*IfStmt) isStatement()        {}
func (*LoopStmt) isStatement()      {}
func (*InspectStmt) isStatement()   {}
func (*RoutineCall) isStatement()   {}
func (*PrecursorStmt) isStatement() {}
