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

// Expr is an expression node.
type Expr interface {
	Loc() *Location
	isExpr()
}

// ExprBase carries the location of an expression.
type ExprBase struct {
	Location *Location
}

func (e *ExprBase) Loc() *Location { return e.Location }

type (
	// IntegerConst is an integer literal.
	IntegerConst struct {
		ExprBase
		Value int64
	}
	// RealConst is a real literal.
	RealConst struct {
		ExprBase
		Value float64
	}
	// CharacterConst is a character literal.
	CharacterConst struct {
		ExprBase
		Value rune
	}
	// StringConst is a string literal.
	StringConst struct {
		ExprBase
		Value string
	}
	// BoolConst is True or False.
	BoolConst struct {
		ExprBase
		Value bool
	}
	// VoidConst is Void.
	VoidConst struct{ ExprBase }
	// ResultConst is Result.
	ResultConst struct{ ExprBase }
	// CurrentConst is Current.
	CurrentConst struct{ ExprBase }

	// ManifestTuple is [a, b, ...] used as a tuple.
	ManifestTuple struct {
		ExprBase
		Values []Expr
	}
	// ManifestArray is << a, b, ... >>.
	ManifestArray struct {
		ExprBase
		Values []Expr
	}

	// FeatureCall calls FeatureName on Owner (nil owner means Current).
	FeatureCall struct {
		ExprBase
		FeatureName string
		Arguments   []Expr
		Owner       Expr
	}
	// PrecursorCall is Precursor {Ancestor} (args).
	PrecursorCall struct {
		ExprBase
		Arguments []Expr
		Ancestor  string
	}
	// CreateExpr is create {T}.make (args).
	CreateExpr struct {
		ExprBase
		TypeName string
		Call     *FeatureCall
	}
	// IfExpr is the conditional expression.
	IfExpr struct {
		ExprBase
		Condition Expr
		Then      Expr
		ElseIfs   []ElseIfExpr
		Else      Expr
	}
	// ElseIfExpr is one elseif arm of an IfExpr.
	ElseIfExpr struct {
		Condition Expr
		Then      Expr
		Location  *Location
	}
	// BracketAccess is target [i, j].
	BracketAccess struct {
		ExprBase
		Target  Expr
		Indices []Expr
	}
	// BinaryOp applies a binary operator.
	BinaryOp struct {
		ExprBase
		Op    BinaryOperator
		Left  Expr
		Right Expr
	}
	// UnaryOp applies a unary operator.
	UnaryOp struct {
		ExprBase
		Op      UnaryOperator
		Operand Expr
	}
)

// BinaryOperator enumerates binary operators.
type BinaryOperator string

const (
	OpAdd     BinaryOperator = "+"
	OpSub     BinaryOperator = "-"
	OpMul     BinaryOperator = "*"
	OpDiv     BinaryOperator = "/"
	OpIntDiv  BinaryOperator = "//"
	OpMod     BinaryOperator = "\\\\"
	OpPow     BinaryOperator = "^"
	OpLt      BinaryOperator = "<"
	OpGt      BinaryOperator = ">"
	OpLe      BinaryOperator = "<="
	OpGe      BinaryOperator = ">="
	OpEq      BinaryOperator = "="
	OpNeq     BinaryOperator = "/="
	OpAnd     BinaryOperator = "and"
	OpOr      BinaryOperator = "or"
	OpXor     BinaryOperator = "xor"
	OpAndThen BinaryOperator = "and then"
	OpOrElse  BinaryOperator = "or else"
	OpImplies BinaryOperator = "implies"
)

// UnaryOperator enumerates unary operators.
type UnaryOperator string

const (
	OpMinus UnaryOperator = "-"
	OpPlus  UnaryOperator = "+"
	OpNot   UnaryOperator = "not"
)

func (*IntegerConst) isExpr()   {}
func (*RealConst) isExpr()      {}
func (*CharacterConst) isExpr() {}
func (*StringConst) isExpr()    {}
func (*BoolConst) isExpr()      {}
func (*VoidConst) isExpr()      {}
func (*ResultConst) isExpr()    {}
func (*CurrentConst) isExpr()   {}
func (*ManifestTuple) isExpr()  {}
func (*ManifestArray) isExpr()  {}
func (*FeatureCall) isExpr()    {}
func (*PrecursorCall) isExpr()  {}
func (*CreateExpr) isExpr()     {}
func (*IfExpr) isExpr()         {}
func (*BracketAccess) isExpr()  {}
func (*BinaryOp) isExpr()       {}
func (*UnaryOp) isExpr()        {}

// IsLiteral reports whether e is a manifest constant usable as the value of
// a Constant feature.
func IsLiteral(e Expr) bool {
	switch e := e.(type) {
	case *IntegerConst, *RealConst, *CharacterConst, *StringConst, *BoolConst:
		return true
	case *UnaryOp:
		return (e.Op == OpMinus || e.Op == OpPlus) && IsLiteral(e.Operand)
	default:
		return false
	}
}
