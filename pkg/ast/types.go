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

import "strings"

// VoidTypeName is the class type name standing for "no value". A nil
// TypeDecl means the same thing.
const VoidTypeName = "<VOID>"

// TypeDecl is a type as written in a declaration.
type TypeDecl interface {
	// String renders the type the way it is written in source.
	String() string
	isType()
}

// ClassType names a class, optionally with generic actuals.
type ClassType struct {
	Name     string
	Generics []TypeDecl
	Location *Location
}

// TupleType is TUPLE [T1, T2, ...].
type TupleType struct {
	Generics []TypeDecl
	Location *Location
}

// LikeCurrent is the anchored type "like Current".
type LikeCurrent struct {
	Location *Location
}

// LikeFeature is the anchored type "like feature_name".
type LikeFeature struct {
	FeatureName string
	Location    *Location
}

func (*ClassType) isType()   {}
func (*TupleType) isType()   {}
func (*LikeCurrent) isType() {}
func (*LikeFeature) isType() {}

func (t *ClassType) String() string {
	if len(t.Generics) == 0 {
		return t.Name
	}
	return t.Name + " [" + joinTypes(t.Generics) + "]"
}

func (t *TupleType) String() string {
	if len(t.Generics) == 0 {
		return "TUPLE"
	}
	return "TUPLE [" + joinTypes(t.Generics) + "]"
}

func (*LikeCurrent) String() string { return "like Current" }

func (t *LikeFeature) String() string { return "like " + t.FeatureName }

func joinTypes(ts []TypeDecl) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, TypeString(t))
	}
	return strings.Join(parts, ", ")
}

// Named is a shorthand for a non-generic ClassType.
func Named(name string) *ClassType { return &ClassType{Name: name} }

// IsVoid reports whether t denotes the void type.
func IsVoid(t TypeDecl) bool {
	if t == nil {
		return true
	}
	ct, ok := t.(*ClassType)
	return ok && ct.Name == VoidTypeName
}

// TypeString renders t, using an empty string for void.
func TypeString(t TypeDecl) string {
	if IsVoid(t) {
		return ""
	}
	return t.String()
}
