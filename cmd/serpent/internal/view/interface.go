package view

import (
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/semantic"
)

// InterfaceView renders the flat-short form of a class: every feature the
// class presents, grouped by the class that declared it.
type InterfaceView interface {
	Render(table *semantic.FeatureTable)
}

// Signature renders the client-visible header of a feature:
//
//	name (a: T; b: U): R
func Signature(name string, f ast.Feature) string {
	var b strings.Builder
	b.WriteString(name)
	if params := ast.Parameters(f); len(params) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(lo.Map(params, func(p ast.Parameter, _ int) string {
			return p.Name + ": " + ast.TypeString(p.Type)
		}), "; "))
		b.WriteString(")")
	}
	if t := ast.TypeString(ast.ValueType(f)); t != "" {
		b.WriteString(": ")
		b.WriteString(t)
	}
	return b.String()
}

// featureGroup is one "feature" block of the interface.
type featureGroup struct {
	Origin   string
	Clients  []string
	Features []semantic.FeatureRecord
}

func groupFeatures(table *semantic.FeatureTable) []featureGroup {
	var groups []featureGroup
	for _, r := range table.Features() {
		clients := r.Node.Clients()
		idx := -1
		for i, g := range groups {
			if g.Origin == r.From && slices.Equal(g.Clients, clients) {
				idx = i
				break
			}
		}
		if idx < 0 {
			groups = append(groups, featureGroup{Origin: r.From, Clients: clients})
			idx = len(groups) - 1
		}
		groups[idx].Features = append(groups[idx].Features, r)
	}
	return groups
}

func classHeader(c *ast.ClassDeclaration) string {
	var b strings.Builder
	if c.Deferred {
		b.WriteString("deferred ")
	}
	b.WriteString("class ")
	b.WriteString(c.Name)
	if len(c.Generics) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(lo.Map(c.Generics, func(g ast.GenericParam, _ int) string {
			if g.Constraint == nil {
				return g.Name
			}
			return g.Name + " -> " + ast.TypeString(g.Constraint)
		}), ", "))
		b.WriteString("]")
	}
	return b.String()
}

type interfaceHumanView struct {
	*HumanView
}

var (
	keyword = color.New(color.Bold).SprintFunc()
	comment = color.New(color.Faint).SprintFunc()
)

func (v *interfaceHumanView) Render(table *semantic.FeatureTable) {
	class := table.Class
	v.Println(keyword(classHeader(class)))

	if parents := class.ParentNames(); len(parents) > 0 {
		v.Println()
		v.Println(keyword("inherit"))
		for _, p := range parents {
			v.Indentf(1, "%s", p)
		}
	}

	if len(table.Constructors) > 0 {
		v.Println()
		v.Println(keyword("create"))
		v.Indentf(1, "%s", strings.Join(lo.Map(table.Constructors, func(r semantic.FeatureRecord, _ int) string { return r.Name }), ", "))
	}

	for _, g := range groupFeatures(table) {
		v.Println()
		head := keyword("feature")
		if len(g.Clients) > 0 {
			head += " {" + strings.Join(g.Clients, ", ") + "}"
		}
		if g.Origin != class.Name {
			head += " " + comment("-- from "+g.Origin)
		}
		v.Println(head)

		for _, r := range g.Features {
			v.Indentf(1, "%s", Signature(r.Name, r.Node))
			if notes := featureNotes(table, r); len(notes) > 0 {
				v.Indentf(2, "%s", comment("-- "+strings.Join(notes, ", ")))
			}
		}
	}

	v.Println()
	v.Println(keyword("end"))
}

func featureNotes(table *semantic.FeatureTable, r semantic.FeatureRecord) []string {
	var notes []string
	if r.Deferred() {
		notes = append(notes, "deferred")
	}
	if c, _ := table.CategoryOf(r.Name); c == semantic.CategoryUndefined {
		notes = append(notes, "undefined")
	}
	if _, ok := table.Precursor(r.Name, ""); ok && r.From == table.Name() {
		notes = append(notes, "redefined")
	}
	if r.Node.Kind() == ast.FeatureKindExternal {
		notes = append(notes, "external")
	}
	return notes
}

type interfaceJSONView struct {
	*JSONView
}

type interfaceJSONFeature struct {
	Name      string            `json:"name"`
	Origin    string            `json:"origin"`
	Category  semantic.Category `json:"category"`
	Kind      string            `json:"kind"`
	Signature string            `json:"signature"`
	Clients   []string          `json:"clients,omitempty"`
	Notes     []string          `json:"notes,omitempty"`
}

type interfaceJSONResult struct {
	Type     string                 `json:"type"`
	Class    string                 `json:"class"`
	Deferred bool                   `json:"deferred"`
	Parents  []string               `json:"parents"`
	Creators []string               `json:"creators"`
	Features []interfaceJSONFeature `json:"features"`
}

func (v *interfaceJSONView) Render(table *semantic.FeatureTable) {
	out := interfaceJSONResult{
		Type:     "interface",
		Class:    table.Name(),
		Deferred: table.Class.Deferred,
		Parents:  table.Class.ParentNames(),
		Creators: lo.Map(table.Constructors, func(r semantic.FeatureRecord, _ int) string { return r.Name }),
		Features: []interfaceJSONFeature{},
	}
	for _, r := range table.Features() {
		category, _ := table.CategoryOf(r.Name)
		out.Features = append(out.Features, interfaceJSONFeature{
			Name:      r.Name,
			Origin:    r.From,
			Category:  category,
			Kind:      r.Node.Kind().String(),
			Signature: Signature(r.Name, r.Node),
			Clients:   r.Node.Clients(),
			Notes:     featureNotes(table, r),
		})
	}
	v.emit(out)
}

func NewInterfaceView(v Viewer) InterfaceView {
	switch vt := v.(type) {
	case *HumanView:
		return &interfaceHumanView{HumanView: vt}
	case *JSONView:
		return &interfaceJSONView{JSONView: vt}
	default:
		panic("unknown view type")
	}
}
