package loader

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// Feature kinds accepted in class files.
const (
	KindField    = "field"
	KindConstant = "constant"
	KindMethod   = "method"
	KindExternal = "external"
)

type document struct {
	Classes []classDoc `json:"classes"`
}

type classDoc struct {
	Name     string       `json:"name"`
	Deferred bool         `json:"deferred,omitempty"`
	Generics []genericDoc `json:"generics,omitempty"`
	Inherit  []parentDoc  `json:"inherit,omitempty"`
	Create   []string     `json:"create,omitempty"`
	Features []featureDoc `json:"features,omitempty"`
}

type genericDoc struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
}

type parentDoc struct {
	Name     string      `json:"name"`
	Generics []string    `json:"generics,omitempty"`
	Rename   []renameDoc `json:"rename,omitempty"`
	Undefine []string    `json:"undefine,omitempty"`
	Redefine []string    `json:"redefine,omitempty"`
	Select   []string    `json:"select,omitempty"`
}

type renameDoc struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type paramDoc struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type featureDoc struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind,omitempty"`
	Type     string     `json:"type,omitempty"`
	Value    string     `json:"value,omitempty"`
	Params   []paramDoc `json:"params,omitempty"`
	Clients  []string   `json:"clients,omitempty"`
	Deferred bool       `json:"deferred,omitempty"`
	Language string     `json:"language,omitempty"`
	Alias    string     `json:"alias,omitempty"`
}

// toAST converts the class entry c. n is the YAML node c was decoded from.
func (c classDoc) toAST(pos *positions, n *yaml.Node) (*ast.ClassDeclaration, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("class without a name")
	}
	decl := &ast.ClassDeclaration{
		Name:     c.Name,
		Deferred: c.Deferred,
		Creators: c.Create,
		Location: pos.at(n),
	}

	for i, g := range c.Generics {
		constraint, err := parseOptionalType(g.Constraint)
		if err != nil {
			return nil, fmt.Errorf("class %s: generic %s: %w", c.Name, g.Name, err)
		}
		loc := pos.at(item(field(n, "generics"), i))
		decl.Generics = append(decl.Generics, ast.GenericParam{Name: g.Name, Constraint: constraint, Location: loc})
	}

	for i, p := range c.Inherit {
		clause, err := p.toAST(pos, item(field(n, "inherit"), i))
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		decl.Parents = append(decl.Parents, clause)
	}

	for i, f := range c.Features {
		feature, err := f.toAST(pos, item(field(n, "features"), i))
		if err != nil {
			return nil, fmt.Errorf("class %s: feature %s: %w", c.Name, f.Name, err)
		}
		decl.Features = append(decl.Features, feature)
	}
	return decl, nil
}

func (p parentDoc) toAST(pos *positions, n *yaml.Node) (ast.ParentClause, error) {
	if p.Name == "" {
		return ast.ParentClause{}, fmt.Errorf("parent clause without a name")
	}
	loc := pos.at(n)
	clause := ast.ParentClause{
		Name:     p.Name,
		Undefine: p.Undefine,
		Redefine: p.Redefine,
		Select:   p.Select,
		Location: loc,
	}
	for _, g := range p.Generics {
		t, err := ParseType(g)
		if err != nil {
			return ast.ParentClause{}, fmt.Errorf("parent %s: %w", p.Name, err)
		}
		clause.Generics = append(clause.Generics, t)
	}
	for i, r := range p.Rename {
		if r.From == "" || r.To == "" {
			return ast.ParentClause{}, fmt.Errorf("parent %s: rename needs both from and to", p.Name)
		}
		rloc := pos.at(item(field(n, "rename"), i))
		clause.Rename = append(clause.Rename, ast.RenamePair{Original: r.From, Alias: r.To, Location: rloc})
	}
	return clause, nil
}

func (f featureDoc) toAST(pos *positions, n *yaml.Node) (ast.Feature, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("feature without a name")
	}
	header := ast.FeatureHeader{Name: f.Name, ExportedTo: f.Clients, Location: pos.at(n)}

	typ, err := parseOptionalType(f.Type)
	if err != nil {
		return nil, err
	}
	params := make([]ast.Parameter, 0, len(f.Params))
	for i, p := range f.Params {
		pt, err := ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params = append(params, ast.Parameter{Name: p.Name, Type: pt, Location: pos.at(item(field(n, "params"), i))})
	}

	kind := f.Kind
	if kind == "" {
		kind = KindMethod
	}
	if kind != KindMethod && f.Deferred {
		return nil, fmt.Errorf("only methods can be deferred, got %s", kind)
	}
	if (kind == KindField || kind == KindConstant) && len(params) > 0 {
		return nil, fmt.Errorf("a %s takes no parameters", kind)
	}

	switch kind {
	case KindField:
		if typ == nil {
			return nil, fmt.Errorf("field needs a type")
		}
		return &ast.Field{FeatureHeader: header, Type: typ}, nil
	case KindConstant:
		if typ == nil {
			return nil, fmt.Errorf("constant needs a type")
		}
		value, err := parseConstant(typ, f.Value, pos.at(field(n, "value")))
		if err != nil {
			return nil, err
		}
		return &ast.Constant{FeatureHeader: header, Type: typ, Value: value}, nil
	case KindMethod:
		return &ast.Method{FeatureHeader: header, Params: params, Return: typ, Deferred: f.Deferred}, nil
	case KindExternal:
		return &ast.ExternalMethod{FeatureHeader: header, Params: params, Return: typ, Language: f.Language, Alias: f.Alias}, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func parseOptionalType(s string) (ast.TypeDecl, error) {
	if s == "" {
		return nil, nil
	}
	return ParseType(s)
}

// parseConstant reads value as a manifest constant of the basic type t.
func parseConstant(t ast.TypeDecl, value string, loc *ast.Location) (ast.Expr, error) {
	base := ast.ExprBase{Location: loc}
	switch ast.TypeString(t) {
	case "INTEGER":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid INTEGER constant %q", value)
		}
		return &ast.IntegerConst{ExprBase: base, Value: v}, nil
	case "REAL":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REAL constant %q", value)
		}
		return &ast.RealConst{ExprBase: base, Value: v}, nil
	case "BOOLEAN":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid BOOLEAN constant %q", value)
		}
		return &ast.BoolConst{ExprBase: base, Value: v}, nil
	case "CHARACTER":
		r, size := utf8.DecodeRuneInString(value)
		if r == utf8.RuneError || size != len(value) {
			return nil, fmt.Errorf("invalid CHARACTER constant %q", value)
		}
		return &ast.CharacterConst{ExprBase: base, Value: r}, nil
	case "STRING":
		return &ast.StringConst{ExprBase: base, Value: value}, nil
	default:
		return nil, fmt.Errorf("constants of type %s are not supported", ast.TypeString(t))
	}
}
