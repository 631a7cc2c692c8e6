package loader

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// ParseType reads a type written the way the language spells it:
//
//	INTEGER
//	HASH_TABLE [STRING, LIST [INTEGER]]
//	TUPLE [INTEGER, like Current]
//	like item
func ParseType(s string) (ast.TypeDecl, error) {
	p := &typeParser{tokens: tokenizeType(s)}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", s, err)
	}
	if !p.done() {
		return nil, fmt.Errorf("type %q: unexpected %q", s, p.peek())
	}
	return t, nil
}

func tokenizeType(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '[' || r == ']' || r == ',':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

type typeParser struct {
	tokens []string
	pos    int
}

func (p *typeParser) done() bool { return p.pos >= len(p.tokens) }

func (p *typeParser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *typeParser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *typeParser) parse() (ast.TypeDecl, error) {
	name := p.next()
	switch {
	case name == "":
		return nil, fmt.Errorf("missing type name")
	case name == "[" || name == "]" || name == ",":
		return nil, fmt.Errorf("unexpected %q", name)
	case strings.EqualFold(name, "like"):
		anchor := p.next()
		if anchor == "" || anchor == "[" || anchor == "]" || anchor == "," {
			return nil, fmt.Errorf("like needs an anchor")
		}
		if strings.EqualFold(anchor, "Current") {
			return &ast.LikeCurrent{}, nil
		}
		return &ast.LikeFeature{FeatureName: anchor}, nil
	}

	var generics []ast.TypeDecl
	if p.peek() == "[" {
		p.next()
		for {
			g, err := p.parse()
			if err != nil {
				return nil, err
			}
			generics = append(generics, g)
			sep := p.next()
			if sep == "]" {
				break
			}
			if sep != "," {
				return nil, fmt.Errorf("expected , or ] after %s", ast.TypeString(g))
			}
		}
	}

	if strings.EqualFold(name, "TUPLE") {
		return &ast.TupleType{Generics: generics}, nil
	}
	return &ast.ClassType{Name: name, Generics: generics}, nil
}
