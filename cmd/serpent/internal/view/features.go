package view

import (
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"github.com/samedit66/eiffel-compiler/pkg/query"
)

type FeaturesView interface {
	Render(rows []query.Row)
}

type featuresHumanView struct {
	*HumanView
}

func (v *featuresHumanView) Render(rows []query.Row) {
	if len(rows) == 0 {
		v.Println("No features matched.")
		return
	}

	headerFmt := color.New(color.FgGreen, color.Bold).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("Class", "Feature", "Origin", "Category", "Kind", "Type", "Deferred")
	tbl.WithWriter(v.Writer).WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	for _, r := range rows {
		typ := r.ReturnType
		if len(r.Params) > 0 {
			typ = "(" + strings.Join(r.Params, ", ") + ")" + prefixed(": ", typ)
		}
		tbl.AddRow(r.Class, r.Name, r.Origin, string(r.Category), r.Kind, typ, strconv.FormatBool(r.Deferred))
	}
	tbl.Print()
}

func prefixed(prefix, s string) string {
	if s == "" {
		return ""
	}
	return prefix + s
}

type featuresJSONView struct {
	*JSONView
}

type featureJSONRow struct {
	Class      string   `json:"class"`
	Name       string   `json:"name"`
	Origin     string   `json:"origin"`
	Category   string   `json:"category"`
	Kind       string   `json:"kind"`
	ReturnType string   `json:"returnType,omitempty"`
	Params     []string `json:"params,omitempty"`
	Clients    []string `json:"clients,omitempty"`
	Deferred   bool     `json:"deferred"`
	Creator    bool     `json:"creator"`
}

func (v *featuresJSONView) Render(rows []query.Row) {
	out := make([]featureJSONRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, featureJSONRow{
			Class:      r.Class,
			Name:       r.Name,
			Origin:     r.Origin,
			Category:   string(r.Category),
			Kind:       r.Kind,
			ReturnType: r.ReturnType,
			Params:     r.Params,
			Clients:    r.Clients,
			Deferred:   r.Deferred,
			Creator:    r.Creator,
		})
	}
	v.emit(struct {
		Type     string           `json:"type"`
		Features []featureJSONRow `json:"features"`
	}{Type: "features", Features: out})
}

func NewFeaturesView(v Viewer) FeaturesView {
	switch vt := v.(type) {
	case *HumanView:
		return &featuresHumanView{HumanView: vt}
	case *JSONView:
		return &featuresJSONView{JSONView: vt}
	default:
		panic("unknown view type")
	}
}
