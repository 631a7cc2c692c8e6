package view

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gobuffalo/flect"

	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

type CheckView interface {
	Render(result CheckResult)
}

type CheckResult struct {
	FileCount   int
	FileErrors  []FileError
	Classes     []string
	Diagnostics diag.List
	Skipped     []string
}

// FileError is a class file that could not be decoded.
type FileError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

func (r CheckResult) HasErrors() bool {
	return len(r.FileErrors) > 0 || len(r.Diagnostics) > 0 || len(r.Skipped) > 0
}

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	noteLabel  = color.New(color.FgCyan).SprintFunc()
	okLabel    = color.RGB(50, 108, 229).SprintFunc()
	codeLabel  = color.New(color.Faint).SprintFunc()
)

type checkHumanView struct {
	*HumanView
}

func (v *checkHumanView) Render(result CheckResult) {
	for _, e := range result.FileErrors {
		v.Println(errorLabel("Error!"), e.File+":", e.Message)
	}

	for _, d := range result.Diagnostics {
		v.Printf("%s: %s %s %s\n", d.Location, errorLabel(d.Severity.String()+":"), d.Message, codeLabel("["+string(d.Code)+"]"))
		for _, loc := range d.Related {
			v.Printf("  %s %s\n", noteLabel("note:"), loc)
		}
	}

	for _, class := range result.Skipped {
		v.Printf("%s %s not checked: an ancestor has errors\n", noteLabel("skipped:"), class)
	}

	if !result.HasErrors() {
		v.Println(okLabel("Valid!"), fmt.Sprintf("%d %s, no errors found.", len(result.Classes), pluralize("class", len(result.Classes))))
		return
	}

	problems := len(result.FileErrors) + len(result.Diagnostics)
	v.Printf("%d %s", problems, pluralize("error", problems))
	if n := len(result.Skipped); n > 0 {
		v.Printf(", %d %s skipped", n, pluralize("class", n))
	}
	v.Println()
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return flect.Pluralize(word)
}

type checkJSONView struct {
	*JSONView
}

type checkJSONResult struct {
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Files       int         `json:"files"`
	Classes     []string    `json:"classes"`
	FileErrors  []FileError `json:"fileErrors,omitempty"`
	Diagnostics diag.List   `json:"diagnostics,omitempty"`
	Skipped     []string    `json:"skipped,omitempty"`
}

func (v *checkJSONView) Render(result CheckResult) {
	out := checkJSONResult{
		Type:        "check",
		Status:      "success",
		Timestamp:   time.Now(),
		Files:       result.FileCount,
		Classes:     result.Classes,
		FileErrors:  result.FileErrors,
		Diagnostics: result.Diagnostics,
		Skipped:     result.Skipped,
	}
	if out.Classes == nil {
		out.Classes = []string{}
	}
	if result.HasErrors() {
		out.Status = "error"
	}
	v.emit(out)
}

func NewCheckView(v Viewer) CheckView {
	switch vt := v.(type) {
	case *HumanView:
		return &checkHumanView{HumanView: vt}
	case *JSONView:
		return &checkJSONView{JSONView: vt}
	default:
		panic("unknown view type")
	}
}
