package view_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samedit66/eiffel-compiler/cmd/serpent/internal/view"
	"github.com/samedit66/eiffel-compiler/pkg/ast"
	"github.com/samedit66/eiffel-compiler/pkg/diag"
)

func init() {
	color.NoColor = true
}

func setupHumanLogger(level view.LogLevel) (*bytes.Buffer, view.Logger) {
	buf := &bytes.Buffer{}
	return buf, view.NewHumanView(view.NewStream(buf), level).Logger()
}

func TestHumanLogger_Levels(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelInfo)
	logger.Debug("debug message")
	logger.Info("info message")

	assert.NotContains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "info message")
}

func TestHumanLogger_Silent(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelSilent)
	logger.Error("error message")
	logger.Logr().Info("logr message")
	assert.Empty(t, buf.String())
}

func TestLogrBridge_Verbosity(t *testing.T) {
	buf, logger := setupHumanLogger(view.LogLevelDebug)
	log := logger.Logr().WithName("flattener")
	log.V(1).Info("flattened class", "class", "CIRCLE")

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "flattened class")
	assert.Contains(t, buf.String(), "CIRCLE")

	buf, logger = setupHumanLogger(view.LogLevelInfo)
	logger.Logr().V(1).Info("hidden")
	logger.Logr().Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := view.NewJSONView(view.NewStream(buf), view.LogLevelDebug).Logger()
	logger.Warn("careful", "class", "A")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "careful", entry["msg"])
	assert.Equal(t, "A", entry["class"])
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]view.ViewType{"": view.ViewHuman, "human": view.ViewHuman, "JSON": view.ViewJSON} {
		got, err := view.ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := view.ParseOutputFormat("yaml")
	assert.ErrorContains(t, err, `unknown output format "yaml"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, view.LogLevelDebug, view.ParseLogLevel("debug"))
	assert.Equal(t, view.LogLevelInfo, view.ParseLogLevel("INFO"))
	assert.Equal(t, view.LogLevelSilent, view.ParseLogLevel("verbose"))
}

func TestCheckHumanView(t *testing.T) {
	buf := &bytes.Buffer{}
	v := view.NewCheckView(view.NewHumanView(view.NewStream(buf), view.LogLevelSilent))

	d := diag.Errorf("flattener", diag.CodeAmbiguousJoin, "C", ast.At("c.yaml", 3, 1), "class C gets 2 effective versions of f").
		WithRelated(ast.At("a.yaml", 1, 1), ast.At("b.yaml", 2, 1))
	v.Render(view.CheckResult{
		FileCount:   3,
		Classes:     []string{"ANY"},
		Diagnostics: diag.List{d},
		Skipped:     []string{"D"},
	})

	assert.Equal(t, "c.yaml:3:1: error: class C gets 2 effective versions of f [ambiguous-join]\n"+
		"  note: a.yaml:1:1\n"+
		"  note: b.yaml:2:1\n"+
		"skipped: D not checked: an ancestor has errors\n"+
		"1 error, 1 class skipped\n", buf.String())
}

func TestCheckHumanView_Valid(t *testing.T) {
	buf := &bytes.Buffer{}
	v := view.NewCheckView(view.NewHumanView(view.NewStream(buf), view.LogLevelSilent))
	v.Render(view.CheckResult{FileCount: 1, Classes: []string{"ANY"}})
	assert.Equal(t, "Valid! 1 class, no errors found.\n", buf.String())
}

func TestCheckJSONView(t *testing.T) {
	buf := &bytes.Buffer{}
	v := view.NewCheckView(view.NewJSONView(view.NewStream(buf), view.LogLevelSilent))
	v.Render(view.CheckResult{
		FileCount:  1,
		FileErrors: []view.FileError{{File: "x.yaml", Message: "boom"}},
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "error", got["status"])
	assert.Equal(t, []any{}, got["classes"])
	assert.Equal(t, []any{map[string]any{"file": "x.yaml", "message": "boom"}}, got["fileErrors"])
}

func TestSignature(t *testing.T) {
	integer := ast.Named("INTEGER")
	grid := []struct {
		feature ast.Feature
		want    string
	}{
		{&ast.Field{Type: integer}, "x: INTEGER"},
		{&ast.Method{}, "x"},
		{&ast.Method{Params: []ast.Parameter{{Name: "a", Type: integer}, {Name: "b", Type: &ast.LikeCurrent{}}}}, "x (a: INTEGER; b: like Current)"},
		{&ast.ExternalMethod{Params: []ast.Parameter{{Name: "n", Type: integer}}, Return: ast.Named("REAL")}, "x (n: INTEGER): REAL"},
		{&ast.Method{Return: ast.Named(ast.VoidTypeName)}, "x"},
	}
	for _, g := range grid {
		assert.Equal(t, g.want, view.Signature("x", g.feature))
	}
}

type failingWriter struct {
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("disk full")
}

func TestStream_KeepsFirstWriteError(t *testing.T) {
	w := &failingWriter{}
	s := view.NewStream(w)
	s.Println("one")
	s.Printf("%s\n", "two")
	s.Indentf(1, "%s", "three")

	assert.EqualError(t, s.Err(), "disk full")
	assert.Equal(t, 1, w.writes)
}

func TestStream_Indentf(t *testing.T) {
	buf := &bytes.Buffer{}
	s := view.NewStream(buf)
	s.Indentf(0, "feature")
	s.Indentf(2, "-- %s", "deferred")
	assert.Equal(t, "feature\n\t\t-- deferred\n", buf.String())
	assert.NoError(t, s.Err())
}

func TestJSONView_DoesNotEscapeMarkup(t *testing.T) {
	buf := &bytes.Buffer{}
	v := view.NewViewer(view.ViewJSON, view.NewStream(buf), view.LogLevelSilent)
	assert.Equal(t, view.ViewJSON, v.Format())

	view.NewCheckView(v).Render(view.CheckResult{
		FileErrors: []view.FileError{{File: "a.yaml", Message: "return type <VOID> & more"}},
	})
	assert.Contains(t, buf.String(), `"message":"return type <VOID> & more"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestNewViewer_Human(t *testing.T) {
	v := view.NewViewer(view.ViewHuman, view.NewStream(&bytes.Buffer{}), view.LogLevelSilent)
	assert.IsType(t, &view.HumanView{}, v)
	assert.Equal(t, view.ViewHuman, v.Format())
	assert.Panics(t, func() { view.NewViewer(view.ViewType('X'), nil, view.LogLevelSilent) })
}
