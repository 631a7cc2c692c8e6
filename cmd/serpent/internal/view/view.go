package view

import (
	"encoding/json"
	"fmt"
	"io"
)

var _ Viewer = (*HumanView)(nil)
var _ Viewer = (*JSONView)(nil)

// Viewer is the output format chosen with --output. Command specific views
// (check, interface, features) are built on top of it.
type Viewer interface {
	Logger() Logger
	Format() ViewType
}

func NewViewer(vt ViewType, s *Stream, level LogLevel) Viewer {
	switch vt {
	case ViewHuman:
		return NewHumanView(s, level)
	case ViewJSON:
		return NewJSONView(s, level)
	default:
		panic(fmt.Sprintf("unknown view type %q", vt))
	}
}

// newLogger returns the logger matching the output format. Logs share the
// stream with the results so that --output=json yields JSON lines only.
func newLogger(vt ViewType, w io.Writer, level LogLevel) Logger {
	switch {
	case level == LogLevelSilent:
		return NewNopLogger()
	case vt == ViewJSON:
		return NewJSONLogger(w, level)
	default:
		return NewHumanLogger(w, level)
	}
}

type base struct {
	*Stream
	logger Logger
}

func (b *base) Logger() Logger {
	return b.logger
}

// HumanView renders coloured text for terminals.
type HumanView struct {
	base
}

func NewHumanView(s *Stream, level LogLevel) *HumanView {
	return &HumanView{base{Stream: s, logger: newLogger(ViewHuman, s, level)}}
}

func (h *HumanView) Format() ViewType { return ViewHuman }

// JSONView renders one JSON document per result.
type JSONView struct {
	base
	enc *json.Encoder
}

func NewJSONView(s *Stream, level LogLevel) *JSONView {
	enc := json.NewEncoder(s)
	// locations and types such as <input> and <VOID> are printed as is
	enc.SetEscapeHTML(false)
	return &JSONView{base: base{Stream: s, logger: newLogger(ViewJSON, s, level)}, enc: enc}
}

func (j *JSONView) Format() ViewType { return ViewJSON }

// emit writes v as one line of JSON.
func (j *JSONView) emit(v any) {
	if err := j.enc.Encode(v); err != nil {
		j.logger.Error("encode output", "error", err)
	}
}
