package view

import (
	"fmt"
	"strings"
)

type ViewType rune

const (
	ViewNone  ViewType = 0
	ViewHuman ViewType = 'H'
	ViewJSON  ViewType = 'J'
)

func (vt ViewType) String() string {
	switch vt {
	case ViewNone:
		return "none"
	case ViewHuman:
		return "human"
	case ViewJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseOutputFormat maps the value of the --output flag to a ViewType. An
// empty value selects the human view.
func ParseOutputFormat(s string) (ViewType, error) {
	switch strings.ToLower(s) {
	case "", "human", "text":
		return ViewHuman, nil
	case "json":
		return ViewJSON, nil
	default:
		return ViewNone, fmt.Errorf("unknown output format %q, expected one of: human, json", s)
	}
}
