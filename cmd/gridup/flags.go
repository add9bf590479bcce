package main

import (
	"strings"

	"github.com/pdxmph/gridup/pkg/resolution"
)

// selectionFlag is a custom flag type for comma-separated resolutions
type selectionFlag struct {
	sel resolution.Selection
	set bool
}

func (s *selectionFlag) String() string {
	return s.sel.String()
}

func (s *selectionFlag) Set(value string) error {
	sel, err := resolution.ParseSelection(strings.Split(value, ","))
	if err != nil {
		return err
	}
	s.sel = sel
	s.set = true
	return nil
}

func (s *selectionFlag) Type() string {
	return "resolutions"
}

// resolve returns the flag's selection, or every group when unset
func (s *selectionFlag) resolve(groups []resolution.Group) resolution.Selection {
	if !s.set {
		return resolution.SelectAll(groups)
	}
	return s.sel
}
