package qualify

import (
	"fmt"
	"strings"
)

// View is the widget screen currently shown. The zero value is ViewInput.
type View int

const (
	ViewInput View = iota
	ViewAnalysis
	ViewUnlock
	ViewProcessing
	ViewSuccess
)

var viewNames = [...]string{"input", "analysis", "unlock", "processing", "success"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	if v < 0 || int(v) >= len(viewNames) {
		return nil, fmt.Errorf("qualify: invalid view %d", int(v))
	}
	return []byte(viewNames[v]), nil
}

// UnmarshalText decodes a view name.
func (v *View) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range viewNames {
		if n == name {
			*v = View(i)
			return nil
		}
	}
	return fmt.Errorf("qualify: unknown view %q", string(b))
}

// Step is the qualification sub-step shown inside ViewUnlock.
type Step int

const (
	StepSector Step = iota + 1
	StepScope
	StepContact
	StepBudget
)

func (s Step) String() string {
	switch s {
	case StepSector:
		return "sector"
	case StepScope:
		return "scope"
	case StepContact:
		return "contact"
	case StepBudget:
		return "budget"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}
