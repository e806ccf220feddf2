package registry

import (
	"fmt"
	"strings"
)

// Target selects which definitions to process
type Target string

const (
	TargetAll      Target = "all"
	TargetObserver Target = "observer"
	TargetQTS      Target = "qts"
)

// Targets lists the accepted values in help order
var Targets = []Target{TargetAll, TargetObserver, TargetQTS}

// ParseTarget validates a --target value
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid target %q (expected one of: all, observer, qts)", s)
}

// tag is the substring an output filename must contain to match the target
func (t Target) tag() string {
	switch t {
	case TargetObserver:
		return "obs"
	case TargetQTS:
		return "qts"
	default:
		return ""
	}
}

// Filter keeps the definitions selected by target, in registry order
func Filter(defs []Definition, target Target) []Definition {
	tag := target.tag()
	if tag == "" {
		return defs
	}

	var selected []Definition
	for _, d := range defs {
		if strings.Contains(d.Output, tag) {
			selected = append(selected, d)
		}
	}
	return selected
}

// Find returns the definition whose output filename is output
func Find(defs []Definition, output string) (Definition, bool) {
	for _, d := range defs {
		if d.Output == output {
			return d, true
		}
	}
	return Definition{}, false
}
