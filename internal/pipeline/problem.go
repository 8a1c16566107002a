package pipeline

import (
	"fmt"
	"strings"
)

// Severity classifies a validation problem.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String implements fmt.Stringer for Severity.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Problem is a single validation finding, tied to the section (and key, when
// one applies) it was found in.
type Problem struct {
	Severity Severity
	Section  string
	Key      string
	Message  string
}

// String implements fmt.Stringer for Problem.
func (p Problem) String() string {
	var sb strings.Builder
	sb.WriteString(p.Severity.String())
	sb.WriteString(": ")
	if p.Section != "" {
		fmt.Fprintf(&sb, "[%s] ", p.Section)
	}
	if p.Key != "" {
		sb.WriteString(p.Key)
		sb.WriteString(": ")
	}
	sb.WriteString(p.Message)
	return sb.String()
}

// Problems is the full set of findings for one configuration.
type Problems []Problem

// HasErrors reports whether any problem has error severity.
func (ps Problems) HasErrors() bool {
	for _, p := range ps {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of errors and warnings.
func (ps Problems) Counts() (errors, warnings int) {
	for _, p := range ps {
		if p.Severity == SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

func (ps *Problems) errorf(section, key, format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityError, Section: section, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (ps *Problems) warnf(section, key, format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityWarning, Section: section, Key: key, Message: fmt.Sprintf(format, args...)})
}
