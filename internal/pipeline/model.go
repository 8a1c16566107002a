package pipeline

import (
	"fmt"
	"strings"

	"github.com/vk/pipeini/internal/inifile"
)

// Section names with fixed meaning in a pipeline configuration.
const (
	RuntimeSectionName  = "runtime"
	PipelineSectionName = "pipeline"
)

// Config is the typed representation of one pipeline configuration.
type Config struct {
	// Doc is the resolved document the config was built from.
	Doc *inifile.Document

	Runtime  Runtime
	Pipeline Pipeline

	// Modules holds the execution chain in order; Likelihoods the resolved
	// likelihood sections. Entries whose section is missing from the file do
	// not appear here — that miss is reported as a Problem instead.
	Modules     []*Module
	Likelihoods []*Module
}

// Runtime mirrors the [runtime] section.
type Runtime struct {
	Root    string
	Sampler string
}

// Pipeline mirrors the [pipeline] section.
type Pipeline struct {
	Modules     []string
	Likelihoods []string
	Values      string
	Priors      string
	Quiet       bool
	Timing      bool
	Debug       bool
}

// Module is one resolved pipeline stage: a section named in the modules or
// likelihoods list. File points at the external component the runner will
// invoke; every other key in the section is an opaque parameter for that
// component and is carried as-is in Params.
type Module struct {
	Name        string
	File        string
	Params      *inifile.Section
	AngleRanges []AngleRange
}

// AngleRange is one angular-range cut, parsed from a key of the form
// angle_range_<spectrum>_<i>_<j> whose value is "min max".
type AngleRange struct {
	Spectrum string
	BinI     int
	BinJ     int
	Min      float64
	Max      float64
}

func (r AngleRange) String() string {
	return fmt.Sprintf("%s (%d,%d): [%g, %g]", r.Spectrum, r.BinI, r.BinJ, r.Min, r.Max)
}

// ParseBool interprets the dialect's boolean spellings. T/F are the native
// form in these files; the usual true/false variants are accepted too.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "y", "yes":
		return true, nil
	case "f", "false", "0", "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("cannot interpret %q as a boolean (use T or F)", s)
}
