package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vk/pipeini/internal/inifile"
)

const angleRangePrefix = "angle_range_"

var (
	errAngleKeyShape   = errors.New("expected a key of the form angle_range_<spectrum>_<i>_<j>")
	errAngleValueShape = errors.New(`expected a value of the form "min max" with two numbers`)
)

// New builds the typed Config from a resolved document and validates it.
// The returned config is as complete as the document allows even when
// problems are found; callers decide how to treat the findings.
func New(doc *inifile.Document) (*Config, Problems) {
	cfg := &Config{Doc: doc}
	var problems Problems

	if runtime, ok := doc.Section(RuntimeSectionName); ok {
		cfg.Runtime.Root = runtime.Value("root")
		cfg.Runtime.Sampler = runtime.Value("sampler")
	}

	pipe, ok := doc.Section(PipelineSectionName)
	if !ok {
		problems.errorf(PipelineSectionName, "", "section is missing")
		return cfg, problems
	}

	cfg.Pipeline.Modules = strings.Fields(pipe.Value("modules"))
	if len(cfg.Pipeline.Modules) == 0 {
		problems.errorf(PipelineSectionName, "modules", "module list is empty")
	}
	cfg.Pipeline.Likelihoods = strings.Fields(pipe.Value("likelihoods"))

	cfg.Pipeline.Values = pipe.Value("values")
	if cfg.Pipeline.Values == "" {
		problems.errorf(PipelineSectionName, "values", "a values file must be set")
	}
	cfg.Pipeline.Priors = pipe.Value("priors")

	cfg.Pipeline.Quiet = parseBoolKey(pipe, "quiet", &problems)
	cfg.Pipeline.Timing = parseBoolKey(pipe, "timing", &problems)
	cfg.Pipeline.Debug = parseBoolKey(pipe, "debug", &problems)

	cfg.Modules = resolveModules(doc, cfg.Pipeline.Modules, "modules", &problems)
	cfg.Likelihoods = resolveModules(doc, cfg.Pipeline.Likelihoods, "likelihoods", &problems)

	checkDuplicates(cfg.Pipeline.Modules, "modules", &problems)
	checkDuplicates(cfg.Pipeline.Likelihoods, "likelihoods", &problems)
	checkSampler(doc, cfg.Runtime.Sampler, &problems)
	checkUnreferenced(doc, cfg, &problems)

	return cfg, problems
}

func parseBoolKey(section *inifile.Section, key string, problems *Problems) bool {
	raw, ok := section.Get(key)
	if !ok {
		return false
	}
	v, err := ParseBool(raw)
	if err != nil {
		problems.errorf(section.Name, key, "%v", err)
		return false
	}
	return v
}

// resolveModules maps each listed name to its section, reporting names with
// no section and sections with no usable file.
func resolveModules(doc *inifile.Document, names []string, listKey string, problems *Problems) []*Module {
	var out []*Module
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		section, ok := doc.Section(name)
		if !ok {
			problems.errorf(PipelineSectionName, listKey, "%q does not name a section in this file", name)
			continue
		}
		mod := &Module{
			Name:   name,
			File:   section.Value("file"),
			Params: section,
		}
		if mod.File == "" {
			problems.errorf(name, "file", "module section must define a non-empty 'file'")
		}
		mod.AngleRanges = parseAngleRanges(section, problems)
		out = append(out, mod)
	}
	return out
}

func parseAngleRanges(section *inifile.Section, problems *Problems) []AngleRange {
	var out []AngleRange
	for _, entry := range section.Entries() {
		if !strings.HasPrefix(entry.Key, angleRangePrefix) {
			continue
		}
		r, err := parseAngleRange(entry.Key, entry.Value)
		if err != nil {
			problems.errorf(section.Name, entry.Key, "%v", err)
			continue
		}
		if r.BinI <= 0 || r.BinJ <= 0 {
			problems.errorf(section.Name, entry.Key, "bin indices must be positive, got (%d,%d)", r.BinI, r.BinJ)
			continue
		}
		if r.Min >= r.Max {
			problems.errorf(section.Name, entry.Key, "empty angular range: min %g is not below max %g", r.Min, r.Max)
			continue
		}
		out = append(out, r)
	}
	return out
}

func parseAngleRange(key, value string) (AngleRange, error) {
	rest := strings.TrimPrefix(key, angleRangePrefix)
	parts := strings.Split(rest, "_")
	if len(parts) < 3 {
		return AngleRange{}, errAngleKeyShape
	}
	binI, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return AngleRange{}, errAngleKeyShape
	}
	binJ, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return AngleRange{}, errAngleKeyShape
	}
	r := AngleRange{
		Spectrum: strings.Join(parts[:len(parts)-2], "_"),
		BinI:     binI,
		BinJ:     binJ,
	}
	if r.Spectrum == "" {
		return AngleRange{}, errAngleKeyShape
	}

	fields := strings.Fields(value)
	if len(fields) != 2 {
		return AngleRange{}, errAngleValueShape
	}
	if r.Min, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return AngleRange{}, errAngleValueShape
	}
	if r.Max, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return AngleRange{}, errAngleValueShape
	}
	return r, nil
}

func checkDuplicates(names []string, listKey string, problems *Problems) {
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			problems.warnf(PipelineSectionName, listKey, "%q is listed more than once", name)
		}
		seen[name] = true
	}
}

func checkSampler(doc *inifile.Document, sampler string, problems *Problems) {
	if sampler == "" {
		return
	}
	if _, ok := doc.Section(sampler); !ok {
		problems.warnf(RuntimeSectionName, "sampler", "sampler %q has no [%s] section", sampler, sampler)
	}
}

// checkUnreferenced flags sections nothing points at. Disabled-module
// sections are routinely kept around in these files, so this is a warning.
func checkUnreferenced(doc *inifile.Document, cfg *Config, problems *Problems) {
	referenced := map[string]bool{
		inifile.DefaultSection: true,
		RuntimeSectionName:     true,
		PipelineSectionName:    true,
	}
	for _, name := range cfg.Pipeline.Modules {
		referenced[name] = true
	}
	for _, name := range cfg.Pipeline.Likelihoods {
		referenced[name] = true
	}
	if cfg.Runtime.Sampler != "" {
		referenced[cfg.Runtime.Sampler] = true
	}
	for _, section := range doc.Sections() {
		if !referenced[section.Name] {
			problems.warnf(section.Name, "", "section is not referenced by the pipeline")
		}
	}
}
