// Package interp expands the two placeholder forms carried in pipeline
// configuration values: ${VAR} environment references and %(key)s references
// to other keys in the same section or in [DEFAULT]. Expansion is strict —
// an unresolved reference is an error, never a silent empty substitution.
package interp

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vk/pipeini/internal/inifile"
)

// Env is the environment mapping used to resolve ${VAR} references.
type Env map[string]string

// OSEnv captures the current process environment.
func OSEnv() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// MissingVarError reports a ${VAR} reference to an unset environment variable.
type MissingVarError struct {
	Var     string
	Section string
	Key     string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("section [%s], key %q: environment variable %q is not set", e.Section, e.Key, e.Var)
}

// MissingKeyError reports a %(key)s reference that matches no key in the
// local section or in [DEFAULT].
type MissingKeyError struct {
	Ref     string
	Section string
	Key     string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("section [%s], key %q: %%(%s)s matches no key in [%s] or [%s]",
		e.Section, e.Key, e.Ref, e.Section, inifile.DefaultSection)
}

// CycleError reports a %(key)s reference chain that loops back on itself.
type CycleError struct {
	Section string
	Chain   []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("section [%s]: interpolation cycle: %s", e.Section, strings.Join(e.Chain, " -> "))
}

// SyntaxError reports a malformed placeholder in a value.
type SyntaxError struct {
	Section string
	Key     string
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("section [%s], key %q: %s", e.Section, e.Key, e.Msg)
}

// Interpolate returns a copy of doc with every value fully expanded. The
// input document is not modified. All problems across the whole document are
// collected and returned as one joined error.
func Interpolate(doc *inifile.Document, env Env) (*inifile.Document, error) {
	out := doc.Clone()
	r := &resolver{
		doc:    doc,
		env:    env,
		memo:   make(map[string]string),
		active: make(map[string]bool),
	}

	var errs []error
	seen := make(map[string]bool)
	for _, section := range doc.Sections() {
		outSection, _ := out.Section(section.Name)
		for _, entry := range section.Entries() {
			resolved, err := r.resolve(section, entry.Key)
			if err != nil {
				// The same cycle surfaces once per participating key; report
				// each distinct problem once.
				if !seen[err.Error()] {
					seen[err.Error()] = true
					errs = append(errs, err)
				}
				continue
			}
			outSection.Set(entry.Key, resolved)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

type resolver struct {
	doc    *inifile.Document
	env    Env
	memo   map[string]string
	active map[string]bool
	stack  []string
}

// lookup finds the raw value for key as seen from section: the section's own
// entry first, then the [DEFAULT] fallback.
func (r *resolver) lookup(section *inifile.Section, key string) (string, bool) {
	if v, ok := section.Get(key); ok {
		return v, true
	}
	if section.Name != inifile.DefaultSection {
		if defaults := r.doc.Defaults(); defaults != nil {
			return defaults.Get(key)
		}
	}
	return "", false
}

// resolve expands the value of key as seen from section, memoizing results
// and detecting reference cycles.
func (r *resolver) resolve(section *inifile.Section, key string) (string, error) {
	key = inifile.FoldKey(key)
	id := section.Name + "\x00" + key

	if v, ok := r.memo[id]; ok {
		return v, nil
	}
	if r.active[id] {
		chain := append(append([]string{}, r.stack...), key)
		return "", &CycleError{Section: section.Name, Chain: chain}
	}

	raw, ok := r.lookup(section, key)
	if !ok {
		return "", &MissingKeyError{Ref: key, Section: section.Name, Key: key}
	}

	r.active[id] = true
	r.stack = append(r.stack, key)
	defer func() {
		delete(r.active, id)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	expanded, err := r.expand(section, key, raw)
	if err != nil {
		return "", err
	}
	r.memo[id] = expanded
	return expanded, nil
}

// expand performs one pass over value, substituting ${VAR} from the
// environment and %(key)s via resolve. Environment values are inserted
// literally; key references are expanded recursively. '%%' is a literal
// percent.
func (r *resolver) expand(section *inifile.Section, key, value string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(value); {
		c := value[i]
		switch {
		case c == '$' && i+1 < len(value) && value[i+1] == '{':
			end := strings.IndexByte(value[i+2:], '}')
			if end < 0 {
				return "", &SyntaxError{Section: section.Name, Key: key, Msg: "unterminated ${...} reference"}
			}
			name := value[i+2 : i+2+end]
			v, ok := r.env[name]
			if !ok {
				return "", &MissingVarError{Var: name, Section: section.Name, Key: key}
			}
			sb.WriteString(v)
			i += 2 + end + 1
		case c == '%':
			if i+1 >= len(value) {
				return "", &SyntaxError{Section: section.Name, Key: key, Msg: "'%' at end of value"}
			}
			switch value[i+1] {
			case '%':
				sb.WriteByte('%')
				i += 2
			case '(':
				end := strings.IndexByte(value[i+2:], ')')
				if end < 0 {
					return "", &SyntaxError{Section: section.Name, Key: key, Msg: "unterminated %(...)s reference"}
				}
				ref := inifile.FoldKey(value[i+2 : i+2+end])
				rest := i + 2 + end + 1
				if rest >= len(value) || value[rest] != 's' {
					return "", &SyntaxError{Section: section.Name, Key: key, Msg: "%(...) reference must end with 's'"}
				}
				resolved, err := r.resolve(section, ref)
				if err != nil {
					var missing *MissingKeyError
					if errors.As(err, &missing) && missing.Ref == ref {
						// Attribute the miss to the referencing entry.
						return "", &MissingKeyError{Ref: ref, Section: section.Name, Key: key}
					}
					return "", err
				}
				sb.WriteString(resolved)
				i = rest + 1
			default:
				return "", &SyntaxError{Section: section.Name, Key: key,
					Msg: fmt.Sprintf("invalid '%%' escape %q (use '%%%%' for a literal percent)", value[i:i+2])}
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), nil
}
