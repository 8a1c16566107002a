package pipeline

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PlanEntry is one stage of the execution plan: where in the chain a module
// runs and which external component it invokes.
type PlanEntry struct {
	Position int
	Name     string
	File     string
}

// Plan returns the module execution order as resolved plan entries.
func (c *Config) Plan() []PlanEntry {
	entries := make([]PlanEntry, len(c.Modules))
	for i, mod := range c.Modules {
		entries[i] = PlanEntry{Position: i + 1, Name: mod.Name, File: mod.File}
	}
	return entries
}

// FormatPlan writes the plan as an aligned table.
func FormatPlan(w io.Writer, entries []PlanEntry) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMODULE\tFILE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Position, e.Name, e.File)
	}
	return tw.Flush()
}
