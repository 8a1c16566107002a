// Package pipeline provides the typed view over a resolved configuration
// document: the [runtime] and [pipeline] sections, the ordered module chain
// with per-module parameters and angular-range cuts, and the structural
// validation rules (every listed module/likelihood must name a section that
// defines a file, and so on). Validation collects every problem it finds
// rather than stopping at the first.
package pipeline
