// Package inifile implements the configparser-flavored INI dialect used by
// pipeline configuration files: bracketed sections, key = value entries,
// ';'/'#' comment lines, indentation-based value continuations, and a
// [DEFAULT] section whose entries act as fallbacks for interpolation.
//
// The Document model preserves section order and key order so that a parsed
// file can be re-encoded without reshuffling. Interpolation placeholders
// (${VAR} and %(key)s) are carried through as raw text; expanding them is the
// interp package's job.
package inifile
