// Package synonym compiles raw synonym rules into immutable lookup
// tables and assembles them with a source and a reload scheduler into
// a hot-reloading dictionary.
//
// Rules use the Solr synonym format:
//
//	# comment lines and blank lines are skipped
//	ipod, i-pod, i pod          equivalence group
//	personal computer => pc     explicit mapping
//	a\,b, c                     backslash escapes the separator
//
// An equivalence group maps every term to the whole group when Expand
// is on, and to the group's first term when it is off. An explicit
// mapping maps every left-hand term to the right-hand terms.
package synonym

import "strings"

// Table is an immutable compiled synonym lookup
// A Table is never mutated after compilation; reloads publish a new one
type Table struct {
	entries       map[string][]string
	ruleCount     int
	caseSensitive bool
}

// EmptyTable returns a table with no entries
func EmptyTable() *Table {
	return &Table{entries: make(map[string][]string)}
}

// Lookup returns the synonyms for term
// The returned slice is shared and MUST be treated as read-only
func (t *Table) Lookup(term string) ([]string, bool) {
	if !t.caseSensitive {
		term = strings.ToLower(term)
	}
	syns, ok := t.entries[term]
	return syns, ok
}

// Len returns the number of distinct terms in the table
func (t *Table) Len() int {
	return len(t.entries)
}

// RuleCount returns the number of source rules compiled into the table
func (t *Table) RuleCount() int {
	return t.ruleCount
}
