// Package imports accumulates and renders TypeScript import declarations.
// Ordering is a contract, not an accident (spec.md §4.3, §9): emitted diffs
// must be minimal, so merge and render always produce the same output for
// the same set of entries regardless of insertion order.
package imports

import "sort"

// Entry is a single imported name from a module. Equality is the full
// 4-tuple (From, Name, IsType, Alias).
type Entry struct {
	From   string // source module specifier
	Name   string // exported name being imported
	IsType bool   // true for `import type { Name }`
	Alias  string // "" when not aliased
}

// Set accumulates Entry values and renders them to import declarations.
type Set struct {
	entries []Entry
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Add appends an entry. Duplicate entries (by the full 4-tuple) collapse at
// Merge/Render time, not here, so repeated Add calls are always safe.
func (s *Set) Add(e Entry) {
	s.entries = append(s.entries, e)
}

// Entries returns the raw accumulated entries (for tests / introspection).
func (s *Set) Entries() []Entry {
	return s.entries
}

// Merge deduplicates entries on the full 4-tuple and sorts the result first
// by source module (lexicographic), then by exported name; entries that tie
// on both are ordered type-only first, then by alias. Merge is idempotent:
// Merge(Merge(x)) == Merge(x).
func Merge(entries []Entry) []Entry {
	seen := make(map[Entry]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].IsType != out[j].IsType {
			return out[i].IsType
		}
		return out[i].Alias < out[j].Alias
	})
	return out
}

// Render renders a merged entry list to import declaration text. Entries
// are grouped by source module; within a group, type-only entries render as
// one `import type { ... }` line preceding a single `import { ... }` line
// for value entries when both exist. Aliases render as "Name as Alias".
// Empty input renders to the empty string. Render is invariant under input
// permutation because it merges internally before grouping.
func Render(entries []Entry) string {
	merged := Merge(entries)
	if len(merged) == 0 {
		return ""
	}

	var order []string
	groups := make(map[string][]Entry)
	for _, e := range merged {
		if _, ok := groups[e.From]; !ok {
			order = append(order, e.From)
		}
		groups[e.From] = append(groups[e.From], e)
	}
	sort.Strings(order)

	var lines []string
	for _, from := range order {
		var typeNames, valueNames []string
		for _, e := range groups[from] {
			rendered := e.Name
			if e.Alias != "" {
				rendered = e.Name + " as " + e.Alias
			}
			if e.IsType {
				typeNames = append(typeNames, rendered)
			} else {
				valueNames = append(valueNames, rendered)
			}
		}
		if len(typeNames) > 0 {
			lines = append(lines, renderLine(true, typeNames, from))
		}
		if len(valueNames) > 0 {
			lines = append(lines, renderLine(false, valueNames, from))
		}
	}

	out := ""
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

func renderLine(isType bool, names []string, from string) string {
	kw := "import"
	if isType {
		kw = "import type"
	}
	return kw + " { " + joinComma(names) + " } from \"" + from + "\";"
}

func joinComma(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
