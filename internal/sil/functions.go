package sil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var (
	endMarkerRe   = regexp.MustCompile(`\} // end sil function '([^'\n]+)'`)
	functionRefRe = regexp.MustCompile(`function_ref @([^\s:,]+)`)
)

// ListFunctions returns the names of all functions in dump, in dump order.
// Names come from the end-of-function trailers, so a function is listed once
// even if it is mentioned elsewhere.
func ListFunctions(dump string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range endMarkerRe.FindAllStringSubmatch(dump, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// FunctionRefs returns the distinct targets of function_ref instructions in fragment, in order.
func FunctionRefs(fragment string) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, m := range functionRefRe.FindAllStringSubmatch(fragment, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		refs = append(refs, m[1])
	}
	return refs
}

// IsGlob reports whether a function selector contains glob metacharacters.
func IsGlob(selector string) bool {
	return strings.ContainsAny(selector, "*?[{")
}

// SelectFunctions resolves selectors against the functions available in a dump.
//
// Literal selectors are returned unchanged even if they are not available, so
// that extraction reports them individually. Glob selectors expand to every
// matching available function in dump order. Duplicates are dropped, keeping
// the first occurrence.
func SelectFunctions(selectors []string, available []string) ([]string, error) {
	seen := make(map[string]bool)
	var selected []string
	add := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		selected = append(selected, name)
	}

	for _, selector := range selectors {
		if !IsGlob(selector) {
			add(selector)
			continue
		}

		g, err := glob.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("invalid function pattern %q: %w", selector, err)
		}
		for _, name := range available {
			if g.Match(name) {
				add(name)
			}
		}
	}

	return selected, nil
}

// MatchFunctions filters names to those matching the glob pattern, keeping order.
// The result is never nil.
func MatchFunctions(pattern string, names []string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid match pattern %q: %w", pattern, err)
	}

	matched := make([]string, 0, len(names))
	for _, name := range names {
		if g.Match(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}
