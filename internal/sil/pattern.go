package sil

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/maypok86/otter"
)

// ErrFunctionNotFound indicates that no region for the requested function exists in the dump.
var ErrFunctionNotFound = errors.New("sil function not found")

// patternCacheSize bounds the number of compiled function patterns kept around.
// Watch and MCP modes extract the same handful of names over and over.
const patternCacheSize = 1024

var compiledPatterns = func() otter.Cache[string, *regexp.Regexp] {
	cache, err := otter.MustBuilder[string, *regexp.Regexp](patternCacheSize).Build()
	if err != nil {
		panic(fmt.Sprintf("sil: failed to build pattern cache: %v", err))
	}
	return cache
}()

// EndMarker returns the trailer the compiler prints after a function body.
func EndMarker(name string) string {
	return fmt.Sprintf("// end sil function '%s'", name)
}

// FunctionPattern returns the compiled pattern locating the SIL region of a function.
//
// The region starts at a line beginning with "sil" that mentions name before an
// opening brace on the same line, and runs to the first following
// "} // end sil function '<name>'". All quantifiers are lazy, so the leftmost,
// shortest region wins. The match is textual: a declaration line that merely
// contains name as a substring can start the region.
func FunctionPattern(name string) *regexp.Regexp {
	if re, ok := compiledPatterns.Get(name); ok {
		return re
	}

	quoted := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?m)^sil.*?` + quoted + `.*?\{(?s:.*?)\} ` + regexp.QuoteMeta(EndMarker(name)))
	compiledPatterns.Set(name, re)
	return re
}

// FindFunction returns the first region of dump matching FunctionPattern(name), verbatim.
func FindFunction(dump, name string) (string, error) {
	loc := FunctionPattern(name).FindStringIndex(dump)
	if loc == nil {
		return "", fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return dump[loc[0]:loc[1]], nil
}
