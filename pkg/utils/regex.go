package utils

import (
	"regexp"
)

// CompileRegexPatterns compiles regex strings into usable *regexp.Regexp objects.
// Invalid patterns do not abort compilation: each one is reported in errs
// (wrapping ErrInvalidPattern) and left out of compiled. sources[i] is the
// pattern text compiled[i] was built from.
func CompileRegexPatterns(patterns []string) (compiled []*regexp.Regexp, sources []string, errs []error) {
	compiled = make([]*regexp.Regexp, 0, len(patterns))
	sources = make([]string, 0, len(patterns))
	for i, pattern := range patterns {
		if pattern == "" { // Skip empty patterns silently
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, WrapErrorf(ErrInvalidPattern, "pattern #%d ('%s'): %v", i+1, pattern, err))
			continue
		}
		compiled = append(compiled, re)
		sources = append(sources, pattern)
	}
	return compiled, sources, errs
}
