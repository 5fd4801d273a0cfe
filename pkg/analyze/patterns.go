package analyze

import (
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/utils"
)

// PatternSet is a compiled, immutable set of detectors. Safe for concurrent use.
type PatternSet struct {
	sources  []string
	compiled []*regexp.Regexp
}

// CompilePatterns compiles every pattern it can. Patterns that fail to compile are
// returned as errors wrapping utils.ErrInvalidPattern and left out of the set.
func CompilePatterns(patterns []string) (*PatternSet, []error) {
	compiled, sources, errs := utils.CompileRegexPatterns(patterns)
	return &PatternSet{sources: sources, compiled: compiled}, errs
}

// Len returns the number of usable patterns.
func (ps *PatternSet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.compiled)
}

// Patterns returns the source text of the usable patterns.
func (ps *PatternSet) Patterns() []string {
	if ps == nil {
		return nil
	}
	return append([]string(nil), ps.sources...)
}

// Search runs every pattern over body. Each pattern maps to its distinct matches in
// sorted order; patterns without a match are omitted.
func (ps *PatternSet) Search(body string) map[string][]string {
	matches := make(map[string][]string)
	if ps == nil {
		return matches
	}
	for i, re := range ps.compiled {
		found := re.FindAllString(body, -1)
		if len(found) == 0 {
			continue
		}
		matches[ps.sources[i]] = uniqueSorted(found)
	}
	return matches
}

// SearchPatterns compiles patterns and searches body in one step. Invalid patterns are
// logged as warnings and skipped.
func SearchPatterns(body string, patterns []string, log *logrus.Entry) map[string][]string {
	ps, errs := CompilePatterns(patterns)
	for _, err := range errs {
		log.Warnf("Skipping pattern: %v", err)
	}
	return ps.Search(body)
}

// uniqueSorted returns the distinct values of in, sorted. Empty strings are kept: a
// pattern that can match the empty string did match.
func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// MergeMatches unions src into dst, keeping every list distinct and sorted.
func MergeMatches(dst, src map[string][]string) map[string][]string {
	if dst == nil {
		dst = make(map[string][]string, len(src))
	}
	for pattern, found := range src {
		dst[pattern] = uniqueSorted(append(append([]string(nil), dst[pattern]...), found...))
	}
	return dst
}
