package report

import (
	"sort"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
)

// ImportantFind is a summary entry for a page with at least one finding.
// Only non-empty fields are set.
type ImportantFind struct {
	URL          string              `yaml:"url"`
	Matches      map[string][]string `yaml:"matches,omitempty"`
	ServerHeader string              `yaml:"server_header,omitempty"`
	HTMLComments []string            `yaml:"html_comments,omitempty"`
	QueryParams  []string            `yaml:"query_params,omitempty"`
}

// Summary is the top section of the detailed report
type Summary struct {
	ImportantFinds []ImportantFind `yaml:"important_finds"`
}

// PageEntry is one page in detailed_results
type PageEntry struct {
	Matches  map[string][]string  `yaml:"matches"`
	Advanced *models.AdvancedInfo `yaml:"advanced,omitempty"`
}

// DetailedReport is the per-URL view
type DetailedReport struct {
	Summary         Summary              `yaml:"summary"`
	AllCrawledURLs  []string             `yaml:"all_crawled_urls"`
	DetailedResults map[string]PageEntry `yaml:"detailed_results"`
}

// PatternGroup is one pattern in the pattern-grouped view, with URL provenance
type PatternGroup struct {
	Pattern            string              `yaml:"pattern"`
	TotalUniqueMatches int                 `yaml:"total_unique_matches"`
	Matches            map[string][]string `yaml:"matches"` // matched string -> sorted URLs
}

// PatternReport is the pattern-grouped-with-URLs view
type PatternReport struct {
	Patterns []PatternGroup `yaml:"patterns"`
}

// PatternGroupNoURL is one pattern in the URL-less view
type PatternGroupNoURL struct {
	Pattern            string   `yaml:"pattern"`
	TotalUniqueMatches int      `yaml:"total_unique_matches"`
	Matches            []string `yaml:"matches"`
}

// PatternNoURLReport is the pattern-grouped-without-URLs view
type PatternNoURLReport struct {
	Patterns []PatternGroupNoURL `yaml:"patterns"`
}

// BuildSummary returns one entry per page that has a match or an advanced signal, sorted by URL.
// The "Unknown" server sentinel never counts as a finding.
func BuildSummary(pages map[string]*models.PageResult) []ImportantFind {
	finds := make([]ImportantFind, 0)
	for _, pageURL := range sortedKeys(pages) {
		page := pages[pageURL]
		if !page.HasFindings() {
			continue
		}
		find := ImportantFind{URL: pageURL}
		if len(page.Matches) > 0 {
			find.Matches = copyMatches(page.Matches)
		}
		if adv := page.Advanced; adv != nil {
			if adv.HasServer() {
				find.ServerHeader = adv.ServerHeader
			}
			if len(adv.HTMLComments) > 0 {
				find.HTMLComments = append([]string(nil), adv.HTMLComments...)
			}
			if len(adv.QueryParams) > 0 {
				find.QueryParams = append([]string(nil), adv.QueryParams...)
			}
		}
		finds = append(finds, find)
	}
	return finds
}

// BuildDetailed assembles the detailed report from the crawl order and the analyzed pages.
// crawled may contain pages without a result (failed fetches); they are listed but have no entry.
func BuildDetailed(crawled []string, pages map[string]*models.PageResult) DetailedReport {
	report := DetailedReport{
		Summary:         Summary{ImportantFinds: BuildSummary(pages)},
		AllCrawledURLs:  uniqueSorted(crawled),
		DetailedResults: make(map[string]PageEntry, len(pages)),
	}
	for pageURL, page := range pages {
		if page == nil {
			continue
		}
		report.DetailedResults[pageURL] = PageEntry{
			Matches:  copyMatches(page.Matches),
			Advanced: stripSentinel(page.Advanced),
		}
	}
	return report
}

// GroupByPattern inverts URL -> pattern -> matches into pattern -> match -> URLs
func GroupByPattern(pages map[string]*models.PageResult) PatternReport {
	grouped := invert(pages)
	report := PatternReport{Patterns: make([]PatternGroup, 0, len(grouped))}
	for _, pattern := range sortedKeys(grouped) {
		byMatch := grouped[pattern]
		group := PatternGroup{
			Pattern:            pattern,
			TotalUniqueMatches: len(byMatch),
			Matches:            make(map[string][]string, len(byMatch)),
		}
		for match, urls := range byMatch {
			group.Matches[match] = setToSorted(urls)
		}
		report.Patterns = append(report.Patterns, group)
	}
	return report
}

// GroupByPatternNoURL groups matches by pattern and drops URL provenance
func GroupByPatternNoURL(pages map[string]*models.PageResult) PatternNoURLReport {
	grouped := invert(pages)
	report := PatternNoURLReport{Patterns: make([]PatternGroupNoURL, 0, len(grouped))}
	for _, pattern := range sortedKeys(grouped) {
		matches := sortedKeys(grouped[pattern])
		report.Patterns = append(report.Patterns, PatternGroupNoURL{
			Pattern:            pattern,
			TotalUniqueMatches: len(matches),
			Matches:            matches,
		})
	}
	return report
}

// invert builds pattern -> matched string -> set of URLs
func invert(pages map[string]*models.PageResult) map[string]map[string]map[string]struct{} {
	grouped := make(map[string]map[string]map[string]struct{})
	for pageURL, page := range pages {
		if page == nil {
			continue
		}
		for pattern, matches := range page.Matches {
			byMatch, ok := grouped[pattern]
			if !ok {
				byMatch = make(map[string]map[string]struct{})
				grouped[pattern] = byMatch
			}
			for _, m := range matches {
				if byMatch[m] == nil {
					byMatch[m] = make(map[string]struct{})
				}
				byMatch[m][pageURL] = struct{}{}
			}
		}
	}
	// A pattern only appears in a PageResult with at least one match, but guard anyway
	for pattern, byMatch := range grouped {
		if len(byMatch) == 0 {
			delete(grouped, pattern)
		}
	}
	return grouped
}

func stripSentinel(adv *models.AdvancedInfo) *models.AdvancedInfo {
	if adv == nil {
		return nil
	}
	out := &models.AdvancedInfo{
		HTMLComments: append([]string(nil), adv.HTMLComments...),
		QueryParams:  append([]string(nil), adv.QueryParams...),
	}
	if adv.HasServer() {
		out.ServerHeader = adv.ServerHeader
	}
	return out
}

func copyMatches(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setToSorted(set map[string]struct{}) []string {
	return sortedKeys(set)
}

func uniqueSorted(in []string) []string {
	set := make(map[string]struct{}, len(in))
	for _, s := range in {
		set[s] = struct{}{}
	}
	return sortedKeys(set)
}
