package transfer

import (
	"path/filepath"
	"regexp"

	"github.com/peak/s5xfer/strutil"
)

// Filter decides which paths take part in a run. Local paths and remote keys
// are matched the same way: the whole slash separated path must match a
// wildcard pattern, where '*' also matches '/'.
type Filter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewFilter compiles the include and exclude patterns. Empty patterns are
// ignored.
func NewFilter(include, exclude []string) (*Filter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}
	return &Filter{include: inc, exclude: exc}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	var result []*regexp.Regexp
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(
			strutil.AddNewLineFlag(strutil.MatchFromStartToEnd(strutil.WildCardToRegexp(filepath.ToSlash(pattern)))),
		)
		if err != nil {
			return nil, err
		}
		result = append(result, re)
	}
	return result, nil
}

// Excluded reports whether p matches an exclude pattern.
func (f *Filter) Excluded(p string) bool {
	return matchAny(f.exclude, filepath.ToSlash(p))
}

// Included reports whether p passes the include list. An empty include list
// includes everything.
func (f *Filter) Included(p string) bool {
	if len(f.include) == 0 {
		return true
	}
	return matchAny(f.include, filepath.ToSlash(p))
}

// Match reports whether p takes part in the run. Exclusion wins over
// inclusion.
func (f *Filter) Match(p string) bool {
	return f.Included(p) && !f.Excluded(p)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
