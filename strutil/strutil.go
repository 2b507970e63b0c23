package strutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var humanDivisors = [...]struct {
	suffix string
	div    int64
}{
	{"K", 1 << 10},
	{"M", 1 << 20},
	{"G", 1 << 30},
	{"T", 1 << 40},
}

// HumanizeBytes takes a byte-size and returns a human-readable string
func HumanizeBytes(b int64) string {
	var (
		suffix string
		div    int64
	)
	for _, f := range humanDivisors {
		if b > f.div {
			suffix = f.suffix
			div = f.div
		}
	}
	if suffix == "" {
		return strconv.FormatInt(b, 10)
	}

	return fmt.Sprintf("%.1f%s", float64(b)/float64(div), suffix)
}

// JSON is a helper function for creating JSON-encoded strings.
func JSON(v interface{}) string {
	bytes, _ := json.Marshal(v)
	return string(bytes)
}

// SplitList splits a comma separated input into its trimmed, non-empty
// elements.
func SplitList(s string) []string {
	var result []string
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		result = append(result, field)
	}
	return result
}

// HasWildcard reports whether s contains a glob meta character.
func HasWildcard(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// WildCardToRegexp converts a wildcard expression to a regular expression.
// '*' matches any run of characters, including the path separator, and '?'
// matches a single character. Everything else is matched literally.
func WildCardToRegexp(pattern string) string {
	var result strings.Builder
	var literal strings.Builder

	flush := func() {
		result.WriteString(regexp.QuoteMeta(literal.String()))
		literal.Reset()
	}

	for _, r := range pattern {
		switch r {
		case '*':
			flush()
			result.WriteString(".*")
		case '?':
			flush()
			result.WriteString(".")
		default:
			literal.WriteRune(r)
		}
	}
	flush()
	return result.String()
}

// MatchFromStartToEnd anchors the given regular expression at both ends.
func MatchFromStartToEnd(str string) string {
	return "^" + str + "$"
}

// AddNewLineFlag lets '.' match new line characters too.
func AddNewLineFlag(str string) string {
	return "(?s)" + str
}
