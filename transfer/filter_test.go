package transfer

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name    string
		include []string
		exclude []string
		path    string
		want    bool
	}{
		{
			name: "no_patterns_match_everything",
			path: "dist/app.js",
			want: true,
		},
		{
			name:    "include_matches_full_path",
			include: []string{"dist/*.js"},
			path:    "dist/app.js",
			want:    true,
		},
		{
			name:    "include_is_anchored",
			include: []string{"app.js"},
			path:    "dist/app.js",
			want:    false,
		},
		{
			name:    "star_crosses_directories",
			include: []string{"*.js"},
			path:    "dist/chunks/vendor.js",
			want:    true,
		},
		{
			name:    "not_included",
			include: []string{"*.css"},
			path:    "dist/app.js",
			want:    false,
		},
		{
			name:    "excluded",
			exclude: []string{"*.tmp"},
			path:    "archive/2024/x.tmp",
			want:    false,
		},
		{
			name:    "exclude_wins_over_include",
			include: []string{"archive/*"},
			exclude: []string{"*.tmp"},
			path:    "archive/x.tmp",
			want:    false,
		},
		{
			name:    "any_include_is_enough",
			include: []string{"*.css", "*.js"},
			path:    "app.js",
			want:    true,
		},
		{
			name:    "empty_patterns_are_ignored",
			include: []string{""},
			exclude: []string{""},
			path:    "app.js",
			want:    true,
		},
		{
			name:    "question_mark",
			include: []string{"logs/day-?.log"},
			path:    "logs/day-7.log",
			want:    true,
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filter, err := NewFilter(tc.include, tc.exclude)
			assert.NilError(t, err)
			assert.Equal(t, filter.Match(tc.path), tc.want)
		})
	}
}
