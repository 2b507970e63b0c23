package command

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestEnumValue(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name      string
		enum      EnumValue
		set       string
		want      string
		wantError bool
	}{
		{
			name: "default_when_unset",
			enum: EnumValue{Enum: []string{"info", "error"}, Default: "info"},
			want: "info",
		},
		{
			name: "exact_match",
			enum: EnumValue{Enum: []string{"info", "error"}, Default: "info"},
			set:  "error",
			want: "error",
		},
		{
			name:      "exact_match_is_case_sensitive",
			enum:      EnumValue{Enum: []string{"info", "error"}, Default: "info"},
			set:       "ERROR",
			wantError: true,
		},
		{
			name: "case_insensitive_selects_the_enum_spelling",
			enum: EnumValue{
				Enum:              []string{"STANDARD", "GLACIER"},
				Default:           "STANDARD",
				ConditionFunction: caseInsensitive,
			},
			set:  "glacier",
			want: "GLACIER",
		},
		{
			name: "unknown_value",
			enum: EnumValue{
				Enum:              []string{"upload", "download"},
				Default:           "upload",
				ConditionFunction: caseInsensitive,
			},
			set:       "move",
			wantError: true,
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			enum := tc.enum
			if tc.set != "" {
				err := enum.Set(tc.set)
				if tc.wantError {
					assert.ErrorContains(t, err, "allowed values")
					return
				}
				assert.NilError(t, err)
			}
			assert.Equal(t, enum.String(), tc.want)
		})
	}
}

func TestInputEnv(t *testing.T) {
	t.Parallel()

	assert.DeepEqual(t, inputEnv("local-path"), []string{"INPUT_LOCAL_PATH"})
	assert.DeepEqual(t,
		inputEnv("access-key", "AWS_ACCESS_KEY_ID"),
		[]string{"INPUT_ACCESS_KEY", "AWS_ACCESS_KEY_ID"},
	)
}

func TestSplitPatterns(t *testing.T) {
	t.Parallel()

	got := splitPatterns([]string{"*.tmp, *.log", "", "cache/*"})
	assert.DeepEqual(t, got, []string{"*.tmp", "*.log", "cache/*"})
}
