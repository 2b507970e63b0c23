package command

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// EnumValue is a cli.Generic which accepts one of a fixed set of values.
type EnumValue struct {
	Enum    []string
	Default string
	// ConditionFunction reports whether the given value selects the enum
	// entry. It defaults to an exact match.
	ConditionFunction func(enum, value string) bool
	selected          string
}

func (e *EnumValue) Set(value string) error {
	match := e.ConditionFunction
	if match == nil {
		match = func(enum, value string) bool { return enum == value }
	}

	for _, enum := range e.Enum {
		if match(enum, value) {
			e.selected = enum
			return nil
		}
	}

	return fmt.Errorf("allowed values: [%s]", strings.Join(e.Enum, ", "))
}

func (e EnumValue) String() string {
	if e.selected == "" {
		return e.Default
	}
	return e.selected
}

func (e EnumValue) Get() interface{} {
	return e
}

// caseInsensitive matches enum entries regardless of letter case.
func caseInsensitive(enum, value string) bool {
	return strings.EqualFold(enum, value)
}

// inputEnv returns the environment variables a flag is read from: the
// INPUT_ variable a workflow runner sets for a step input, followed by any
// fallbacks.
func inputEnv(name string, fallbacks ...string) []string {
	return append([]string{"INPUT_" + strcase.ToScreamingSnake(name)}, fallbacks...)
}
