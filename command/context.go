package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// secretFlags are never echoed back in error messages.
var secretFlags = map[string]struct{}{
	"access-key": {},
	"secret-key": {},
}

// commandFromContext rebuilds the invoked command line from the flags that
// were set explicitly.
func commandFromContext(c *cli.Context) string {
	cmd := c.App.Name
	if c.Command != nil && c.Command.Name != "" {
		cmd = fmt.Sprintf("%s %s", cmd, c.Command.Name)
	}

	for _, f := range c.App.Flags {
		flagname := f.Names()[0]
		if _, ok := secretFlags[flagname]; ok {
			continue
		}
		for _, flagvalue := range contextValue(c, flagname) {
			cmd = fmt.Sprintf("%s --%s=%v", cmd, flagname, flagvalue)
		}
	}

	if c.Args().Len() > 0 {
		cmd = fmt.Sprintf("%v %v", cmd, strings.Join(c.Args().Slice(), " "))
	}

	return cmd
}

// contextValue traverses context and its ancestor contexts to find
// the flag value and returns string slice.
func contextValue(c *cli.Context, flagname string) []string {
	for _, c := range c.Lineage() {
		if !c.IsSet(flagname) {
			continue
		}

		val := c.Value(flagname)
		switch val.(type) {
		case cli.StringSlice:
			return c.StringSlice(flagname)
		case string:
			return []string{c.String(flagname)}
		case bool:
			return []string{strconv.FormatBool(c.Bool(flagname))}
		case int:
			return []string{strconv.Itoa(c.Int(flagname))}
		default:
			return []string{fmt.Sprintf("%v", val)}
		}
	}

	return nil
}
