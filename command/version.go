package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/peak/s5xfer/version"
)

var versionHelpTemplate = `Name:
	{{.HelpName}} - {{.Usage}}

Usage:
	{{.HelpName}}

Examples:
	1. Print the version of s5xfer
		 > s5xfer {{.HelpName}}
`

func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:               "version",
		HelpName:           "version",
		Usage:              "print version",
		CustomHelpTemplate: versionHelpTemplate,
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, version.GetHumanVersion())
			return nil
		},
	}
}
