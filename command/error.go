package command

import (
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/log"
)

// printError is the helper function to log error messages.
func printError(command, op string, err error) {
	// dont print cancelation errors
	if errorpkg.IsCancelation(err) {
		return
	}

	// every aggregated error gets its own line
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, err := range merr.Errors {
			log.Error(errorMessage(command, op, err))
		}
		return
	}

	log.Error(errorMessage(command, op, err))
}

func errorMessage(command, op string, err error) log.ErrorMessage {
	var cerr *errorpkg.Error
	if errors.As(err, &cerr) {
		return log.ErrorMessage{
			Err:       cleanupError(cerr.Err),
			Command:   cerr.FullCommand(),
			Operation: cerr.Op,
		}
	}

	return log.ErrorMessage{
		Err:       cleanupError(err),
		Command:   command,
		Operation: op,
	}
}

// cleanupError converts multiline messages into
// a single line.
func cleanupError(err error) string {
	s := strings.Replace(err.Error(), "\n", " ", -1)
	s = strings.Replace(s, "\t", " ", -1)
	s = strings.Replace(s, "  ", " ", -1)
	s = strings.TrimSpace(s)
	return s
}
