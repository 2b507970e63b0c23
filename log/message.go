package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/peak/s5xfer/strutil"
)

// Message is an interface to print structured logs.
type Message interface {
	fmt.Stringer
	JSON() string
}

// InfoMessage is a generic message structure for successful operations.
type InfoMessage struct {
	Operation   string `json:"operation"`
	Success     bool   `json:"success"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// String is the string representation of InfoMessage.
func (i InfoMessage) String() string {
	if i.Destination == "" {
		return fmt.Sprintf("%v %v", i.Operation, i.Source)
	}
	return fmt.Sprintf("%v %v %v", i.Operation, i.Source, i.Destination)
}

// JSON is the JSON representation of InfoMessage.
func (i InfoMessage) JSON() string {
	i.Success = true
	return strutil.JSON(i)
}

// ErrorMessage is a generic message structure for unsuccessful operations.
type ErrorMessage struct {
	Operation string `json:"operation,omitempty"`
	Command   string `json:"command,omitempty"`
	Err       string `json:"error"`
}

// String is the string representation of ErrorMessage.
func (e ErrorMessage) String() string {
	if e.Command == "" {
		return e.Err
	}
	return fmt.Sprintf("%q: %v", e.Command, e.Err)
}

// JSON is the JSON representation of ErrorMessage.
func (e ErrorMessage) JSON() string {
	return strutil.JSON(e)
}

// WarningMessage is a generic message structure for recoverable problems.
type WarningMessage struct {
	Operation string `json:"operation,omitempty"`
	Command   string `json:"job,omitempty"`
	Err       string `json:"error"`
}

// String is the string representation of WarningMessage.
func (w WarningMessage) String() string {
	if w.Command == "" {
		return w.Err
	}
	return fmt.Sprintf("%q (%v)", w.Command, w.Err)
}

// JSON is the JSON representation of WarningMessage.
func (w WarningMessage) JSON() string {
	return strutil.JSON(w)
}

// DebugMessage is a generic message structure for debugging logs.
type DebugMessage struct {
	Content string `json:"content"`
}

// String is the string representation of DebugMessage.
func (d DebugMessage) String() string {
	return d.Content
}

// JSON is the JSON representation of DebugMessage.
func (d DebugMessage) JSON() string {
	return strutil.JSON(d)
}

// ProgressMessage reports the progress of a running operation.
type ProgressMessage struct {
	Content string `json:"progress"`
}

// String is the string representation of ProgressMessage.
func (p ProgressMessage) String() string {
	return p.Content
}

// JSON is the JSON representation of ProgressMessage.
func (p ProgressMessage) JSON() string {
	return strutil.JSON(p)
}

// maxSummaryErrors is the number of error messages listed in a summary.
const maxSummaryErrors = 5

// SummaryMessage is printed once a run is finished.
type SummaryMessage struct {
	Operation        string        `json:"operation"`
	Processed        int           `json:"files_processed"`
	Success          int           `json:"success_count"`
	Errors           int           `json:"error_count"`
	BytesTransferred int64         `json:"bytes_transferred"`
	Duration         time.Duration `json:"-"`
	ErrorMessages    []string      `json:"errors,omitempty"`
}

// String is the string representation of SummaryMessage. Only the first few
// error messages are listed.
func (s SummaryMessage) String() string {
	if s.Errors == 0 {
		return fmt.Sprintf("Operation completed successfully! Processed %d files (%v)",
			s.Processed, strutil.HumanizeBytes(s.BytesTransferred))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Operation completed with %d errors out of %d files", s.Errors, s.Processed)

	shown := s.ErrorMessages
	if len(shown) > maxSummaryErrors {
		shown = shown[:maxSummaryErrors]
	}
	for _, msg := range shown {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	if rest := len(s.ErrorMessages) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "\n... and %d more errors", rest)
	}
	return b.String()
}

// JSON is the JSON representation of SummaryMessage.
func (s SummaryMessage) JSON() string {
	type alias SummaryMessage
	return strutil.JSON(struct {
		alias
		Seconds float64 `json:"operation_time"`
	}{alias(s), s.Duration.Seconds()})
}
