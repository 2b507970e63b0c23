package transfer

import (
	"time"
)

// Candidate is a single file or object selected for transfer.
type Candidate struct {
	LocalPath string
	RemoteKey string
	Size      int64
	// SizeKnown is false when the size could not be determined while
	// resolving.
	SizeKnown bool
	Operation Operation
}

// Status is the terminal state of a transfer.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Outcome is the terminal result of a single candidate.
type Outcome struct {
	LocalPath string `json:"localPath"`
	RemoteKey string `json:"remotePath"`
	Size      int64  `json:"size"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
	URL       string `json:"url,omitempty"`
}

// IsSuccess reports whether the transfer succeeded.
func (o Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// Summary is the aggregate result of a run.
type Summary struct {
	Operation        Operation
	Processed        int
	Success          int
	Errors           int
	BytesTransferred int64
	Duration         time.Duration
	ErrorMessages    []string
	Outcomes         []Outcome
	URLs             []string
}

// Failed reports whether files were attempted and none of them succeeded.
func (s *Summary) Failed() bool {
	return len(s.Outcomes) > 0 && s.Success == 0
}
