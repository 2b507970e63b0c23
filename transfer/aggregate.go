package transfer

import (
	"fmt"
)

// DryRun reports what a run would do without doing it. Only the number of
// candidates is counted.
func DryRun(op Operation, candidates []Candidate, sink ProgressSink) *Summary {
	if sink == nil {
		sink = discardSink{}
	}

	sink.Progress(fmt.Sprintf("DRY RUN - No files will be %v", pastTense(op)))
	for _, c := range candidates {
		if op == OperationDownload {
			sink.Progress(fmt.Sprintf("Would download: %v -> %v", c.RemoteKey, c.LocalPath))
			continue
		}
		sink.Progress(fmt.Sprintf("Would upload: %v -> %v", c.LocalPath, c.RemoteKey))
	}

	return &Summary{
		Operation: op,
		Processed: len(candidates),
	}
}

// Aggregate folds the outcomes of a run into a summary. Error messages keep
// the order of the outcomes.
func Aggregate(op Operation, outcomes []Outcome) *Summary {
	summary := &Summary{
		Operation: op,
		Processed: len(outcomes),
		Outcomes:  outcomes,
	}

	for _, o := range outcomes {
		if o.IsSuccess() {
			summary.Success++
			summary.BytesTransferred += o.Size
			if o.URL != "" {
				summary.URLs = append(summary.URLs, o.URL)
			}
			continue
		}
		if o.Error != "" {
			summary.ErrorMessages = append(summary.ErrorMessages, o.Error)
		}
	}
	summary.Errors = summary.Processed - summary.Success

	return summary
}

func pastTense(op Operation) string {
	switch op {
	case OperationDownload:
		return "downloaded"
	case OperationUpload:
		return "uploaded"
	default:
		return "transferred"
	}
}
