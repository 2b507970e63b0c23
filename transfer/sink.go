package transfer

// ProgressSink receives human readable notifications of a run. It has no
// effect on outcomes and must be safe for concurrent use.
type ProgressSink interface {
	Progress(msg string)
	Success(msg string)
	Error(msg string)
	Warning(msg string)
}

type discardSink struct{}

func (discardSink) Progress(string) {}
func (discardSink) Success(string)  {}
func (discardSink) Error(string)    {}
func (discardSink) Warning(string)  {}
