package log

// Sink forwards the notifications of a transfer run to the global logger.
type Sink struct {
	progress bool
}

// NewSink creates a Sink. Progress notifications are dropped unless
// progress is set; the other kinds are always printed.
func NewSink(progress bool) *Sink {
	return &Sink{progress: progress}
}

// Progress reports an intermediate step.
func (s *Sink) Progress(msg string) {
	if !s.progress {
		return
	}
	Info(ProgressMessage{Content: msg})
}

// Success reports a completed step.
func (s *Sink) Success(msg string) {
	Info(ProgressMessage{Content: msg})
}

// Error reports a failed step.
func (s *Sink) Error(msg string) {
	Error(ErrorMessage{Err: msg})
}

// Warning reports a recoverable problem.
func (s *Sink) Warning(msg string) {
	Warning(WarningMessage{Err: msg})
}
