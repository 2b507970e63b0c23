// Package progressbar renders the progress of a transfer run on the terminal.
package progressbar

import (
	"fmt"
	"sync"

	"github.com/cheggaaa/pb/v3"
)

// ProgressBar tracks files and bytes of a run.
type ProgressBar interface {
	Start()
	Finish()
	AddTotal(files int64, bytes int64)
	AddCompleted(files int64, bytes int64)
}

// NoOp is a ProgressBar which renders nothing.
type NoOp struct{}

func (NoOp) Start() {}

func (NoOp) Finish() {}

func (NoOp) AddTotal(int64, int64) {}

func (NoOp) AddCompleted(int64, int64) {}

// CommandProgressBar is a ProgressBar backed by a terminal bar.
type CommandProgressBar struct {
	totalFiles     int64
	completedFiles int64
	totalBytes     int64
	completedBytes int64
	mu             sync.Mutex
	progressbar    *pb.ProgressBar
}

var _ ProgressBar = (*CommandProgressBar)(nil)

const progressbarTemplate = `{{percent . | green}} {{bar . " " "━" "━" "─" " " | green}} {{counters . | green}} {{speed . "(%s/s)" | red}} {{rtime . "%s left" | blue}} {{ string . "files" | yellow}}`

// New returns a CommandProgressBar. It is not drawn until Start is called.
func New() *CommandProgressBar {
	cp := &CommandProgressBar{}
	cp.progressbar = pb.New64(0)
	cp.progressbar.Set(pb.Bytes, true)
	cp.progressbar.Set(pb.SIBytesPrefix, true)
	cp.progressbar.SetWidth(128)
	cp.progressbar.SetTemplateString(progressbarTemplate)
	cp.setFiles()
	return cp
}

func (cp *CommandProgressBar) Start() {
	cp.progressbar.Start()
}

func (cp *CommandProgressBar) Finish() {
	cp.progressbar.Finish()
}

// AddTotal grows the amount of work the bar expects.
func (cp *CommandProgressBar) AddTotal(files, bytes int64) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.totalFiles += files
	cp.totalBytes += bytes
	cp.progressbar.SetTotal(cp.totalBytes)
	cp.setFiles()
}

// AddCompleted records finished work.
func (cp *CommandProgressBar) AddCompleted(files, bytes int64) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.completedFiles += files
	cp.completedBytes += bytes
	cp.progressbar.Add64(bytes)
	cp.setFiles()
}

func (cp *CommandProgressBar) setFiles() {
	cp.progressbar.Set("files", fmt.Sprintf("(%d/%d)", cp.completedFiles, cp.totalFiles))
}
