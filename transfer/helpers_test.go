package transfer

import (
	"fmt"
	iofs "io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peak/s5xfer/storage"
)

// recordingSink keeps every notification it receives.
type recordingSink struct {
	mu       sync.Mutex
	progress []string
	success  []string
	errors   []string
	warnings []string
}

func (s *recordingSink) Progress(msg string) { s.add(&s.progress, msg) }
func (s *recordingSink) Success(msg string)  { s.add(&s.success, msg) }
func (s *recordingSink) Error(msg string)    { s.add(&s.errors, msg) }
func (s *recordingSink) Warning(msg string)  { s.add(&s.warnings, msg) }

func (s *recordingSink) add(dst *[]string, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*dst = append(*dst, msg)
}

func (s *recordingSink) hasError(substr string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.errors {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// timerRecorder is a backoff.Timer which fires immediately and remembers the
// requested delays.
type timerRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *timerRecorder) Start(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
}

func (r *timerRecorder) Stop() {}

func (r *timerRecorder) C() <-chan time.Time {
	c := make(chan time.Time, 1)
	c <- time.Now()
	return c
}

// faultyFS wraps the local filesystem and fails selected calls.
type faultyFS struct {
	*storage.Filesystem

	mu       sync.Mutex
	opens    map[string]int
	statFail map[string]bool
	// openFailAfter fails every Open of a path after the given number of
	// successful ones.
	openFailAfter map[string]int
}

func newFaultyFS() *faultyFS {
	return &faultyFS{
		Filesystem:    storage.NewFilesystem(false),
		opens:         map[string]int{},
		statFail:      map[string]bool{},
		openFailAfter: map[string]int{},
	}
}

func (f *faultyFS) Stat(path string) (iofs.FileInfo, error) {
	f.mu.Lock()
	fail := f.statFail[path]
	f.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("stat %v: injected failure", path)
	}
	return f.Filesystem.Stat(path)
}

func (f *faultyFS) Open(path string) (*os.File, error) {
	f.mu.Lock()
	limit, ok := f.openFailAfter[path]
	f.opens[path]++
	count := f.opens[path]
	f.mu.Unlock()

	if ok && count > limit {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return f.Filesystem.Open(path)
}

func remoteKeys(candidates []Candidate) []string {
	var keys []string
	for _, c := range candidates {
		keys = append(keys, c.RemoteKey)
	}
	sort.Strings(keys)
	return keys
}

func outcomeKeys(outcomes []Outcome) []string {
	var keys []string
	for _, o := range outcomes {
		keys = append(keys, o.RemoteKey)
	}
	sort.Strings(keys)
	return keys
}
