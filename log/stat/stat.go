// Package stat collects execution statistics of commands.
package stat

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/peak/s5xfer/strutil"
)

var (
	mu      sync.Mutex
	enabled bool
	entries map[string]*entry
)

type entry struct {
	total   int64
	success int64
	elapsed time.Duration
}

// InitStat initializes collecting program statistics.
func InitStat() {
	mu.Lock()
	defer mu.Unlock()

	enabled = true
	entries = map[string]*entry{}
}

// Stat implements log.Message interface.
type Stat struct {
	Operation   string  `json:"operation"`
	Success     int64   `json:"success"`
	Error       int64   `json:"error"`
	AvgExecTime float64 `json:"avg_exec_time_ms"`
}

func (s Stat) String() string {
	return fmt.Sprintf("%q ran %d time(s) with %d error(s) and %d success(es); average execution time: %.3f msec.",
		s.Operation, s.Success+s.Error, s.Error, s.Success, s.AvgExecTime)
}

func (s Stat) JSON() string {
	return strutil.JSON(s)
}

// Collect returns a function which records one execution of op started at t.
// The execution counts as an error when *err is set at the time the returned
// function runs, which makes it suitable for a deferred call.
func Collect(op string, t time.Time, err *error) func() {
	return func() {
		mu.Lock()
		defer mu.Unlock()

		if !enabled {
			return
		}

		e, ok := entries[op]
		if !ok {
			e = &entry{}
			entries[op] = e
		}
		e.total++
		if err == nil || *err == nil {
			e.success++
		}
		e.elapsed += time.Since(t)
	}
}

// Statistics returns the statistics collected so far, ordered by operation.
func Statistics() []Stat {
	mu.Lock()
	defer mu.Unlock()

	result := make([]Stat, 0, len(entries))
	if !enabled {
		return result
	}

	for op, e := range entries {
		result = append(result, Stat{
			Operation:   op,
			Success:     e.success,
			Error:       e.total - e.success,
			AvgExecTime: float64(e.elapsed.Microseconds()) / 1000 / float64(e.total),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Operation < result[j].Operation
	})
	return result
}
