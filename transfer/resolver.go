package transfer

import (
	"context"
	"encoding/binary"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/lanrat/extsort"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/strutil"
)

const (
	extsortChannelBufferSize = 1_000
	extsortChunkSize         = 100_000
)

// LocalFS is the local filesystem as seen by a run.
type LocalFS interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (*os.File, error)
	Glob(pattern string) ([]string, error)
	Walk(root string, fn func(path string) error) error
	MkdirAll(path string) error
	CreateTemp(dst string) (*os.File, error)
	Rename(from, to string) error
	Remove(path string) error
}

// source is a local pattern as given by the user.
type source struct {
	pattern  string
	wildcard bool
	dir      bool
}

// pathRecord is an expanded path tagged with the index of the source which
// produced it.
type pathRecord struct {
	path   string
	source int
}

func (r pathRecord) ToBytes() []byte {
	buf := binary.AppendUvarint(nil, uint64(r.source))
	return append(buf, r.path...)
}

func pathRecordFromBytes(b []byte) extsort.SortType {
	idx, n := binary.Uvarint(b)
	return pathRecord{path: string(b[n:]), source: int(idx)}
}

func pathRecordLess(a, b extsort.SortType) bool {
	ra, rb := a.(pathRecord), b.(pathRecord)
	if ra.path != rb.path {
		return ra.path < rb.path
	}
	return ra.source < rb.source
}

// Resolver expands local patterns into upload candidates.
type Resolver struct {
	fs     LocalFS
	filter *Filter
	sink   ProgressSink
}

// NewResolver returns a Resolver.
func NewResolver(fsys LocalFS, filter *Filter, sink ProgressSink) *Resolver {
	if sink == nil {
		sink = discardSink{}
	}
	return &Resolver{fs: fsys, filter: filter, sink: sink}
}

// Resolve returns one candidate per distinct local file selected by the
// request. Patterns which cannot be expanded and files which cannot be read
// are reported through the sink and skipped.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]Candidate, error) {
	r.sink.Progress("Resolving file patterns...")

	var sources []source
	for _, pattern := range strutil.SplitList(req.LocalPath) {
		if src, ok := r.source(pattern); ok {
			sources = append(sources, src)
		}
	}

	extsortDefaultConfig := extsort.DefaultConfig()
	extsortConfig := &extsort.Config{
		ChunkSize:          extsortChunkSize,
		NumWorkers:         extsortDefaultConfig.NumWorkers,
		ChanBuffSize:       extsortChannelBufferSize,
		SortedChanBuffSize: extsortChannelBufferSize,
	}

	records := make(chan extsort.SortType, extsortChannelBufferSize)
	sorter, sorted, errc := extsort.New(records, pathRecordFromBytes, pathRecordLess, extsortConfig)

	// the sorter failed to create its temporary storage
	select {
	case err := <-errc:
		if err != nil {
			return nil, err
		}
	default:
	}

	go func() {
		defer close(records)
		for i, src := range sources {
			r.expand(ctx, src, func(p string) bool {
				select {
				case records <- pathRecord{path: p, source: i}:
					return true
				case <-ctx.Done():
					return false
				}
			})
		}
	}()

	sorter.Sort(ctx)

	var (
		candidates []Candidate
		last       string
		seen       bool
	)
	for rec := range sorted {
		record := rec.(pathRecord)
		if seen && record.path == last {
			continue
		}
		last, seen = record.path, true

		cand, ok := r.candidate(record.path, sources[record.source], req)
		if ok {
			candidates = append(candidates, cand)
		}
	}

	if err := <-errc; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.sink.Progress(fmt.Sprintf("Found %d files to process", len(candidates)))
	return candidates, nil
}

// source classifies a pattern. Concrete paths which cannot be queried are
// reported and dropped.
func (r *Resolver) source(pattern string) (source, bool) {
	src := source{pattern: pattern, wildcard: strutil.HasWildcard(pattern)}
	if src.wildcard {
		return src, true
	}

	info, err := r.fs.Stat(pattern)
	if err != nil {
		r.sink.Error((&errorpkg.PatternError{Pattern: pattern, Err: err}).Error())
		return src, false
	}
	src.dir = info.IsDir()
	return src, true
}

// expand sends every file matched by src to emit. It stops early when emit
// returns false.
func (r *Resolver) expand(ctx context.Context, src source, emit func(string) bool) {
	switch {
	case src.wildcard:
		matches, err := r.fs.Glob(src.pattern)
		if err != nil {
			r.sink.Error((&errorpkg.PatternError{Pattern: src.pattern, Err: err}).Error())
			return
		}
		for _, m := range matches {
			// excluded entries never reach the sorter
			if r.filter.Excluded(m) {
				r.sink.Progress(fmt.Sprintf("Excluding: %v", m))
				continue
			}
			if !emit(m) {
				return
			}
		}
	case src.dir:
		err := r.fs.Walk(src.pattern, func(p string) error {
			if !emit(p) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			r.sink.Error((&errorpkg.PatternError{Pattern: src.pattern, Err: err}).Error())
		}
	default:
		emit(src.pattern)
	}
}

// candidate filters a single expanded path and builds its candidate.
func (r *Resolver) candidate(p string, src source, req Request) (Candidate, bool) {
	if !r.filter.Included(p) {
		return Candidate{}, false
	}
	if r.filter.Excluded(p) {
		r.sink.Progress(fmt.Sprintf("Excluding: %v", p))
		return Candidate{}, false
	}

	f, err := r.fs.Open(p)
	if err != nil {
		r.sink.Error(fmt.Sprintf("Cannot access file '%v': %v", p, err))
		return Candidate{}, false
	}
	f.Close()

	cand := Candidate{
		LocalPath: p,
		RemoteKey: remoteKey(req.RemotePath, p, src, req.PreserveStructure),
		Operation: req.Operation,
	}

	// a failed size query is not fatal, the transfer reports the problem
	if info, err := r.fs.Stat(p); err == nil {
		cand.Size = info.Size()
		cand.SizeKnown = true
	}
	return cand, true
}

// remoteKey derives the destination key of a local file. Structure is only
// preserved for files found by walking a concrete directory.
func remoteKey(prefix, local string, src source, preserve bool) string {
	name := filepath.Base(local)
	if preserve && src.dir && !src.wildcard {
		if rel, err := filepath.Rel(src.pattern, local); err == nil {
			name = filepath.ToSlash(rel)
		}
	}

	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
