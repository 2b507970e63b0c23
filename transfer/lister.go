package transfer

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/storage"
)

// Lister enumerates the objects under a remote prefix and turns them into
// download candidates.
type Lister struct {
	remote   storage.Remote
	filter   *Filter
	sink     ProgressSink
	pageSize int64
}

// NewLister returns a Lister.
func NewLister(remote storage.Remote, filter *Filter, sink ProgressSink) *Lister {
	if sink == nil {
		sink = discardSink{}
	}
	return &Lister{
		remote:   remote,
		filter:   filter,
		sink:     sink,
		pageSize: storage.DefaultListPageSize,
	}
}

// Resolve lists every object under the request's remote path and returns one
// candidate per object which passes the filter. Any failed page aborts the
// listing with a *errorpkg.ListingError.
func (l *Lister) Resolve(ctx context.Context, req Request) ([]Candidate, error) {
	l.sink.Progress("Resolving remote objects to download...")

	objects, err := l.listAll(ctx, req.Bucket, req.RemotePath)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, obj := range objects {
		if obj.IsDirectory() {
			continue
		}
		if !l.filter.Included(obj.Key) {
			continue
		}
		if l.filter.Excluded(obj.Key) {
			l.sink.Progress(fmt.Sprintf("Excluding: %v", obj.Key))
			continue
		}

		local, ok := localPath(req.LocalPath, obj.Key, req.PreserveStructure)
		if !ok {
			l.sink.Warning(fmt.Sprintf("Skipping %q: %v", obj.Key, errorpkg.ErrUnsafePath))
			continue
		}

		candidates = append(candidates, Candidate{
			LocalPath: local,
			RemoteKey: obj.Key,
			Size:      obj.Size,
			SizeKnown: true,
			Operation: req.Operation,
		})
	}

	l.sink.Progress(fmt.Sprintf("Found %d objects to download", len(candidates)))
	return candidates, nil
}

// listAll pages through the prefix one request at a time. Keys seen on an
// earlier page are dropped.
func (l *Lister) listAll(ctx context.Context, bucket, prefix string) ([]storage.Object, error) {
	var (
		objects []storage.Object
		seen    = map[string]struct{}{}
		marker  string
	)

	for {
		page, err := l.remote.List(ctx, bucket, prefix, marker, l.pageSize)
		if err != nil {
			return nil, &errorpkg.ListingError{Bucket: bucket, Prefix: prefix, Err: err}
		}
		if page.Status != storage.StatusListObjects {
			return nil, &errorpkg.ListingError{
				Bucket: bucket,
				Prefix: prefix,
				Err: &errorpkg.StatusError{
					Op:       "list",
					Status:   page.Status,
					Expected: storage.StatusListObjects,
				},
			}
		}

		for _, obj := range page.Objects {
			if _, ok := seen[obj.Key]; ok {
				continue
			}
			seen[obj.Key] = struct{}{}
			objects = append(objects, obj)
		}

		if !page.IsTruncated {
			return objects, nil
		}

		next := page.NextMarker
		if next == "" && len(page.Objects) > 0 {
			next = page.Objects[len(page.Objects)-1].Key
		}
		if next == "" || next == marker {
			return nil, &errorpkg.ListingError{
				Bucket: bucket,
				Prefix: prefix,
				Err:    fmt.Errorf("truncated page without a usable continuation marker"),
			}
		}
		marker = next
	}
}

// localPath derives the destination of a remote key. ok is false when the
// key would resolve outside of root.
func localPath(root, key string, preserve bool) (string, bool) {
	rel := key
	if !preserve {
		rel = path.Base(key)
	}

	local := filepath.Join(root, filepath.FromSlash(rel))

	if root == "" {
		if filepath.IsAbs(local) || escapes(local) {
			return "", false
		}
		return local, true
	}

	relToRoot, err := filepath.Rel(root, local)
	if err != nil || escapes(relToRoot) {
		return "", false
	}
	return local, true
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
