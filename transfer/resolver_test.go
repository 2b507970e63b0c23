package transfer

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	"github.com/peak/s5xfer/storage"
)

func newTestTree(t *testing.T) *fs.Dir {
	t.Helper()
	return fs.NewDir(t, "resolver",
		fs.WithDir("data",
			fs.WithFile("a.txt", strings.Repeat("a", 10)),
			fs.WithFile("b.txt", strings.Repeat("b", 20)),
			fs.WithFile("c.txt", strings.Repeat("c", 30)),
			fs.WithFile(".hidden.txt", "h"),
			fs.WithFile("skip.tmp", "tmp"),
		),
		fs.WithDir("site",
			fs.WithFile("index.html", "<html>"),
			fs.WithDir("css",
				fs.WithFile("main.css", "body{}"),
			),
			fs.WithDir("js",
				fs.WithFile("app.js", "app"),
				fs.WithFile("app.js.tmp", "tmp"),
			),
		),
	)
}

func resolve(t *testing.T, fsys LocalFS, req Request) ([]Candidate, *recordingSink) {
	t.Helper()

	filter, err := NewFilter(req.Include, req.Exclude)
	assert.NilError(t, err)

	sink := &recordingSink{}
	candidates, err := NewResolver(fsys, filter, sink).Resolve(context.Background(), req)
	assert.NilError(t, err)
	return candidates, sink
}

func TestResolveRemoteKeys(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	t.Cleanup(tree.Remove)

	testcases := []struct {
		name     string
		patterns []string
		prefix   string
		preserve bool
		exclude  []string
		want     []string
	}{
		{
			name:     "wildcard_without_structure",
			patterns: []string{tree.Join("data", "*.txt")},
			prefix:   "backup",
			want:     []string{"backup/.hidden.txt", "backup/a.txt", "backup/b.txt", "backup/c.txt"},
		},
		{
			name:     "wildcard_falls_back_to_basename",
			patterns: []string{tree.Join("site", "**", "*.css")},
			prefix:   "backup",
			preserve: true,
			want:     []string{"backup/main.css"},
		},
		{
			name:     "directory_with_structure",
			patterns: []string{tree.Join("site")},
			prefix:   "www",
			preserve: true,
			want:     []string{"www/css/main.css", "www/index.html", "www/js/app.js", "www/js/app.js.tmp"},
		},
		{
			name:     "directory_without_structure",
			patterns: []string{tree.Join("site")},
			prefix:   "www",
			want:     []string{"www/app.js", "www/app.js.tmp", "www/index.html", "www/main.css"},
		},
		{
			name:     "single_file_keeps_basename",
			patterns: []string{tree.Join("site", "css", "main.css")},
			prefix:   "assets/",
			preserve: true,
			want:     []string{"assets/main.css"},
		},
		{
			name:     "empty_prefix",
			patterns: []string{tree.Join("site", "js", "app.js")},
			want:     []string{"app.js"},
		},
		{
			name:     "exclude_during_walk_and_glob",
			patterns: []string{tree.Join("site"), tree.Join("data", "*")},
			preserve: true,
			exclude:  []string{"*.tmp"},
			want: []string{
				".hidden.txt", "a.txt", "b.txt", "c.txt",
				"css/main.css", "index.html", "js/app.js",
			},
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			candidates, _ := resolve(t, storage.NewFilesystem(false), Request{
				Operation:         OperationUpload,
				LocalPath:         strings.Join(tc.patterns, ","),
				RemotePath:        tc.prefix,
				PreserveStructure: tc.preserve,
				Exclude:           tc.exclude,
			})

			assert.DeepEqual(t, remoteKeys(candidates), tc.want)
		})
	}
}

func TestResolveSizes(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	candidates, _ := resolve(t, storage.NewFilesystem(false), Request{
		Operation:  OperationUpload,
		LocalPath:  tree.Join("data", "?.txt"),
		RemotePath: "backup",
	})

	want := []Candidate{
		{LocalPath: tree.Join("data", "a.txt"), RemoteKey: "backup/a.txt", Size: 10, SizeKnown: true, Operation: OperationUpload},
		{LocalPath: tree.Join("data", "b.txt"), RemoteKey: "backup/b.txt", Size: 20, SizeKnown: true, Operation: OperationUpload},
		{LocalPath: tree.Join("data", "c.txt"), RemoteKey: "backup/c.txt", Size: 30, SizeKnown: true, Operation: OperationUpload},
	}

	sortByKey := cmpopts.SortSlices(func(a, b Candidate) bool { return a.RemoteKey < b.RemoteKey })
	if diff := cmp.Diff(want, candidates, sortByKey); diff != "" {
		t.Errorf("(-want +got):\n%v", diff)
	}
}

func TestResolveRemovesDuplicates(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	// the directory comes first, so it decides the key of app.js
	candidates, _ := resolve(t, storage.NewFilesystem(false), Request{
		Operation: OperationUpload,
		LocalPath: strings.Join([]string{
			tree.Join("site"),
			tree.Join("site", "js", "app.js"),
			tree.Join("site", "js", "*.js"),
		}, " , "),
		PreserveStructure: true,
		Include:           []string{"*.js"},
	})

	assert.DeepEqual(t, remoteKeys(candidates), []string{"js/app.js"})
}

func TestResolveIsStable(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	req := Request{
		Operation:         OperationUpload,
		LocalPath:         tree.Join("site") + "," + tree.Join("data", "*.txt"),
		PreserveStructure: true,
		Include:           []string{"*.txt", "*.js", "*.html"},
		Exclude:           []string{"*/.hidden*"},
	}

	first, _ := resolve(t, storage.NewFilesystem(false), req)
	second, _ := resolve(t, storage.NewFilesystem(false), req)

	sortByPath := cmpopts.SortSlices(func(a, b Candidate) bool { return a.LocalPath < b.LocalPath })
	if diff := cmp.Diff(first, second, sortByPath); diff != "" {
		t.Errorf("(-first +second):\n%v", diff)
	}
	assert.DeepEqual(t, remoteKeys(first), []string{"a.txt", "b.txt", "c.txt", "index.html", "js/app.js"})
}

func TestResolveMissingPattern(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	candidates, sink := resolve(t, storage.NewFilesystem(false), Request{
		Operation: OperationUpload,
		LocalPath: tree.Join("missing") + "," + tree.Join("site", "index.html"),
	})

	assert.DeepEqual(t, remoteKeys(candidates), []string{"index.html"})
	assert.Assert(t, sink.hasError("error expanding pattern"))
}

func TestResolveNoMatch(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	candidates, _ := resolve(t, storage.NewFilesystem(false), Request{
		Operation: OperationUpload,
		LocalPath: tree.Join("data", "*.go"),
	})

	assert.Equal(t, len(candidates), 0)
}

func TestResolveUnreadableFileIsSkipped(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	fsys := newFaultyFS()
	fsys.openFailAfter[tree.Join("data", "b.txt")] = 0

	candidates, sink := resolve(t, fsys, Request{
		Operation: OperationUpload,
		LocalPath: tree.Join("data", "?.txt"),
	})

	assert.DeepEqual(t, remoteKeys(candidates), []string{"a.txt", "c.txt"})
	assert.Assert(t, sink.hasError("Cannot access file"))
}

func TestResolveUnknownSize(t *testing.T) {
	t.Parallel()

	tree := newTestTree(t)
	defer tree.Remove()

	target := tree.Join("data", "c.txt")
	fsys := newFaultyFS()
	fsys.statFail[target] = true

	candidates, _ := resolve(t, fsys, Request{
		Operation: OperationUpload,
		LocalPath: tree.Join("data", "c.*"),
	})

	assert.Equal(t, len(candidates), 1)
	assert.Equal(t, candidates[0].LocalPath, target)
	assert.Equal(t, candidates[0].SizeKnown, false)
	assert.Equal(t, candidates[0].Size, int64(0))
}

func TestRemoteKey(t *testing.T) {
	t.Parallel()

	dir := source{pattern: filepath.FromSlash("src/site"), dir: true}

	testcases := []struct {
		name     string
		prefix   string
		local    string
		src      source
		preserve bool
		want     string
	}{
		{
			name:     "relative_to_directory",
			prefix:   "www",
			local:    filepath.FromSlash("src/site/a/b/c.txt"),
			src:      dir,
			preserve: true,
			want:     "www/a/b/c.txt",
		},
		{
			name:   "basename_when_not_preserving",
			prefix: "www",
			local:  filepath.FromSlash("src/site/a/b/c.txt"),
			src:    dir,
			want:   "www/c.txt",
		},
		{
			name:     "prefix_with_trailing_slash",
			prefix:   "www/",
			local:    filepath.FromSlash("src/site/c.txt"),
			src:      dir,
			preserve: true,
			want:     "www/c.txt",
		},
		{
			name:     "wildcard_source",
			local:    filepath.FromSlash("src/site/a/c.txt"),
			src:      source{pattern: "src/**/*.txt", wildcard: true},
			preserve: true,
			want:     "c.txt",
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, remoteKey(tc.prefix, tc.local, tc.src, tc.preserve), tc.want)
		})
	}
}
