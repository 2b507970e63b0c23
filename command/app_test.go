package command

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/igungor/gofakes3"
	"github.com/igungor/gofakes3/backend/s3mem"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"

	errorpkg "github.com/peak/s5xfer/error"
)

// setup starts an in-memory S3 server and returns the global flags which
// point the application to it.
func setup(t *testing.T) []string {
	t.Helper()

	faker := gofakes3.New(s3mem.New())
	srv := httptest.NewServer(faker.Server())
	t.Cleanup(srv.Close)

	return []string{
		appName,
		"--endpoint-url", srv.URL,
		"--access-key", "key",
		"--secret-key", "secret",
		"--bucket", "bucket",
		"--log", "error",
	}
}

func run(args ...string) error {
	return Main(context.Background(), args)
}

func readOutputs(t *testing.T, path string) map[string]string {
	t.Helper()

	content, err := os.ReadFile(path)
	assert.NilError(t, err)

	result := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		name, value, ok := strings.Cut(line, "=")
		assert.Assert(t, ok, line)
		result[name] = value
	}
	return result
}

func TestUploadAndDownload(t *testing.T) {
	global := setup(t)

	src := fs.NewDir(t, "src",
		fs.WithDir("site",
			fs.WithFile("index.html", "<html></html>"),
			fs.WithDir("css",
				fs.WithFile("main.css", "body{}"),
			),
			fs.WithFile("draft.tmp", "draft"),
		),
	)
	defer src.Remove()

	dst := fs.NewDir(t, "dst")
	defer dst.Remove()

	outputs := fs.NewDir(t, "outputs")
	defer outputs.Remove()

	assert.NilError(t, run(append(global, "create-bucket")...))

	uploadOutputs := outputs.Join("upload")
	err := run(append(global,
		"--local-path", src.Join("site"),
		"--remote-path", "www",
		"--exclude", "*.tmp",
		"--output-file", uploadOutputs,
		"upload",
	)...)
	assert.NilError(t, err)

	got := readOutputs(t, uploadOutputs)
	assert.Equal(t, got["files_processed"], "2")
	assert.Equal(t, got["success_count"], "2")
	assert.Equal(t, got["error_count"], "0")
	assert.Equal(t, got["bytes_transferred"], "19")
	assert.Assert(t, strings.Contains(got["file_list"], `"remotePath":"www/css/main.css"`))

	err = run(append(global,
		"--operation", "download",
		"--local-path", dst.Path(),
		"--remote-path", "www/",
		"--checksum-validation",
	)...)
	assert.NilError(t, err)

	expected := fs.Expected(t,
		fs.WithDir("www",
			fs.WithFile("index.html", "<html></html>"),
			fs.WithDir("css",
				fs.WithFile("main.css", "body{}"),
			),
		),
	)
	assert.Assert(t, fs.Equal(dst.Path(), expected))
}

func TestUploadDryRunTransfersNothing(t *testing.T) {
	global := setup(t)

	src := fs.NewDir(t, "src", fs.WithFile("a.txt", "a"), fs.WithFile("b.txt", "b"))
	defer src.Remove()

	outputs := fs.NewDir(t, "outputs")
	defer outputs.Remove()

	assert.NilError(t, run(append(global, "create-bucket")...))

	path := outputs.Join("dryrun")
	err := run(append(global,
		"--local-path", src.Join("*.txt"),
		"--dry-run",
		"--output-file", path,
		"upload",
	)...)
	assert.NilError(t, err)

	got := readOutputs(t, path)
	assert.Equal(t, got["files_processed"], "2")
	assert.Equal(t, got["success_count"], "0")
	assert.Equal(t, got["file_list"], "[]")

	// nothing reached the bucket, so it can be deleted
	assert.NilError(t, run(append(global, "delete-bucket")...))
}

func TestUploadToMissingBucketFails(t *testing.T) {
	global := setup(t)

	src := fs.NewDir(t, "src", fs.WithFile("a.txt", "a"))
	defer src.Remove()

	err := run(append(global,
		"--local-path", src.Join("a.txt"),
		"--retry-count", "0",
		"upload",
	)...)
	assert.Assert(t, errors.Is(err, errNoTransfer))
}

func TestValidationFailure(t *testing.T) {
	err := run(appName, "--concurrency", "0", "upload")

	var configErr *errorpkg.ConfigError
	assert.Assert(t, errors.As(err, &configErr))
	assert.ErrorContains(t, err, "bucket is required")
	assert.ErrorContains(t, err, "local path is required")
	assert.ErrorContains(t, err, "concurrency")
}

func TestSyncIsNotImplemented(t *testing.T) {
	global := setup(t)

	err := run(append(global,
		"--local-path", filepath.Join("does", "not", "matter"),
		"--remote-path", "www/",
		"sync",
	)...)
	assert.Assert(t, errors.Is(err, errNoTransfer))
}

func TestInvalidStorageClass(t *testing.T) {
	err := run(appName, "--bucket", "bucket", "--storage-class", "COLD", "create-bucket")
	assert.ErrorContains(t, err, "allowed values")
}
