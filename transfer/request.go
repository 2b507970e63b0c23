// Package transfer resolves the files of a run, moves them between the local
// filesystem and a remote store under bounded concurrency and folds the
// per-file outcomes into a single summary.
package transfer

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/storage"
)

// Operation is the kind of work a run performs.
type Operation string

const (
	OperationUpload       Operation = "upload"
	OperationDownload     Operation = "download"
	OperationSync         Operation = "sync"
	OperationCreateBucket Operation = "create-bucket"
	OperationDeleteBucket Operation = "delete-bucket"
)

// Operations lists every supported operation.
var Operations = []Operation{
	OperationUpload,
	OperationDownload,
	OperationSync,
	OperationCreateBucket,
	OperationDeleteBucket,
}

// IsValid reports whether o is a supported operation.
func (o Operation) IsValid() bool {
	for _, op := range Operations {
		if o == op {
			return true
		}
	}
	return false
}

// needsLocalPath reports whether the operation reads local files.
func (o Operation) needsLocalPath() bool {
	return o == OperationUpload || o == OperationSync
}

// needsRemotePath reports whether the operation lists a remote prefix.
func (o Operation) needsRemotePath() bool {
	return o == OperationDownload || o == OperationSync
}

const (
	DefaultConcurrency = 10
	DefaultMaxRetries  = 3
)

// Request is the configuration of a single run. It is not modified once the
// run started.
type Request struct {
	Operation Operation
	Bucket    string

	// LocalPath is a comma separated list of files, directories or wildcard
	// patterns for uploads and the destination directory for downloads.
	LocalPath string
	// RemotePath is the destination prefix for uploads and the listing
	// prefix for downloads.
	RemotePath string

	Include []string
	Exclude []string

	PreserveStructure bool
	Concurrency       int
	MaxRetries        int
	Checksum          bool
	DryRun            bool
	StorageClass      storage.StorageClass
	PublicRead        bool
}

// Validate checks the fields required by the selected operation. Every
// problem is reported as a *errorpkg.ConfigError.
func (r Request) Validate() error {
	var merr error

	if !r.Operation.IsValid() {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "operation",
			Err:   fmt.Errorf("unsupported operation %q", r.Operation),
		})
	}

	if r.Bucket == "" {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "bucket",
			Err:   fmt.Errorf("bucket is required"),
		})
	}

	if r.Operation.needsLocalPath() && r.LocalPath == "" {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "local-path",
			Err:   fmt.Errorf("local path is required for %v operation", r.Operation),
		})
	}

	if r.Operation.needsRemotePath() && r.RemotePath == "" {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "remote-path",
			Err:   fmt.Errorf("remote path is required for %v operation", r.Operation),
		})
	}

	if r.Concurrency <= 0 {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "concurrency",
			Err:   fmt.Errorf("must be a positive integer, got %d", r.Concurrency),
		})
	}

	if r.MaxRetries < 0 {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "retry-count",
			Err:   fmt.Errorf("must not be negative, got %d", r.MaxRetries),
		})
	}

	if r.StorageClass != "" && !isStorageClass(r.StorageClass) {
		merr = multierror.Append(merr, &errorpkg.ConfigError{
			Field: "storage-class",
			Err:   fmt.Errorf("unsupported storage class %q", r.StorageClass),
		})
	}

	return merr
}

func isStorageClass(class storage.StorageClass) bool {
	for _, c := range storage.StorageClasses {
		if c == class {
			return true
		}
	}
	return false
}
