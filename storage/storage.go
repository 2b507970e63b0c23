// Package storage implements operations for s3 and fs.
package storage

//go:generate mockgen -destination=storagemock/remote.go -package=storagemock github.com/peak/s5xfer/storage Remote

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Status codes the remote store answers with when an operation succeeds.
// Any other status is treated as a failed attempt.
const (
	StatusPutObject    = http.StatusOK
	StatusGetObject    = http.StatusOK
	StatusListObjects  = http.StatusOK
	StatusCreateBucket = http.StatusOK
	StatusDeleteBucket = http.StatusNoContent
)

// DefaultListPageSize is the number of keys requested per listing page.
const DefaultListPageSize = 1000

// StorageClass represents the storage used to store an object.
type StorageClass string

const (
	StorageStandard           StorageClass = "STANDARD"
	StorageReducedRedundancy  StorageClass = "REDUCED_REDUNDANCY"
	StorageStandardIA         StorageClass = "STANDARD_IA"
	StorageOnezoneIA          StorageClass = "ONEZONE_IA"
	StorageIntelligentTiering StorageClass = "INTELLIGENT_TIERING"
	StorageGlacier            StorageClass = "GLACIER"
	StorageDeepArchive        StorageClass = "DEEP_ARCHIVE"
)

// StorageClasses lists the storage classes accepted by the remote store.
var StorageClasses = []StorageClass{
	StorageStandard,
	StorageReducedRedundancy,
	StorageStandardIA,
	StorageOnezoneIA,
	StorageIntelligentTiering,
	StorageGlacier,
	StorageDeepArchive,
}

// ACLPublicRead is the canned ACL which makes an object readable by anyone.
const ACLPublicRead = "public-read"

// PutOptions carries per-object upload settings.
type PutOptions struct {
	StorageClass StorageClass
	ACL          string
}

// Object is a single entry of a listing page.
type Object struct {
	Key  string
	Size int64
}

// IsDirectory reports whether the object is a zero-byte directory marker.
func (o Object) IsDirectory() bool {
	return len(o.Key) > 0 && o.Key[len(o.Key)-1] == '/'
}

// ListPage is one page of a paginated listing.
type ListPage struct {
	Status      int
	Objects     []Object
	IsTruncated bool
	NextMarker  string
}

// Remote is the object store contract. Every mutating call returns the
// status code the service answered with; implementations must be safe for
// concurrent use.
type Remote interface {
	Put(ctx context.Context, bucket, key string, body io.ReadSeeker, opts PutOptions) (int, error)
	Get(ctx context.Context, bucket, key string, w io.Writer) (int, int64, error)
	List(ctx context.Context, bucket, prefix, marker string, maxKeys int64) (*ListPage, error)
	CreateBucket(ctx context.Context, bucket string, class StorageClass) (int, error)
	DeleteBucket(ctx context.Context, bucket string) (int, error)
	SignedURL(bucket, key string, ttl time.Duration) (string, error)
	Close() error
}
