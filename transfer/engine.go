package transfer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/progressbar"
	"github.com/peak/s5xfer/storage"
)

// signedURLTTL is the validity of the access url of a private object.
const signedURLTTL = time.Hour

// Engine executes a single Request.
type Engine struct {
	remote storage.Remote
	fs     LocalFS
	req    Request

	sink      ProgressSink
	bar       progressbar.ProgressBar
	timer     backoff.Timer
	publicURL func(bucket, key string) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the receiver of progress notifications.
func WithSink(sink ProgressSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithProgressBar sets the progress bar updated by transfers.
func WithProgressBar(bar progressbar.ProgressBar) Option {
	return func(e *Engine) { e.bar = bar }
}

// WithTimer replaces the timer which waits out the backoff between
// attempts. It is shared by concurrent transfers.
func WithTimer(timer backoff.Timer) Option {
	return func(e *Engine) { e.timer = timer }
}

// WithPublicURL sets the function building the unsigned url of an object.
func WithPublicURL(fn func(bucket, key string) string) Option {
	return func(e *Engine) { e.publicURL = fn }
}

// New returns an Engine running req against remote and fsys.
func New(remote storage.Remote, fsys LocalFS, req Request, opts ...Option) *Engine {
	e := &Engine{
		remote: remote,
		fs:     fsys,
		req:    req,
		sink:   discardSink{},
		bar:    progressbar.NoOp{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the request. Per file failures are part of the summary; the
// returned error is set only for configuration and listing failures which
// abort the run before any transfer.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	defer func() {
		e.sink.Progress(fmt.Sprintf("Operation completed in %.2f seconds", time.Since(start).Seconds()))
	}()

	if err := e.req.Validate(); err != nil {
		return nil, err
	}

	var (
		summary *Summary
		err     error
	)
	switch e.req.Operation {
	case OperationUpload:
		summary, err = e.upload(ctx)
	case OperationDownload:
		summary, err = e.download(ctx)
	case OperationSync:
		summary = e.sync()
	case OperationCreateBucket:
		summary = e.createBucket(ctx)
	case OperationDeleteBucket:
		summary = e.deleteBucket(ctx)
	default:
		err = &errorpkg.ConfigError{
			Field: "operation",
			Err:   fmt.Errorf("unsupported operation %q", e.req.Operation),
		}
	}
	if err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

func (e *Engine) filter() (*Filter, error) {
	filter, err := NewFilter(e.req.Include, e.req.Exclude)
	if err != nil {
		return nil, &errorpkg.ConfigError{Field: "include/exclude", Err: err}
	}
	return filter, nil
}

func (e *Engine) upload(ctx context.Context) (*Summary, error) {
	filter, err := e.filter()
	if err != nil {
		return nil, err
	}

	candidates, err := NewResolver(e.fs, filter, e.sink).Resolve(ctx, e.req)
	if err != nil {
		return nil, err
	}
	return e.transfer(ctx, candidates, e.uploadJob), nil
}

func (e *Engine) download(ctx context.Context) (*Summary, error) {
	filter, err := e.filter()
	if err != nil {
		return nil, err
	}

	candidates, err := NewLister(e.remote, filter, e.sink).Resolve(ctx, e.req)
	if err != nil {
		e.sink.Error(fmt.Sprintf("Error listing remote objects: %v", err))
		return nil, err
	}
	return e.transfer(ctx, candidates, e.downloadJob), nil
}

// transfer schedules one job per candidate unless the run is a dry run.
func (e *Engine) transfer(ctx context.Context, candidates []Candidate, job Job) *Summary {
	if e.req.DryRun {
		return DryRun(e.req.Operation, candidates, e.sink)
	}

	verb := "Uploading"
	if e.req.Operation == OperationDownload {
		verb = "Downloading"
	}
	e.sink.Progress(fmt.Sprintf("%v %d files with %d concurrent connections...", verb, len(candidates), e.req.Concurrency))

	var total int64
	for _, c := range candidates {
		total += c.Size
	}
	e.bar.AddTotal(int64(len(candidates)), total)
	e.bar.Start()
	defer e.bar.Finish()

	outcomes := NewScheduler(e.req.Concurrency).Run(ctx, candidates, func(ctx context.Context, c Candidate) Outcome {
		outcome := job(ctx, c)
		if outcome.IsSuccess() {
			e.bar.AddCompleted(1, outcome.Size)
		} else {
			e.bar.AddCompleted(1, 0)
		}
		return outcome
	})

	return Aggregate(e.req.Operation, outcomes)
}

func (e *Engine) retryPolicy(name string) RetryPolicy {
	return RetryPolicy{
		MaxRetries: e.req.MaxRetries,
		Delay:      DefaultRetryDelay,
		Timer:      e.timer,
		OnRetry: func(attempt int) {
			e.sink.Progress(fmt.Sprintf("Retry %d/%d: %v", attempt, e.req.MaxRetries, name))
		},
	}
}

func (e *Engine) uploadJob(ctx context.Context, c Candidate) Outcome {
	outcome := Outcome{
		LocalPath: c.LocalPath,
		RemoteKey: c.RemoteKey,
		Size:      c.Size,
	}

	attempts, err := e.retryPolicy(c.LocalPath).Do(ctx, func(int) error {
		return e.putObject(ctx, c)
	})
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed after %d attempts: %v", attempts, c.LocalPath))
		e.sink.Error(fmt.Sprintf("Failed: %v - %v", c.LocalPath, err))
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = StatusSuccess
	if !c.SizeKnown {
		if info, err := e.fs.Stat(c.LocalPath); err == nil {
			outcome.Size = info.Size()
		}
	}
	outcome.URL = e.accessURL(c.RemoteKey)

	if e.req.Checksum {
		sum, err := FileChecksum(e.fs, c.LocalPath)
		if err != nil {
			e.sink.Warning(fmt.Sprintf("Checksum calculation failed for %v: %v", c.LocalPath, err))
		} else {
			outcome.Checksum = sum
		}
	}

	e.sink.Success(fmt.Sprintf("Uploaded: %v -> %v", c.LocalPath, c.RemoteKey))
	return outcome
}

// putObject makes a single upload attempt.
func (e *Engine) putObject(ctx context.Context, c Candidate) error {
	wrap := func(err error) error {
		return &errorpkg.Error{Op: "upload", Src: c.LocalPath, Dst: c.RemoteKey, Err: err}
	}

	f, err := e.fs.Open(c.LocalPath)
	if err != nil {
		return wrap(err)
	}
	defer f.Close()

	opts := storage.PutOptions{StorageClass: e.req.StorageClass}
	if e.req.PublicRead {
		opts.ACL = storage.ACLPublicRead
	}

	status, err := e.remote.Put(ctx, e.req.Bucket, c.RemoteKey, f, opts)
	if err != nil {
		return wrap(err)
	}
	if status != storage.StatusPutObject {
		return wrap(&errorpkg.StatusError{Op: "upload", Status: status, Expected: storage.StatusPutObject})
	}
	return nil
}

// accessURL returns the url handed out for an uploaded object. Private
// objects get a signed url and fall back to the public one when signing
// fails.
func (e *Engine) accessURL(key string) string {
	public := ""
	if e.publicURL != nil {
		public = e.publicURL(e.req.Bucket, key)
	}

	if e.req.PublicRead {
		return public
	}

	signed, err := e.remote.SignedURL(e.req.Bucket, key, signedURLTTL)
	if err != nil {
		e.sink.Warning(fmt.Sprintf("Failed to generate signed URL for %v: %v", key, err))
		return public
	}
	return signed
}

func (e *Engine) downloadJob(ctx context.Context, c Candidate) Outcome {
	outcome := Outcome{
		LocalPath: c.LocalPath,
		RemoteKey: c.RemoteKey,
		Size:      c.Size,
	}

	var (
		written  int64
		checksum string
	)
	attempts, err := e.retryPolicy(c.RemoteKey).Do(ctx, func(int) error {
		var err error
		written, checksum, err = e.getObject(ctx, c)
		return err
	})
	if err != nil {
		e.sink.Error(fmt.Sprintf("Failed after %d attempts: %v", attempts, c.RemoteKey))
		e.sink.Error(fmt.Sprintf("Failed: %v - %v", c.RemoteKey, err))
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = StatusSuccess
	outcome.Size = written
	outcome.Checksum = checksum

	e.sink.Success(fmt.Sprintf("Downloaded: %v -> %v", c.RemoteKey, c.LocalPath))
	return outcome
}

// getObject makes a single download attempt. The payload goes to a temporary
// file next to the destination which replaces the destination only when the
// whole object was received.
func (e *Engine) getObject(ctx context.Context, c Candidate) (int64, string, error) {
	wrap := func(err error) error {
		return &errorpkg.Error{Op: "download", Src: c.RemoteKey, Dst: c.LocalPath, Err: err}
	}

	if err := e.fs.MkdirAll(filepath.Dir(c.LocalPath)); err != nil {
		return 0, "", wrap(err)
	}

	tmp, err := e.fs.CreateTemp(c.LocalPath)
	if err != nil {
		return 0, "", wrap(err)
	}

	var hw *hashingWriter
	status, n, err := func() (int, int64, error) {
		if e.req.Checksum {
			hw = newHashingWriter(tmp)
			return e.remote.Get(ctx, e.req.Bucket, c.RemoteKey, hw)
		}
		return e.remote.Get(ctx, e.req.Bucket, c.RemoteKey, tmp)
	}()

	closeErr := tmp.Close()
	if err == nil && status != storage.StatusGetObject {
		err = &errorpkg.StatusError{Op: "download", Status: status, Expected: storage.StatusGetObject}
	}
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = e.fs.Rename(tmp.Name(), c.LocalPath)
	}
	if err != nil {
		_ = e.fs.Remove(tmp.Name())
		return 0, "", wrap(err)
	}

	var checksum string
	if hw != nil {
		checksum = hw.Sum()
	}
	return n, checksum, nil
}

// sync has no defined behavior and always reports a failed outcome.
func (e *Engine) sync() *Summary {
	e.sink.Error("Sync operation is not implemented")
	return Aggregate(OperationSync, []Outcome{{
		LocalPath: e.req.LocalPath,
		RemoteKey: e.req.RemotePath,
		Status:    StatusError,
		Error:     fmt.Sprintf("sync: %v", errorpkg.ErrNotImplemented),
	}})
}

func (e *Engine) createBucket(ctx context.Context) *Summary {
	status, err := e.remote.CreateBucket(ctx, e.req.Bucket, e.req.StorageClass)
	if err == nil && status != storage.StatusCreateBucket {
		err = &errorpkg.StatusError{Op: "create bucket", Status: status, Expected: storage.StatusCreateBucket}
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to create bucket: %v", err)
		e.sink.Error(msg)
		return e.bucketSummary(OperationCreateBucket, msg)
	}

	e.sink.Success(fmt.Sprintf("Bucket created: %v", e.req.Bucket))
	return e.bucketSummary(OperationCreateBucket, "")
}

func (e *Engine) deleteBucket(ctx context.Context) *Summary {
	status, err := e.remote.DeleteBucket(ctx, e.req.Bucket)
	if err == nil && status != storage.StatusDeleteBucket {
		err = &errorpkg.StatusError{Op: "delete bucket", Status: status, Expected: storage.StatusDeleteBucket}
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to delete bucket: %v", err)
		e.sink.Error(msg)
		return e.bucketSummary(OperationDeleteBucket, msg)
	}

	e.sink.Success(fmt.Sprintf("Bucket deleted: %v", e.req.Bucket))
	return e.bucketSummary(OperationDeleteBucket, "")
}

// bucketSummary is the single outcome summary of a bucket operation.
func (e *Engine) bucketSummary(op Operation, errMsg string) *Summary {
	outcome := Outcome{RemoteKey: e.req.Bucket, Status: StatusSuccess}
	if errMsg != "" {
		outcome.Status = StatusError
		outcome.Error = errMsg
	}
	return Aggregate(op, []Outcome{outcome})
}
