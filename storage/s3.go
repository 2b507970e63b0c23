package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/endpoints"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/peak/s5xfer/version"
)

var _ Remote = (*S3)(nil)

// storageClassHeader carries the default storage class of a new bucket.
const storageClassHeader = "x-default-storage-class"

// S3 is a Remote which talks to an S3 compatible service.
type S3 struct {
	api    s3iface.S3API
	opts   S3Opts
	region string
}

// S3Opts stores configuration for S3 storage.
type S3Opts struct {
	AccessKey   string
	SecretKey   string
	EndpointURL string
	Region      string
	NoVerifySSL bool
	Timeout     time.Duration
}

// NewS3Storage creates new S3 session.
func NewS3Storage(opts S3Opts) (*S3, error) {
	awsSession, err := newAWSSession(opts)
	if err != nil {
		return nil, err
	}

	name, ver := version.UserAgent()
	awsSession.Handlers.Build.PushBack(request.MakeAddToUserAgentHandler(name, ver))

	return &S3{
		api:    s3.New(awsSession),
		opts:   opts,
		region: aws.StringValue(awsSession.Config.Region),
	}, nil
}

// Put uploads body under the given key with a single request.
func (s *S3) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, opts PutOptions) (int, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.StorageClass != "" {
		input.SetStorageClass(string(opts.StorageClass))
	}
	if opts.ACL != "" {
		input.SetACL(opts.ACL)
	}

	req, _ := s.api.PutObjectRequest(input)
	req.SetContext(ctx)
	err := req.Send()
	return statusOf(req, err), err
}

// Get streams the object into w and returns the number of bytes written.
func (s *S3) Get(ctx context.Context, bucket, key string, w io.Writer) (int, int64, error) {
	req, output := s.api.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)
	if err := req.Send(); err != nil {
		return statusOf(req, err), 0, err
	}
	defer output.Body.Close()

	n, err := io.Copy(w, output.Body)
	return statusOf(req, nil), n, err
}

// List fetches a single listing page which starts after marker. If the page
// is truncated and the service did not return a continuation token, the last
// key of the page is used instead.
func (s *S3) List(ctx context.Context, bucket, prefix, marker string, maxKeys int64) (*ListPage, error) {
	input := &s3.ListObjectsInput{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.SetPrefix(prefix)
	}
	if marker != "" {
		input.SetMarker(marker)
	}
	if maxKeys > 0 {
		input.SetMaxKeys(maxKeys)
	}

	req, output := s.api.ListObjectsRequest(input)
	req.SetContext(ctx)
	if err := req.Send(); err != nil {
		return &ListPage{Status: statusOf(req, err)}, err
	}

	page := &ListPage{
		Status:      statusOf(req, nil),
		IsTruncated: aws.BoolValue(output.IsTruncated),
		NextMarker:  aws.StringValue(output.NextMarker),
	}
	for _, c := range output.Contents {
		page.Objects = append(page.Objects, Object{
			Key:  aws.StringValue(c.Key),
			Size: aws.Int64Value(c.Size),
		})
	}

	if page.IsTruncated && page.NextMarker == "" && len(page.Objects) > 0 {
		page.NextMarker = page.Objects[len(page.Objects)-1].Key
	}

	return page, nil
}

// CreateBucket creates a bucket in the configured region with the given
// default storage class.
func (s *S3) CreateBucket(ctx context.Context, bucket string, class StorageClass) (int, error) {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	if s.region != "" && s.region != endpoints.UsEast1RegionID {
		input.SetCreateBucketConfiguration(&s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(s.region),
		})
	}

	req, _ := s.api.CreateBucketRequest(input)
	req.SetContext(ctx)
	if class != "" {
		req.HTTPRequest.Header.Set(storageClassHeader, string(class))
	}
	err := req.Send()
	return statusOf(req, err), err
}

// DeleteBucket deletes an empty bucket.
func (s *S3) DeleteBucket(ctx context.Context, bucket string) (int, error) {
	req, _ := s.api.DeleteBucketRequest(&s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	req.SetContext(ctx)
	err := req.Send()
	return statusOf(req, err), err
}

// SignedURL returns a presigned GET url of the object valid for ttl.
func (s *S3) SignedURL(bucket, key string, ttl time.Duration) (string, error) {
	req, _ := s.api.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return req.Presign(ttl)
}

// ObjectURL returns the unsigned url of the object. It is only readable when
// the object was uploaded with a public ACL.
func (s *S3) ObjectURL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	escaped := strings.Join(segments, "/")

	if s.opts.EndpointURL != "" {
		return fmt.Sprintf("%v/%v/%v", strings.TrimSuffix(s.opts.EndpointURL, "/"), bucket, escaped)
	}
	return fmt.Sprintf("https://%v.s3.%v.amazonaws.com/%v", bucket, s.region, escaped)
}

// Close releases idle connections of the underlying http client.
func (s *S3) Close() error {
	if client, ok := s.api.(*s3.S3); ok && client.Config.HTTPClient != nil {
		client.Config.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// statusOf returns the http status code of a sent request. Failed requests
// which carry a service response report its status code.
func statusOf(req *request.Request, err error) int {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode()
	}
	if req.HTTPResponse != nil {
		return req.HTTPResponse.StatusCode
	}
	return 0
}

// newAWSSession initializes a new AWS session with region fallback and custom
// options. Retries of the SDK are disabled, attempts are counted by the
// caller.
func newAWSSession(opts S3Opts) (*session.Session, error) {
	newSession := func(c *aws.Config) (*session.Session, error) {
		useSharedConfig := session.SharedConfigEnable

		// Reverse of what the SDK does: if AWS_SDK_LOAD_CONFIG is 0 (or a falsy value) disable shared configs
		loadCfg := os.Getenv("AWS_SDK_LOAD_CONFIG")
		if loadCfg != "" {
			if enable, _ := strconv.ParseBool(loadCfg); !enable {
				useSharedConfig = session.SharedConfigDisable
			}
		}
		return session.NewSessionWithOptions(session.Options{Config: *c, SharedConfigState: useSharedConfig})
	}

	awsCfg := aws.NewConfig().WithMaxRetries(0)

	if opts.AccessKey != "" && opts.SecretKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(opts.AccessKey, opts.SecretKey, ""))
	}

	if opts.EndpointURL != "" {
		awsCfg = awsCfg.WithEndpoint(opts.EndpointURL).WithS3ForcePathStyle(true)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.NoVerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	awsCfg = awsCfg.WithHTTPClient(&http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	})

	if opts.Region != "" {
		awsCfg = awsCfg.WithRegion(opts.Region)
		return newSession(awsCfg)
	}

	ses, err := newSession(awsCfg)
	if err != nil {
		return nil, err
	}
	if (*ses).Config.Region == nil || *(*ses).Config.Region == "" {
		// No region specified in env or config, fallback to us-east-1
		awsCfg = awsCfg.WithRegion(endpoints.UsEast1RegionID)
		ses, err = newSession(awsCfg)
	}

	return ses, err
}

func errHasCode(err error, code string) bool {
	if code == "" || err == nil {
		return false
	}

	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		if awsErr.Code() == code {
			return true
		}
	}
	return false
}

// IsCancelationError reports whether err is a request cancelled by its
// context.
func IsCancelationError(err error) bool {
	return errHasCode(err, request.CanceledErrorCode)
}
