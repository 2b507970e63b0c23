package error

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/hashicorp/go-multierror"
	"gotest.tools/v3/assert"
)

func TestIsCancelation(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
			want: false,
		},
		{
			name: "context_canceled",
			err:  context.Canceled,
			want: true,
		},
		{
			name: "wrapped_context_canceled",
			err:  &Error{Op: "upload", Err: fmt.Errorf("put: %w", context.Canceled)},
			want: true,
		},
		{
			name: "aws_request_canceled",
			err:  awserr.New(request.CanceledErrorCode, "canceled", nil),
			want: true,
		},
		{
			name: "multierror_with_cancelation",
			err:  multierror.Append(errors.New("other"), context.Canceled),
			want: true,
		},
		{
			name: "other_error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, IsCancelation(tc.err), tc.want)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	cause := errors.New("denied")

	testcases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status",
			err:  &StatusError{Op: "upload", Status: 503, Expected: 200},
			want: "upload failed with status: 503 (expected 200)",
		},
		{
			name: "config",
			err:  &ConfigError{Field: "bucket", Err: errors.New("bucket is required")},
			want: "bucket: bucket is required",
		},
		{
			name: "config_without_field",
			err:  &ConfigError{Err: errors.New("bad input")},
			want: "bad input",
		},
		{
			name: "listing",
			err:  &ListingError{Bucket: "b", Prefix: "logs/", Err: cause},
			want: "list s3://b/logs/: denied",
		},
		{
			name: "pattern",
			err:  &PatternError{Pattern: "data/*", Err: cause},
			want: `error expanding pattern "data/*": denied`,
		},
		{
			name: "operation",
			err:  &Error{Op: "download", Src: "k", Dst: "f", Err: cause},
			want: "denied",
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Error(t, tc.err, tc.want)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("denied")
	err := &Error{Op: "upload", Src: "a.txt", Dst: "backup/a.txt", Err: &ListingError{Err: cause}}

	assert.Assert(t, errors.Is(err, cause))
	assert.Equal(t, err.FullCommand(), "upload a.txt backup/a.txt")
}
