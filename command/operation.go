package command

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"

	errorpkg "github.com/peak/s5xfer/error"
	"github.com/peak/s5xfer/log"
	"github.com/peak/s5xfer/log/stat"
	"github.com/peak/s5xfer/progressbar"
	"github.com/peak/s5xfer/storage"
	"github.com/peak/s5xfer/strutil"
	"github.com/peak/s5xfer/transfer"
)

var operationHelpTemplate = `Name:
	{{.HelpName}} - {{.Usage}}

Usage:
	{{.HelpName}} [options]

Options:
	{{range .VisibleFlags}}{{.}}
	{{end}}
Examples:
	1. Upload all text files of a directory under the "backup" prefix
		 > s5xfer --bucket mybucket --local-path "data/*.txt" --remote-path backup upload

	2. Upload a directory with its structure and a single file
		 > s5xfer --bucket mybucket --local-path "site,robots.txt" --remote-path www upload

	3. Download every object under a prefix except temporary files
		 > s5xfer --bucket mybucket --remote-path logs/ --local-path out --exclude "*.tmp" download

	4. Show what would be uploaded without uploading
		 > s5xfer --bucket mybucket --local-path dist --dry-run upload

	5. Create a bucket with a storage class
		 > s5xfer --bucket mybucket --storage-class STANDARD_IA create-bucket
`

// errNoTransfer is returned when files were attempted and none of them could
// be transferred.
var errNoTransfer = fmt.Errorf("no file could be transferred")

func newOperationCommand(op transfer.Operation, usage string) *cli.Command {
	return &cli.Command{
		Name:               string(op),
		HelpName:           string(op),
		Usage:              usage,
		CustomHelpTemplate: operationHelpTemplate,
		Action: func(c *cli.Context) error {
			return runOperation(c, op)
		},
	}
}

// runOperation executes op with the configuration found in c.
func runOperation(c *cli.Context, op transfer.Operation) (err error) {
	defer stat.Collect(string(op), time.Now(), &err)()

	req, err := requestFromContext(c, op)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	client, err := storage.NewS3Storage(NewStorageOpts(c))
	if err != nil {
		return &errorpkg.ConfigError{Field: "credentials", Err: err}
	}
	defer client.Close()

	var bar progressbar.ProgressBar = progressbar.NoOp{}
	if c.Bool("show-progress") {
		bar = progressbar.New()
	}

	engine := transfer.New(
		client,
		storage.NewFilesystem(false),
		req,
		transfer.WithSink(log.NewSink(c.Bool("progress"))),
		transfer.WithProgressBar(bar),
		transfer.WithPublicURL(client.ObjectURL),
	)

	summary, err := engine.Run(c.Context)
	if err != nil {
		return err
	}

	log.Info(log.SummaryMessage{
		Operation:        string(summary.Operation),
		Processed:        summary.Processed,
		Success:          summary.Success,
		Errors:           summary.Errors,
		BytesTransferred: summary.BytesTransferred,
		Duration:         summary.Duration,
		ErrorMessages:    summary.ErrorMessages,
	})

	if path := c.String("output-file"); path != "" {
		if werr := writeOutputs(path, summary); werr != nil {
			err = multierror.Append(err, werr)
		}
	}

	if summary.Failed() {
		err = multierror.Append(err, errNoTransfer)
	}
	return err
}

// requestFromContext builds the run configuration from the flags.
func requestFromContext(c *cli.Context, op transfer.Operation) (transfer.Request, error) {
	if op == "" {
		return transfer.Request{}, &errorpkg.ConfigError{
			Field: "operation",
			Err:   fmt.Errorf("operation is required"),
		}
	}

	return transfer.Request{
		Operation:         op,
		Bucket:            c.String("bucket"),
		LocalPath:         c.String("local-path"),
		RemotePath:        c.String("remote-path"),
		Include:           splitPatterns(c.StringSlice("include")),
		Exclude:           splitPatterns(c.StringSlice("exclude")),
		PreserveStructure: c.Bool("preserve-structure"),
		Concurrency:       c.Int("concurrency"),
		MaxRetries:        c.Int("retry-count"),
		Checksum:          c.Bool("checksum-validation"),
		DryRun:            c.Bool("dry-run"),
		StorageClass:      storage.StorageClass(c.String("storage-class")),
		PublicRead:        c.Bool("public-read"),
	}, nil
}

// splitPatterns flattens comma separated pattern lists as they arrive from a
// single environment variable.
func splitPatterns(values []string) []string {
	var patterns []string
	for _, v := range values {
		patterns = append(patterns, strutil.SplitList(v)...)
	}
	return patterns
}

// NewStorageOpts returns the connection options of the object store.
func NewStorageOpts(c *cli.Context) storage.S3Opts {
	return storage.S3Opts{
		AccessKey:   c.String("access-key"),
		SecretKey:   c.String("secret-key"),
		EndpointURL: c.String("endpoint-url"),
		Region:      c.String("region"),
		NoVerifySSL: c.Bool("no-verify-ssl"),
		Timeout:     c.Duration("timeout"),
	}
}
