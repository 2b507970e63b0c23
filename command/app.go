package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/peak/s5xfer/log"
	"github.com/peak/s5xfer/log/stat"
	"github.com/peak/s5xfer/parallel/fdlimit"
	"github.com/peak/s5xfer/storage"
	"github.com/peak/s5xfer/transfer"
)

const (
	defaultRegion  = "us-east-1"
	defaultTimeout = 5 * time.Minute

	appName = "s5xfer"
)

func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "access-key",
			Usage:   "access key id of the object store",
			EnvVars: inputEnv("access-key", "AWS_ACCESS_KEY_ID"),
		},
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "secret access key of the object store",
			EnvVars: inputEnv("secret-key", "AWS_SECRET_ACCESS_KEY"),
		},
		&cli.StringFlag{
			Name:    "region",
			Value:   defaultRegion,
			Usage:   "region of the bucket",
			EnvVars: inputEnv("region", "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "endpoint-url",
			Usage:   "override default S3 host for custom services",
			EnvVars: inputEnv("endpoint-url", "S3_ENDPOINT_URL"),
		},
		&cli.BoolFlag{
			Name:    "no-verify-ssl",
			Usage:   "disable SSL certificate verification",
			EnvVars: inputEnv("no-verify-ssl"),
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Value:   defaultTimeout,
			Usage:   "timeout of a single request to the object store",
			EnvVars: inputEnv("timeout"),
		},
		&cli.StringFlag{
			Name:    "bucket",
			Usage:   "name of the bucket",
			EnvVars: inputEnv("bucket"),
		},
		&cli.GenericFlag{
			Name: "operation",
			Value: &EnumValue{
				Enum:              operationNames(),
				Default:           string(transfer.OperationUpload),
				ConditionFunction: caseInsensitive,
			},
			Usage:   "operation to run when no command is given: (upload, download, sync, create-bucket, delete-bucket)",
			EnvVars: inputEnv("operation"),
		},
		&cli.StringFlag{
			Name:    "local-path",
			Usage:   "comma separated local files, directories or wildcards to upload, or the directory to download into",
			EnvVars: inputEnv("local-path"),
		},
		&cli.StringFlag{
			Name:    "remote-path",
			Usage:   "destination prefix of uploads or source prefix of downloads",
			EnvVars: inputEnv("remote-path", "INPUT_OBS_PATH"),
		},
		&cli.StringSliceFlag{
			Name:    "include",
			Usage:   "include only paths that match the wildcard pattern",
			EnvVars: inputEnv("include"),
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Usage:   "exclude paths that match the wildcard pattern",
			EnvVars: inputEnv("exclude"),
		},
		&cli.BoolFlag{
			Name:    "preserve-structure",
			Value:   true,
			Usage:   "keep the directory structure below the given directories",
			EnvVars: inputEnv("preserve-structure"),
		},
		&cli.IntFlag{
			Name:    "concurrency",
			Aliases: []string{"c"},
			Value:   transfer.DefaultConcurrency,
			Usage:   "number of files transferred at the same time",
			EnvVars: inputEnv("concurrency"),
		},
		&cli.IntFlag{
			Name:    "retry-count",
			Aliases: []string{"r"},
			Value:   transfer.DefaultMaxRetries,
			Usage:   "number of times that a failed transfer will be retried",
			EnvVars: inputEnv("retry-count"),
		},
		&cli.BoolFlag{
			Name:    "dry-run",
			Usage:   "show what would be transferred without transferring",
			EnvVars: inputEnv("dry-run"),
		},
		&cli.BoolFlag{
			Name:    "progress",
			Value:   true,
			Usage:   "print progress messages",
			EnvVars: inputEnv("progress"),
		},
		&cli.BoolFlag{
			Name:    "checksum-validation",
			Usage:   "compute the MD5 digest of every transferred file",
			EnvVars: inputEnv("checksum-validation"),
		},
		&cli.GenericFlag{
			Name: "storage-class",
			Value: &EnumValue{
				Enum:              storageClassNames(),
				Default:           string(storage.StorageStandard),
				ConditionFunction: caseInsensitive,
			},
			Usage:   "storage class of uploaded objects and created buckets",
			EnvVars: inputEnv("storage-class"),
		},
		&cli.BoolFlag{
			Name:    "public-read",
			Usage:   "make uploaded objects readable by everyone",
			EnvVars: inputEnv("public-read"),
		},
		&cli.GenericFlag{
			Name: "log",
			Value: &EnumValue{
				Enum:    log.Levels,
				Default: "info",
			},
			Usage:   "log level: (debug, info, warning, error)",
			EnvVars: inputEnv("log"),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "enable JSON formatted output",
		},
		&cli.BoolFlag{
			Name:  "stat",
			Usage: "collect statistics of program execution and display it at the end",
		},
		&cli.BoolFlag{
			Name:    "show-progress",
			Aliases: []string{"sp"},
			Usage:   "show a progress bar",
		},
		&cli.StringFlag{
			Name:    "output-file",
			Usage:   "file the step outputs are appended to",
			EnvVars: []string{"GITHUB_OUTPUT"},
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "Bulk transfer of files between the local filesystem and S3 compatible storage",
		Flags: appFlags(),
		Before: func(c *cli.Context) error {
			log.Init(c.String("log"), c.Bool("json"))

			if c.Bool("stat") {
				stat.InitStat()
			}

			if err := fdlimit.Raise(c.Int("concurrency") * 2); err != nil {
				log.Debug(log.DebugMessage{Content: fmt.Sprintf("could not raise the open files limit: %v", err)})
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			op := transfer.Operation(c.String("operation"))
			return runOperation(c, op)
		},
		After: func(c *cli.Context) error {
			if c.Bool("stat") {
				for _, s := range stat.Statistics() {
					log.Stat(s)
				}
			}
			log.Close()
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			op := c.String("operation")
			if c.Command != nil && c.Command.Name != "" {
				op = c.Command.Name
			}
			printError(commandFromContext(c), op, err)
		},
		Commands: []*cli.Command{
			newOperationCommand(transfer.OperationUpload, "upload local files to a bucket"),
			newOperationCommand(transfer.OperationDownload, "download the objects under a prefix"),
			newOperationCommand(transfer.OperationSync, "synchronize a local directory with a prefix"),
			newOperationCommand(transfer.OperationCreateBucket, "create a bucket"),
			newOperationCommand(transfer.OperationDeleteBucket, "delete an empty bucket"),
			NewVersionCommand(),
		},
	}
}

// Main runs the application with the given arguments.
func Main(ctx context.Context, args []string) error {
	return newApp().RunContext(ctx, args)
}

func operationNames() []string {
	names := make([]string, 0, len(transfer.Operations))
	for _, op := range transfer.Operations {
		names = append(names, string(op))
	}
	return names
}

func storageClassNames() []string {
	names := make([]string, 0, len(storage.StorageClasses))
	for _, class := range storage.StorageClasses {
		names = append(names, string(class))
	}
	return names
}
