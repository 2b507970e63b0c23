package command

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/peak/s5xfer/strutil"
	"github.com/peak/s5xfer/transfer"
)

// output is a single named result of a run.
type output struct {
	name  string
	value string
}

// outputs lists the results published to the workflow runner.
func outputs(summary *transfer.Summary) []output {
	fileList := summary.Outcomes
	if fileList == nil {
		fileList = []transfer.Outcome{}
	}

	return []output{
		{name: "FilesProcessed", value: strconv.Itoa(summary.Processed)},
		{name: "BytesTransferred", value: strconv.FormatInt(summary.BytesTransferred, 10)},
		{name: "OperationTime", value: strconv.FormatFloat(summary.Duration.Seconds(), 'f', -1, 64)},
		{name: "SuccessCount", value: strconv.Itoa(summary.Success)},
		{name: "ErrorCount", value: strconv.Itoa(summary.Errors)},
		{name: "FileList", value: strutil.JSON(fileList)},
	}
}

// formatOutputs renders outputs as name=value lines. Values spanning lines
// use the delimiter syntax.
func formatOutputs(outs []output) string {
	var b strings.Builder
	for _, o := range outs {
		name := strcase.ToSnake(o.name)
		if !strings.Contains(o.value, "\n") {
			fmt.Fprintf(&b, "%v=%v\n", name, o.value)
			continue
		}

		delimiter := "S5XFER_EOF"
		for strings.Contains(o.value, delimiter) {
			delimiter += "_"
		}
		fmt.Fprintf(&b, "%v<<%v\n%v\n%v\n", name, delimiter, o.value, delimiter)
	}
	return b.String()
}

// writeOutputs appends the results of a run to the file at path.
func writeOutputs(path string, summary *transfer.Summary) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}

	if _, err := f.WriteString(formatOutputs(outputs(summary))); err != nil {
		f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}
