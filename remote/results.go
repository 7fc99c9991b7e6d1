package remote

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/spf13/afero"
)

// DefaultResultsParent is the directory under which timestamped results directories are created.
const DefaultResultsParent = "../test_results"

// ResultsDirName delivers the results directory name for t, formatted M-D-YYYY_H:MM:SS.
func ResultsDirName(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d_%d:%02d:%02d", t.Month(), t.Day(), t.Year(), t.Hour(), t.Minute(), t.Second())
}

// SetupResultsDir creates parent and a results directory beneath it named for now.
// Directories that already exist are not an error.
func SetupResultsDir(ctx context.Context, fs afero.Fs, parent string, now time.Time) (dir string, err error) {
	trace := ContextSessionTrace(ctx)
	if parent == "" {
		parent = DefaultResultsParent
	}
	path := filepath.Join(parent, ResultsDirName(now))
	defer func() {
		trace.ResultsDirCreated(path, err)
	}()

	if err = fs.MkdirAll(path, 0o755); err != nil {
		trace.Error("SetupResultsDir", path, err)
		return "", envelope.WrapError(envelope.ConfigurationError, err, "failed to create test result directory: "+path)
	}
	return path, nil
}
