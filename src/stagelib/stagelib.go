package stagelib

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
	"github.com/dsa-sandbox/sandbox-judge/src/util"
)

const (
	MakefileName = "Makefile"
	gcsScheme    = "gs://"
)

// StagingError ... the workspace could not be prepared. no sandbox exists yet when this happens
type StagingError struct {
	Err error
}

func (e *StagingError) Error() string {
	return "staging failed: " + e.Err.Error()
}

func (e *StagingError) Unwrap() error {
	return e.Err
}

// Fetcher reads objects from a bucket store.
type Fetcher interface {
	Fetch(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

// Workspace ... the host directory bound into the sandbox
type Workspace struct {
	Dir     string
	fetcher Fetcher

	removeOnce sync.Once
	removeErr  error
}

// New creates an empty workspace under root (os.TempDir() when root is empty).
// fetcher may be nil when no submission lives in a bucket.
func New(root string, fetcher Fetcher) (*Workspace, error) {
	dir, err := os.MkdirTemp(root, "dsa-judge-*")
	if err != nil {
		return nil, &StagingError{Err: errors.Wrap(err, "failed to create workspace")}
	}
	// the sandbox user is not the host user
	if err := os.Chmod(dir, 0777); err != nil {
		os.RemoveAll(dir)
		return nil, &StagingError{Err: errors.Wrap(err, "failed to chmod workspace")}
	}
	return &Workspace{Dir: dir, fetcher: fetcher}, nil
}

// Stage writes the test codes, the Makefile, <name>.in / <name>.exp for every test case
// and the submitted files. existing files are overwritten
func (w *Workspace) Stage(ctx context.Context, assignment *types.Assignment, testcases []types.TestCase, submissions []string) error {
	if !util.ValidationCheck(assignment.BinaryName) {
		return &StagingError{Err: errors.Errorf("invalid binary name %q", assignment.BinaryName)}
	}

	for name, content := range assignment.TestCodes {
		if err := w.WriteFile(name, content); err != nil {
			return err
		}
	}

	if err := w.WriteFile(MakefileName, assignment.Makefile); err != nil {
		return err
	}

	for _, testcase := range testcases {
		if err := w.WriteFile(testcase.Name+".in", testcase.Input); err != nil {
			return err
		}
		if err := w.WriteFile(testcase.Name+".exp", testcase.Output); err != nil {
			return err
		}
	}

	for _, submission := range submissions {
		if err := w.copySubmission(ctx, submission); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) WriteFile(name, content string) error {
	if !util.ValidationCheck(name) {
		return &StagingError{Err: errors.Errorf("invalid file name %q", name)}
	}
	if err := os.WriteFile(w.Path(name), []byte(content), 0666); err != nil {
		return &StagingError{Err: errors.Wrapf(err, "failed to write %s", name)}
	}
	return nil
}

func (w *Workspace) ReadFile(name string) (string, error) {
	b, err := os.ReadFile(w.Path(name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (w *Workspace) Exists(name string) bool {
	_, err := os.Stat(w.Path(name))
	return err == nil
}

func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Remove deletes the workspace. only the first call does work
func (w *Workspace) Remove() error {
	w.removeOnce.Do(func() {
		if err := os.RemoveAll(w.Dir); err != nil {
			w.removeErr = errors.Wrapf(err, "failed to remove workspace %s", w.Dir)
		}
	})
	return w.removeErr
}

func (w *Workspace) copySubmission(ctx context.Context, submission string) error {
	var (
		name   string
		reader io.ReadCloser
		err    error
	)

	if bucket, object, ok := SplitBucketURL(submission); ok {
		if w.fetcher == nil {
			return &StagingError{Err: errors.Errorf("no bucket fetcher configured for %s", submission)}
		}
		name = path.Base(object)
		reader, err = w.fetcher.Fetch(ctx, bucket, object)
	} else {
		name = filepath.Base(submission)
		reader, err = os.Open(submission)
	}
	if err != nil {
		return &StagingError{Err: errors.Wrapf(err, "failed to open submission %s", submission)}
	}
	defer reader.Close()

	if !util.ValidationCheck(name) {
		return &StagingError{Err: errors.Errorf("invalid submission file name %q", name)}
	}

	fp, err := os.OpenFile(w.Path(name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return &StagingError{Err: errors.Wrapf(err, "failed to create %s", name)}
	}
	defer fp.Close()

	if _, err := io.Copy(fp, reader); err != nil {
		return &StagingError{Err: errors.Wrapf(err, "failed to copy submission %s", submission)}
	}
	return nil
}

// SplitBucketURL splits gs://bucket/object. ok is false for anything else
func SplitBucketURL(url string) (bucket, object string, ok bool) {
	if !strings.HasPrefix(url, gcsScheme) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(url, gcsScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
