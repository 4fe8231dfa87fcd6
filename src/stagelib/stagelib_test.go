package stagelib

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

type fakeFetcher map[string]string

func (f fakeFetcher) Fetch(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	content, ok := f[bucket+"/"+object]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func squareAssignment() *types.Assignment {
	return &types.Assignment{
		ID:         "square",
		TestCodes:  map[string]string{"main.c": "int main(void) { return 0; }\n"},
		Makefile:   "all:\n\tgcc -o square main.c square.c\n",
		BinaryName: "square",
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestStage(t *testing.T) {
	submission := filepath.Join(t.TempDir(), "square.c")
	require.NoError(t, os.WriteFile(submission, []byte("int square(int x) { return x * x; }\n"), 0644))

	ws, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	defer ws.Remove()

	testcases := []types.TestCase{{Name: "t1", Input: "3\n", Output: "9\n"}}
	require.NoError(t, ws.Stage(context.Background(), squareAssignment(), testcases, []string{submission}))

	assert.Equal(t, "int main(void) { return 0; }\n", readFile(t, ws.Path("main.c")))
	assert.Equal(t, "all:\n\tgcc -o square main.c square.c\n", readFile(t, ws.Path("Makefile")))
	assert.Equal(t, "3\n", readFile(t, ws.Path("t1.in")))
	assert.Equal(t, "9\n", readFile(t, ws.Path("t1.exp")))
	assert.Equal(t, "int square(int x) { return x * x; }\n", readFile(t, ws.Path("square.c")))

	info, err := os.Stat(ws.Dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0777), info.Mode().Perm())
}

func TestStageOverwritesTestCode(t *testing.T) {
	submission := filepath.Join(t.TempDir(), "main.c")
	require.NoError(t, os.WriteFile(submission, []byte("submitted"), 0644))

	ws, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	defer ws.Remove()

	require.NoError(t, ws.Stage(context.Background(), squareAssignment(), nil, []string{submission}))
	assert.Equal(t, "submitted", readFile(t, ws.Path("main.c")))
}

func TestStageFromBucket(t *testing.T) {
	fetcher := fakeFetcher{"submissions/42/square.c": "from bucket"}
	ws, err := New(t.TempDir(), fetcher)
	require.NoError(t, err)
	defer ws.Remove()

	require.NoError(t, ws.Stage(context.Background(), squareAssignment(), nil, []string{"gs://submissions/42/square.c"}))
	assert.Equal(t, "from bucket", readFile(t, ws.Path("square.c")))
}

func TestStageErrors(t *testing.T) {
	tests := []struct {
		name        string
		testcases   []types.TestCase
		submissions []string
	}{
		{"missing submission", nil, []string{"/nonexistent/square.c"}},
		{"bucket without fetcher", nil, []string{"gs://submissions/square.c"}},
		{"test name escapes workspace", []types.TestCase{{Name: "../evil"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := New(t.TempDir(), nil)
			require.NoError(t, err)
			defer ws.Remove()

			err = ws.Stage(context.Background(), squareAssignment(), tt.testcases, tt.submissions)
			var stagingErr *StagingError
			assert.True(t, errors.As(err, &stagingErr))
		})
	}
}

func TestRemoveIdempotent(t *testing.T) {
	ws, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, ws.Remove())
	require.NoError(t, ws.Remove())
	_, err = os.Stat(ws.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSplitBucketURL(t *testing.T) {
	bucket, object, ok := SplitBucketURL("gs://submissions/42/square.c")
	assert.True(t, ok)
	assert.Equal(t, "submissions", bucket)
	assert.Equal(t, "42/square.c", object)

	for _, url := range []string{"square.c", "gs://", "gs://bucket", "gs://bucket/", "/tmp/gs://x/y"} {
		_, _, ok := SplitBucketURL(url)
		assert.False(t, ok, url)
	}
}
