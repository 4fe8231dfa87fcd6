package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationCheck(t *testing.T) {
	assert.True(t, ValidationCheck("t1"))
	assert.True(t, ValidationCheck("main.c"))
	assert.True(t, ValidationCheck("heavy_01-a"))
	assert.False(t, ValidationCheck(""))
	assert.False(t, ValidationCheck(".."))
	assert.False(t, ValidationCheck("../etc/passwd"))
	assert.False(t, ValidationCheck("a b"))
	assert.False(t, ValidationCheck("dir/file"))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'make'", ShellQuote("make"))
	assert.Equal(t, `'it'\''s'`, ShellQuote("it's"))
	assert.Equal(t, "'gcc a.c && ./a.out'", ShellQuote("gcc a.c && ./a.out"))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, "1", Seconds(time.Second))
	assert.Equal(t, "0.5", Seconds(500*time.Millisecond))
	assert.Equal(t, "30", Seconds(30*time.Second))
	assert.Equal(t, "1.25", Seconds(1250*time.Millisecond))
}

func TestConfigValidate(t *testing.T) {
	conf := DefaultConfig()
	require.NoError(t, conf.Validate())

	bad := conf
	bad.Policy = "best"
	assert.Error(t, bad.Validate())

	bad = conf
	bad.DBMS = "oracle"
	assert.Error(t, bad.Validate())

	bad = conf
	bad.BuildTimeout = 0
	assert.Error(t, bad.Validate())

	bad = conf
	bad.NatsSubject = "results"
	assert.Error(t, bad.Validate())
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SANDBOX_JUDGE_TEST_KEY=hello\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("SANDBOX_JUDGE_TEST_KEY") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "hello", os.Getenv("SANDBOX_JUDGE_TEST_KEY"))
}
