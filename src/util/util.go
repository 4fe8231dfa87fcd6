package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var fileNameRegexp = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidationCheck ... name is usable as a single file name inside the workspace
func ValidationCheck(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return fileNameRegexp.MatchString(name)
}

// ShellQuote quotes s for POSIX sh.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Seconds formats d for timeout(1), e.g. 1.5s -> "1.5".
func Seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
