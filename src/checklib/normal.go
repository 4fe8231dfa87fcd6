package checklib

import "strings"

// Normal ... output matches expected once leading and trailing whitespace is stripped from both.
// interior whitespace, including blank lines and \r, must match exactly
func Normal(userOutput string, testOutput string) bool {
	return strings.TrimSpace(userOutput) == strings.TrimSpace(testOutput)
}
