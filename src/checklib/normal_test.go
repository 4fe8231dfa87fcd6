package checklib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormal(t *testing.T) {
	cases := []struct {
		name   string
		user   string
		test   string
		expect bool
	}{
		{"exact", "9\n", "9\n", true},
		{"missing trailing newline", "9", "9\n", true},
		{"extra trailing newlines", "9\n\n\n", "9\n", true},
		{"leading whitespace", "  \t9\n", "9", true},
		{"both empty", "", "\n", true},
		{"different value", "8\n", "9\n", false},
		{"interior space", "1  2\n", "1 2\n", false},
		{"interior newline", "1\n2\n", "1 2\n", false},
		{"interior blank line", "1\n\n2", "1\n2", false},
		{"crlf inside", "1\r\n2", "1\n2", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expect, Normal(c.user, c.test))
		})
	}
}
