package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSerialNumber(t *testing.T) {
	serial := GenerateSerialNumber()

	assert.True(t, strings.HasPrefix(serial, "INV-"), "serial %q missing prefix", serial)
	// "INV-" plus a 26 character ULID
	assert.Len(t, serial, 30)
}

func TestGenerateSerialNumber_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		serial := GenerateSerialNumber()
		_, dup := seen[serial]
		assert.False(t, dup, "duplicate serial %q", serial)
		seen[serial] = struct{}{}
	}
}
