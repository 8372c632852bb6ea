package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	valid := []string{":8080", "localhost:8080", "127.0.0.1:80", "portal.example.com:65535"}
	for _, addr := range valid {
		assert.True(t, ValidateAddress(addr), addr)
	}

	invalid := []string{"", "localhost", ":0", ":65536", "-bad-:8080", "host:port"}
	for _, addr := range invalid {
		assert.False(t, ValidateAddress(addr), addr)
	}
}
