package tag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Path string `default:"/tmp/portal"`
}

type sample struct {
	Host    string        `default:"localhost"`
	Port    int           `default:"8080"`
	Enabled bool          `default:"true"`
	Ratio   float64       `default:"0.5"`
	Timeout time.Duration `default:"30s"`
	Nested  nested
}

func TestApplyDefaults(t *testing.T) {
	s := &sample{}
	require.NoError(t, ApplyDefaults(s))

	assert.Equal(t, "localhost", s.Host)
	assert.Equal(t, 8080, s.Port)
	assert.True(t, s.Enabled)
	assert.Equal(t, 0.5, s.Ratio)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, "/tmp/portal", s.Nested.Path)
}

func TestApplyDefaultsKeepsExistingValues(t *testing.T) {
	s := &sample{Host: "example.com", Port: 9090}
	require.NoError(t, ApplyDefaults(s))

	assert.Equal(t, "example.com", s.Host)
	assert.Equal(t, 9090, s.Port)
}

func TestApplyDefaultsRejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ApplyDefaults(sample{}), ErrTargetMustBePointer)

	var p *sample
	assert.ErrorIs(t, ApplyDefaults(p), ErrTargetIsNil)

	v := 42
	assert.ErrorIs(t, ApplyDefaults(&v), ErrUnsupportedType)
}
