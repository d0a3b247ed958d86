package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "bad config", "fix the YAML")
	assert.Equal(t, ErrConfig, err.Code)
	assert.Equal(t, "bad config", err.Message)
	assert.Equal(t, "fix the YAML", err.Suggestion)
	assert.Nil(t, err.Cause)
}

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "message only",
			err:      New(ErrSSH, "handshake failed", ""),
			contains: []string{"✗ handshake failed"},
		},
		{
			name:     "with suggestion",
			err:      New(ErrSSH, "handshake failed", "check your keys"),
			contains: []string{"✗ handshake failed", "check your keys"},
		},
		{
			name:     "with cause",
			err:      WrapWithCode(fmt.Errorf("connection refused"), ErrSSH, "can't reach host", "is sshd running?"),
			contains: []string{"✗ can't reach host", "connection refused", "is sshd running?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, "wrapped")
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrRender, "template broke", "")
	assert.True(t, IsCode(err, ErrRender))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrRender))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrRender))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCode(wrapped, ErrRender))
}
