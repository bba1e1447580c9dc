package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_String(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindParse, "parse error"},
		{KindConnection, "connection error"},
		{KindProtocol, "protocol error"},
		{KindDecode, "decode error"},
		{KindInterrupted, "interrupted"},
		{KindUnknown, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.kind.String())
	}
}

func TestError(t *testing.T) {
	t.Run("message and cause", func(t *testing.T) {
		err := NewProtocolError("call tool add", errors.New("boom"))
		assert.Equal(t, "call tool add: boom", err.Error())
		assert.Equal(t, "boom", errors.Unwrap(err).Error())
	})

	t.Run("message only", func(t *testing.T) {
		err := NewParseError("unknown namespace %q", "x")
		assert.Equal(t, `unknown namespace "x"`, err.Error())
	})

	t.Run("errors.Is matches by kind", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", &Error{Kind: KindInterrupted})
		assert.True(t, errors.Is(wrapped, ErrInterrupted))
		assert.False(t, errors.Is(NewParseError("x"), ErrInterrupted))
	})

	t.Run("decode error keeps json cause", func(t *testing.T) {
		err := NewDecodeError("stdin", errors.New("unexpected end of JSON input"))
		assert.Contains(t, err.Error(), "invalid JSON in stdin")
		assert.Equal(t, KindDecode, KindOf(err))
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("x"), KindUnknown},
		{"parse", NewParseError("bad"), KindParse},
		{"wrapped protocol", fmt.Errorf("ctx: %w", NewProtocolError("op", errors.New("x"))), KindProtocol},
		{"connection", &ConnectionError{Endpoint: "e", Reason: errors.New("x")}, KindConnection},
		{"context canceled", fmt.Errorf("call: %w", context.Canceled), KindInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestClassifyConnectionError(t *testing.T) {
	endpoint := "http://localhost:8000/mcp"

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ClassifyConnectionError(nil, endpoint))
	})

	tests := []struct {
		name     string
		err      error
		expected ConnectionErrorType
	}{
		{"tls", x509.UnknownAuthorityError{}, ConnectionErrorTLS},
		{"tls keyword", errors.New("remote error: tls: handshake failure"), ConnectionErrorTLS},
		{"dns", &net.DNSError{Err: "no such host", Name: "example.invalid"}, ConnectionErrorDNS},
		{"timeout", fmt.Errorf("init: %w", context.DeadlineExceeded), ConnectionErrorTimeout},
		{"refused", errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"), ConnectionErrorNetwork},
		{"exec", &exec.Error{Name: "nope", Err: exec.ErrNotFound}, ConnectionErrorProcess},
		{"unknown", errors.New("something odd"), ConnectionErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connErr := ClassifyConnectionError(tt.err, endpoint)
			assert.Equal(t, tt.expected, connErr.Type)
			assert.Equal(t, endpoint, connErr.Endpoint)
			assert.ErrorIs(t, connErr, tt.err)
		})
	}

	t.Run("already classified is returned as is", func(t *testing.T) {
		orig := &ConnectionError{Endpoint: "a", Type: ConnectionErrorDNS, Reason: errors.New("x")}
		assert.Same(t, orig, ClassifyConnectionError(fmt.Errorf("wrap: %w", orig), "b"))
	})
}

func TestConnectionError_Error(t *testing.T) {
	err := &ConnectionError{Endpoint: "python srv.py", Type: ConnectionErrorProcess, Reason: errors.New("exit status 1")}
	assert.Equal(t, "Process error for python srv.py: exit status 1", err.Error())
}
