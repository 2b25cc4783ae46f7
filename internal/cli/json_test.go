package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, map[string]int{"ports": 2}))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	assert.Equal(t, map[string]interface{}{"ports": float64(2)}, env.Data)
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WrapWithCode(stderrors.New("permission denied"), errors.ErrPort, "Failed to enumerate serial ports", "Join the dialout group")
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodePortUnavailable, env.Error.Code)
	assert.Equal(t, "Failed to enumerate serial ports", env.Error.Message)
	assert.Equal(t, "Join the dialout group", env.Error.Suggestion)
	assert.Equal(t, "permission denied", env.Error.Cause)
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"config", errors.New(errors.ErrConfig, "bad", ""), ErrCodeConfigInvalid},
		{"parse", errors.New(errors.ErrParse, "bad", ""), ErrCodeParseFailed},
		{"transport", errors.New(errors.ErrTransport, "bad", ""), ErrCodeTransportFailed},
		{"port", errors.New(errors.ErrPort, "bad", ""), ErrCodePortUnavailable},
		{"state", errors.New(errors.ErrState, "bad", ""), ErrCodeInvalidState},
		{"unknown code", errors.New("OTHER", "bad", ""), ErrCodeUnknown},
		{"wrapped structured", fmt.Errorf("outer: %w", errors.New(errors.ErrPort, "bad", "")), ErrCodePortUnavailable},
		{"plain", stderrors.New("bad"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorToJSON(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, "bad", got.Message)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}
