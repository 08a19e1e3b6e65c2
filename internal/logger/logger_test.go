package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestIDAndUser(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", true)
	SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "abc12345")
	ctx = WithUser(ctx, "user-1", "tenant-1")

	assert.Equal(t, "abc12345", GetRequestID(ctx))
	Get(ctx).Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc12345", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "tenant-1", entry["tenant_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestGetFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Global(), Get(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))
}
