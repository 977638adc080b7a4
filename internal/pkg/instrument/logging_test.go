package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_MasksAndEnriches(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewLogger(&buf, "notifyhub", nil, []string{"Email", " authorization "})
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "dispatch email",
		"email", "owner@example.test",
		"msg_body", `{"actor":{"email":"a@b.c","role":"INNOVATOR"}}`,
		"params", map[string]string{"authorization": "Bearer x", "innovation_name": "Kit"},
	)

	// Assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "***", line["email"])
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "notifyhub", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.JSONEq(t, `{"actor":{"email":"***","role":"INNOVATOR"}}`, line["msg_body"].(string))
	assert.Equal(t, map[string]any{"authorization": "***", "innovation_name": "Kit"}, line["params"])
}

func TestNewLogger_NoCorrelationID(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := NewLogger(&buf, "notifyhub", nil, nil)

	// Act
	logger.Info("started")

	// Assert
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, ok := line["_cID"]
	assert.False(t, ok)
}

func TestNoop(t *testing.T) {
	ins := NewNoop()
	_, span := ins.Tracer("x").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
