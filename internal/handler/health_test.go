package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	h := newTestRouter(testDeps{})

	rec := doRequest(h, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Contains(t, body, "uptime")
	assert.Contains(t, body, "uptimeSeconds")

	ts, ok := body["timestamp"].(string)
	require.True(t, ok, "timestamp must be a string")
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err, "timestamp must be RFC3339")
}
