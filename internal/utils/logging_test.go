package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandler(t *testing.T) {
	var console, file bytes.Buffer
	logger := slog.New(NewConsoleHandler(&console, &file, "org_registry", slog.LevelInfo))

	logger.With(slog.String("table", "tbl_user_info")).Info("Record saved", slog.Int64("user_pid", 7))
	logger.Debug("hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "Record saved", record["msg"])
	assert.Equal(t, "org_registry", record["job"])
	assert.Equal(t, "tbl_user_info", record["table"])
	assert.Contains(t, record, "timestamp")

	assert.Contains(t, console.String(), "Record saved table=tbl_user_info user_pid=7")
	assert.NotContains(t, console.String(), "hidden")
}

func TestMiddleware(t *testing.T) {
	var file bytes.Buffer
	logger := slog.New(NewConsoleHandler(nil, &file, "org_registry", slog.LevelInfo))

	handler := middleware.RequestID(Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/departments/", nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "HTTP request", record["msg"])
	assert.Equal(t, "/departments/", record["path"])
	assert.Equal(t, float64(http.StatusTeapot), record["status"])
	assert.NotEqual(t, "unknown", record["request_id"])
}
