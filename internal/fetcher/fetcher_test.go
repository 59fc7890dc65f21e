package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *Fetcher {
	return New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expected    string
		expectError error
	}{
		{
			name:     "array of objects keeps key order",
			body:     `[{"z":1,"a":"x"},{"b":[1,2]}]`,
			expected: "[\n    {\n        \"z\": 1,\n        \"a\": \"x\"\n    },\n    {\n        \"b\": [\n            1,\n            2\n        ]\n    }\n]",
		},
		{
			name:     "empty array",
			body:     " [] \n",
			expected: "[]",
		},
		{
			name:     "large numbers are kept verbatim",
			body:     `[12345678901234567890, 1.50]`,
			expected: "[\n    12345678901234567890,\n    1.50\n]",
		},
		{name: "object", body: `{"a":1}`, expectError: ErrNotArray},
		{name: "number", body: `42`, expectError: ErrNotArray},
		{name: "string", body: `"text"`, expectError: ErrNotArray},
		{name: "null", body: `null`, expectError: ErrNotArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format([]byte(tt.body))

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, out)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestFormat_InvalidJSON(t *testing.T) {
	_, err := Format([]byte(`[1, 2`))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotArray)
}

func TestFetcher_Fetch_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, ContentType, r.Header.Get("Accept"))
		assert.Equal(t, ContentType, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[1]`))
	}))
	defer server.Close()

	body, err := newTestFetcher().Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(body))
}

func TestFetcher_Run(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		existing    string
		expected    string
		expectError bool
		expectFile  bool
	}{
		{
			name: "valid array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":1,"name":"HR"}]`))
			},
			expected:   "[\n    {\n        \"id\": 1,\n        \"name\": \"HR\"\n    }\n]",
			expectFile: true,
		},
		{
			name: "valid array replaces existing file",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`["a"]`))
			},
			existing:   "old",
			expected:   "[\n    \"a\"\n]",
			expectFile: true,
		},
		{
			name: "object response",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
			expectError: true,
		},
		{
			name: "object response keeps existing file",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
			existing:    "old",
			expected:    "old",
			expectError: true,
			expectFile:  true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			dir := t.TempDir()
			path := filepath.Join(dir, "data.json")
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644))
			}

			err := newTestFetcher().Run(context.Background(), server.URL, path)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			data, readErr := os.ReadFile(path)
			if tt.expectFile {
				require.NoError(t, readErr)
				assert.Equal(t, tt.expected, string(data))
			} else {
				assert.ErrorIs(t, readErr, os.ErrNotExist)
			}

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			for _, e := range entries {
				assert.Equal(t, "data.json", e.Name(), "temporary file left behind")
			}
		})
	}
}

func TestFetcher_Run_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	path := filepath.Join(t.TempDir(), "data.json")

	err := newTestFetcher().Run(context.Background(), url, path)

	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestFetcher_Run_FileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1]`))
	}))
	defer server.Close()

	tests := []struct {
		name     string
		existing os.FileMode
		expected os.FileMode
	}{
		{name: "new file", expected: FileMode},
		{name: "existing file keeps its mode", existing: 0o640, expected: 0o640},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			if tt.existing != 0 {
				require.NoError(t, os.WriteFile(path, []byte("old"), tt.existing))
				require.NoError(t, os.Chmod(path, tt.existing))
			}

			require.NoError(t, newTestFetcher().Run(context.Background(), server.URL, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, info.Mode().Perm())
		})
	}
}
