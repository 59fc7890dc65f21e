package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
)

const (
	UserAgent   = "Mozilla/5.0"
	ContentType = "application/json"
	Indent      = "    "
)

var (
	ErrStatus   = errors.New("unexpected response status")
	ErrNotArray = errors.New("response is not a JSON array")
)

type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

func New(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &Fetcher{client: client, logger: logger}
}

// Fetch performs a single GET and returns the whole body.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", ContentType)
	req.Header.Set("Content-Type", ContentType)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	f.logger.Debug("Response received", slog.String("url", url), slog.Int("bytes", len(body)))
	return body, nil
}

// Format checks that body is a JSON array and re-indents it with four spaces.
// Element order, key order and number literals are kept as received.
func Format(body []byte) ([]byte, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: got %s", ErrNotArray, typeErr.Value)
		}
		return nil, fmt.Errorf("parse body: %w", err)
	}
	if elements == nil {
		return nil, fmt.Errorf("%w: got null", ErrNotArray)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimSpace(body), "", Indent); err != nil {
		return nil, fmt.Errorf("indent body: %w", err)
	}

	return out.Bytes(), nil
}

// Run fetches url and writes the formatted array to path. The file is replaced
// atomically, so on any failure an existing file is left as it was.
func (f *Fetcher) Run(ctx context.Context, url, path string) error {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}

	formatted, err := Format(body)
	if err != nil {
		return err
	}

	if err := writeFile(path, formatted); err != nil {
		return err
	}

	f.logger.Info("JSON file saved", slog.String("path", path), slog.Int("bytes", len(formatted)))
	return nil
}

// FileMode is applied to a newly created output file. Replacing an existing
// file keeps that file's permissions.
const FileMode os.FileMode = 0o644

func writeFile(path string, data []byte) (err error) {
	mode := FileMode
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}
