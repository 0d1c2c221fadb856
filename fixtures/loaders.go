package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	chttp "github.com/flanksource/commons/http"
	"github.com/flanksource/commons/logger"
	"github.com/samber/oops"
)

// FileLoader loads fixtures from a filesystem, ignoring the cache-defeating query string.
// Paths fs.FS cannot address, absolute ones or ones climbing out with "..", are read from
// the host filesystem relative to Dir.
type FileLoader struct {
	// FS defaults to Dir, or the current working directory
	FS fs.FS
	// Dir is the directory FS was opened on
	Dir string
}

var _ ResourceLoader = FileLoader{}

// NewFileLoader loads fixtures relative to dir
func NewFileLoader(dir string) FileLoader {
	return FileLoader{FS: os.DirFS(dir), Dir: dir}
}

func (l FileLoader) Load(_ context.Context, path string) (string, error) {
	path, _, _ = strings.Cut(path, "?")

	var data []byte
	var err error
	if fs.ValidPath(path) {
		data, err = fs.ReadFile(l.fsys(), path)
	} else {
		data, err = os.ReadFile(l.hostPath(path))
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", oops.Wrapf(err, "failed to read %s", path)
	}
	return string(data), nil
}

func (l FileLoader) fsys() fs.FS {
	switch {
	case l.FS != nil:
		return l.FS
	case l.Dir != "":
		return os.DirFS(l.Dir)
	default:
		return os.DirFS(".")
	}
}

func (l FileLoader) hostPath(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) || l.Dir == "" {
		return path
	}
	return filepath.Join(l.Dir, path)
}

// HTTPLoader loads fixtures from a web server, e.g. the one serving the editor under test.
// 404 and 410 responses are missing fixtures.
type HTTPLoader struct {
	BaseURL string
	Client  *chttp.Client
}

var _ ResourceLoader = (*HTTPLoader)(nil)

// NewHTTPLoader creates a loader resolving fixture paths against baseURL
func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{
		BaseURL: baseURL,
		Client:  chttp.NewClient().BaseURL(baseURL),
	}
}

func (l *HTTPLoader) Load(ctx context.Context, path string) (string, error) {
	client := l.Client
	if client == nil {
		client = chttp.NewClient().BaseURL(l.BaseURL)
	}

	if !strings.HasPrefix(path, "/") && !strings.Contains(path, "://") {
		path = "/" + path
	}

	logger.Tracef("fetching fixture: GET %s", path)
	resp, err := client.R(ctx).Get(path)
	if err != nil {
		return "", oops.Wrapf(err, "GET %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", fmt.Errorf("GET %s: %w", path, ErrNotFound)
	case !resp.IsOK():
		body, _ := resp.AsString()
		return "", fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, body)
	}

	body, err := resp.AsString()
	if err != nil {
		return "", oops.Wrapf(err, "failed to read body of %s", path)
	}
	return body, nil
}
