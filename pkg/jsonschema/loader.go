package jsonschema

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-formstate/pkg/schema"
)

// LoaderOptions configures how schema documents are fetched.
type LoaderOptions struct {
	// FileSystem backs SourceKindFS sources.
	FileSystem fs.FS
	// HTTPClient enables SourceKindURL sources. Left nil, URL sources fail.
	HTTPClient *http.Client
	// RequestTimeout bounds HTTP fetches when the client has no timeout.
	RequestTimeout time.Duration
}

// Loader fetches schema documents from files, fs.FS entries, or URLs.
type Loader struct {
	opts LoaderOptions
}

// NewLoader constructs a Loader from pre-resolved options.
func NewLoader(opts LoaderOptions) *Loader {
	return &Loader{opts: opts}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("jsonschema loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = l.loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = l.loadFromFS(ctx, src.Location())
	case schema.SourceKindURL:
		data, err = l.loadHTTP(ctx, src.Location())
	default:
		err = errors.New("jsonschema loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

func (l *Loader) loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("jsonschema loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func (l *Loader) loadFromFS(ctx context.Context, name string) ([]byte, error) {
	if l.opts.FileSystem == nil {
		return nil, errors.New("jsonschema loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("jsonschema loader: fs entry name is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(l.opts.FileSystem, name)
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	client := l.opts.HTTPClient
	if client == nil {
		return nil, errors.New("jsonschema loader: http support disabled")
	}
	if url == "" {
		return nil, errors.New("jsonschema loader: url is required")
	}

	reqCtx := ctx
	if l.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.opts.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("jsonschema loader: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
