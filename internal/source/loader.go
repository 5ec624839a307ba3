// Package source fetches claim documents from a URL or the local
// filesystem and watches local files for changes.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"claimmap/internal/claims"
)

// DefaultName is the document fetched when no source is given.
const DefaultName = "claims.csv"

var (
	// ErrStatus wraps non-2xx HTTP responses.
	ErrStatus = errors.New("unexpected status")
	// ErrTooLarge is returned when a document exceeds the byte cap.
	ErrTooLarge = errors.New("document too large")
)

// Loader resolves and reads claim documents.
type Loader struct {
	httpClient *http.Client
	basePath   string
	maxBytes   int64
	log        *zap.Logger
}

// NewLoader builds a loader. basePath is a directory or URL prefix joined
// with relative sources; maxBytes <= 0 disables the size cap.
func NewLoader(basePath string, timeout time.Duration, maxBytes int64, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		basePath: basePath,
		maxBytes: maxBytes,
		log:      log,
	}
}

// IsURL reports whether src is fetched over http(s).
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Resolve joins a source with the base path. URLs are returned unchanged.
// Under a URL base every other source, leading slash or not, is a path
// below that prefix; under a directory base absolute paths are kept.
func (l *Loader) Resolve(src string) string {
	if src == "" {
		src = DefaultName
	}
	if IsURL(src) || l.basePath == "" {
		return src
	}
	if IsURL(l.basePath) {
		return strings.TrimRight(l.basePath, "/") + "/" + strings.TrimLeft(src, "/")
	}
	if filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(l.basePath, src)
}

// Load resolves src, reads it and parses the document.
func (l *Loader) Load(ctx context.Context, src string) (*claims.Table, error) {
	name := l.Resolve(src)
	start := time.Now()
	l.log.Info("loading claims", zap.String("source", name))

	body, err := l.read(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	tbl, err := claims.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	l.log.Info("claims loaded",
		zap.String("source", name),
		zap.Int("rows", len(tbl.Rows)),
		zap.Int("skipped", tbl.Skipped),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return tbl, nil
}

func (l *Loader) read(ctx context.Context, name string) ([]byte, error) {
	if IsURL(name) {
		return l.fetch(ctx, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.readCapped(f)
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return l.readCapped(resp.Body)
}

func (l *Loader) readCapped(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, l.maxBytes)
	}
	return body, nil
}
