package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"claimmap/internal/claims"
)

const doc = "ClaimID,EventLatitude,EventLongitude\nA2.1-001,50.45,30.52\n"

func TestResolve(t *testing.T) {
	tests := []struct {
		base, src, want string
	}{
		{"", "", DefaultName},
		{"", "data/c.csv", "data/c.csv"},
		{"/srv/app", "", filepath.Join("/srv/app", DefaultName)},
		{"/srv/app", "x.csv", filepath.Join("/srv/app", "x.csv")},
		{"/srv/app", "/abs/x.csv", "/abs/x.csv"},
		{"https://example.org/map/", "claims.csv", "https://example.org/map/claims.csv"},
		{"https://example.org/map", "/claims.csv", "https://example.org/map/claims.csv"},
		{"/srv/app", "http://other/x.csv", "http://other/x.csv"},
		{"https://example.org/map/", "", "https://example.org/map/claims.csv"},
		{"https://example.org/map/", "/data/c.csv", "https://example.org/map/data/c.csv"},
		{"https://example.org/map/", "http://other/x.csv", "http://other/x.csv"},
	}
	for _, tt := range tests {
		l := NewLoader(tt.base, time.Second, 0, nil)
		assert.Equal(t, tt.want, l.Resolve(tt.src), "base=%q src=%q", tt.base, tt.src)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultName), []byte(doc), 0o644))

	tbl, err := NewLoader(dir, time.Second, 0, nil).Load(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "A2.1-001", tbl.Rows[0]["ClaimID"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(t.TempDir(), time.Second, 0, nil).Load(context.Background(), "nope.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestLoadEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0o644))
	_, err := NewLoader(dir, time.Second, 0, nil).Load(context.Background(), "empty.csv")
	assert.ErrorIs(t, err, claims.ErrNoHeader)
}

func TestLoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/claims.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = fmt.Fprint(w, doc)
	}))
	defer server.Close()

	l := NewLoader(server.URL+"/data", 5*time.Second, 1<<20, nil)
	tbl, err := l.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 1)

	_, err = l.Load(context.Background(), "missing.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadURLTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, doc+strings.Repeat("A2.1-002,1,1\n", 100))
	}))
	defer server.Close()

	_, err := NewLoader("", 5*time.Second, 64, nil).Load(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoadURLCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, doc)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader("", 5*time.Second, 0, nil).Load(ctx, server.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchSignalsAndCloses(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Watch(ctx, path, 10*time.Millisecond, nil)
	require.NoError(t, err)

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte(doc), 0o644))
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	}

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatchRejectsURL(t *testing.T) {
	_, err := Watch(context.Background(), "https://example.org/claims.csv", time.Second, nil)
	assert.Error(t, err)
}
