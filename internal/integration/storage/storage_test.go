package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/files/")
	require.NoError(t, err)

	url, err := s.Put(ctx, "receipts/abc/receipt.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/receipts/abc/receipt.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "receipts", "abc", "receipt.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, "receipts/abc/receipt.png"))
	require.NoError(t, s.Delete(ctx, "receipts/abc/receipt.png"))
	_, err = os.Stat(filepath.Join(dir, "receipts", "abc", "receipt.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_StaysInsideBaseDir(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	base := filepath.Join(root, "store")
	s, err := NewLocalStorage(base, "")
	require.NoError(t, err)

	_, err = s.Put(ctx, "../../escape.txt", []byte("x"), "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "escape.txt"))
	assert.NoError(t, err)

	_, err = s.Put(ctx, "", []byte("x"), "text/plain")
	assert.Error(t, err)
}

type fakeBucket struct {
	mu      sync.Mutex
	uploads map[string]string
	deletes []string
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "multipart"
		}
		b.uploads[name] = string(body)
		_, _ = io.WriteString(w, `{"name":"`+name+`","bucket":"receipts"}`)
	case http.MethodDelete:
		object := r.URL.EscapedPath()[strings.LastIndex(r.URL.EscapedPath(), "/o/")+3:]
		b.deletes = append(b.deletes, object)
		if strings.Contains(object, "missing") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"No such object"}}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeGCS(t *testing.T) (*GCSStorage, *fakeBucket) {
	t.Helper()

	bucket := &fakeBucket{uploads: map[string]string{}}
	server := httptest.NewServer(bucket)
	t.Cleanup(server.Close)

	s, err := NewGCSStorage(context.Background(), "receipts", "",
		option.WithEndpoint(server.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return s, bucket
}

func TestGCSStorage_Put(t *testing.T) {
	s, bucket := newFakeGCS(t)

	url, err := s.Put(context.Background(), "receipts/abc/my receipt.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.googleapis.com/receipts/receipts/abc/my%20receipt.pdf", url)

	require.Len(t, bucket.uploads, 1)
	for _, body := range bucket.uploads {
		assert.Contains(t, body, "%PDF-1.4")
	}
}

func TestGCSStorage_DeleteIgnoresMissingObject(t *testing.T) {
	s, bucket := newFakeGCS(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "receipts/abc/receipt.png"))
	require.NoError(t, s.Delete(ctx, "receipts/missing/receipt.png"))
	assert.Len(t, bucket.deletes, 2)
}

func TestNewGCSStorage_RequiresBucket(t *testing.T) {
	_, err := NewGCSStorage(context.Background(), "", "", option.WithoutAuthentication())
	assert.Error(t, err)
}
