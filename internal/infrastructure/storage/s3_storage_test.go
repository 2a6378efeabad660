package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// ============================================================================
// Unit Tests (no external dependencies)
// ============================================================================

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.S3Config{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half of a key pair returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.S3Config{Bucket: "rastreo", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(&config.S3Config{
			Bucket:          "rastreo",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "rastreo", storage.bucket)
	})
}

// fakeS3 serves path-style GET and HEAD requests from a fixed object set
func fakeS3(t *testing.T, bucket string, objects map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead && strings.TrimSuffix(r.URL.Path, "/") == "/"+bucket {
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/"+bucket+"/")
		body, ok := objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method != http.MethodHead {
				_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			}
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestStorage(t *testing.T, endpoint string, opts ...S3ObjectStorageOption) *S3ObjectStorage {
	t.Helper()
	opts = append([]S3ObjectStorageOption{WithLogger(zaptest.NewLogger(t))}, opts...)
	storage, err := NewS3ObjectStorage(&config.S3Config{
		Bucket:          "rastreo",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		UsePathStyle:    true,
	}, opts...)
	require.NoError(t, err)
	return storage
}

func TestS3ObjectStorage_Download(t *testing.T) {
	srv := fakeS3(t, "rastreo", map[string]string{
		"exports/Ticket.csv": "Id,Estado\n1234,Cargado\n",
	})
	ctx := context.Background()

	t.Run("reads an existing object", func(t *testing.T) {
		data, err := newTestStorage(t, srv.URL).Download(ctx, "exports/Ticket.csv")
		require.NoError(t, err)
		assert.Equal(t, "Id,Estado\n1234,Cargado\n", string(data))
	})

	t.Run("missing key maps to ErrObjectNotFound", func(t *testing.T) {
		_, err := newTestStorage(t, srv.URL).Download(ctx, "exports/Cliente.csv")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("object above the size limit is rejected", func(t *testing.T) {
		_, err := newTestStorage(t, srv.URL, WithMaxObjectSize(8)).Download(ctx, "exports/Ticket.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds 8 bytes")
	})

	t.Run("empty key returns error", func(t *testing.T) {
		_, err := newTestStorage(t, srv.URL).Download(ctx, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})
}

func TestS3ObjectStorage_Ping(t *testing.T) {
	srv := fakeS3(t, "rastreo", nil)
	ctx := context.Background()

	t.Run("reachable bucket", func(t *testing.T) {
		assert.NoError(t, newTestStorage(t, srv.URL).Ping(ctx))
	})

	t.Run("unknown bucket", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(&config.S3Config{
			Bucket:          "archivo",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Endpoint:        srv.URL,
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Error(t, storage.Ping(ctx))
	})
}
