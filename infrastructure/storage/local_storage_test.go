package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(LocalStorageConfig{
		BasePath:       t.TempDir(),
		BaseURL:        "http://localhost:8080/files/",
		MinFreePercent: 0.001,
	})
	require.NoError(t, err)
	return s.(*LocalStorage)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)
	body := "final report"

	url, err := s.UploadFile(ctx, strings.NewReader(body), int64(len(body)), "submissions/t1/report.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/submissions/t1/report.txt", url)

	rc, contentType, err := s.GetFileContent(ctx, "submissions/t1/report.txt")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
	assert.True(t, strings.HasPrefix(contentType, "text/plain"))

	require.NoError(t, s.DeleteFile(ctx, "submissions/t1/report.txt"))
	_, _, err = s.GetFileContent(ctx, "submissions/t1/report.txt")
	assert.Error(t, err)

	// ลบซ้ำไม่ error
	assert.NoError(t, s.DeleteFile(ctx, "submissions/t1/report.txt"))
}

func TestLocalStorageKeepsPathsInsideBase(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStorage(t)

	url, err := s.UploadFile(ctx, strings.NewReader("x"), -1, "../../escape.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/escape.txt", url)

	_, err = s.UploadFile(ctx, strings.NewReader("x"), -1, "", "text/plain")
	assert.Error(t, err)
}

func TestLocalStorageProviderName(t *testing.T) {
	assert.Equal(t, "local", newTestLocalStorage(t).GetProviderName())
}

func TestLocalStorageRejectsUploadWhenVolumeWouldFillUp(t *testing.T) {
	s, err := NewLocalStorage(LocalStorageConfig{
		BasePath:       t.TempDir(),
		BaseURL:        "/files",
		MinFreePercent: 100,
	})
	require.NoError(t, err)

	_, err = s.UploadFile(context.Background(), strings.NewReader("data"), 4, "a/b.txt", "text/plain")
	var spaceErr *InsufficientSpaceError
	require.ErrorAs(t, err, &spaceErr)
	assert.Equal(t, int64(4), spaceErr.Required)

	// ขนาดไม่รู้ล่วงหน้าจะไม่ถูกเช็ค
	_, err = s.UploadFile(context.Background(), strings.NewReader("data"), -1, "a/c.txt", "text/plain")
	assert.NoError(t, err)
}
