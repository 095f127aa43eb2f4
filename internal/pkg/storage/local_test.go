package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key, err := s.Upload(ctx, strings.NewReader("jpeg bytes"), "punches/w1/a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "punches/w1/a.jpg", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	url, err := s.GetURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/punches/w1/a.jpg", url)

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), strings.NewReader("x"), "../../etc/passwd", "text/plain")
	assert.Error(t, err)
}
