package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 7), uint8(y * 13), uint8((x ^ y) * 3), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressImage_OutputsDecodableJPEGUnderLimit(t *testing.T) {
	src := pngFixture(t, 640, 480)

	out, err := compressImage(src, 150*1024, 50*1024)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), 150*1024)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCompressImage_RejectsGarbage(t *testing.T) {
	_, err := compressImage([]byte("not an image"), 150*1024, 50*1024)
	assert.Error(t, err)
}

func TestUploadPunchProof(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	svc := NewFileService(store)

	at := time.Date(2026, 4, 6, 8, 55, 0, 0, time.UTC)
	key, err := svc.UploadPunchProof(context.Background(), "w1", at, "IN", bytes.NewReader(pngFixture(t, 64, 64)), "selfie.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "punches/2026-04-06/w1-in-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	_, err = svc.UploadPunchProof(context.Background(), "w1", at, "IN", strings.NewReader("x"), "selfie.gif")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestUploadReceipt(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	svc := NewFileService(store)

	key, err := svc.UploadReceipt(context.Background(), "w1", strings.NewReader("%PDF-1.4"), "receipt.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "receipts/w1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}
