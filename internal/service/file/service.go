package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG proofs are re-encoded as JPEG
	"io"
	"math"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

const maxUploadSize = 10 << 20

var (
	imageExts    = []string{".jpg", ".jpeg", ".png"}
	documentExts = []string{".jpg", ".jpeg", ".png", ".pdf"}
)

type FileService interface {
	// UploadPunchProof stores a compressed JPEG of the photo taken at punch time
	UploadPunchProof(ctx context.Context, workerID string, occurredAt time.Time, kind string, file io.Reader, filename string) (string, error)

	UploadLeaveAttachment(ctx context.Context, workerID string, file io.Reader, filename string) (string, error)
	UploadReceipt(ctx context.Context, workerID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func checkExt(filename string, allowed []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(allowed, ext) {
		return "", fmt.Errorf("%w: only %s allowed", ErrUnsupportedFileType, strings.Join(allowed, ", "))
	}
	return ext, nil
}

func readLimited(file io.Reader) ([]byte, error) {
	buffer, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(buffer) > maxUploadSize {
		return nil, ErrFileTooLarge
	}
	return buffer, nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

// UploadPunchProof implements FileService.
// Path: punches/{date}/{workerID}-{kind}-{unix}.jpg
func (s *fileServiceImpl) UploadPunchProof(ctx context.Context, workerID string, occurredAt time.Time, kind string, file io.Reader, filename string) (string, error) {
	if _, err := checkExt(filename, imageExts); err != nil {
		return "", err
	}

	buffer, err := readLimited(file)
	if err != nil {
		return "", err
	}

	compressed, err := compressImage(buffer, 150*1024, 50*1024)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%d.jpg", workerID, strings.ToLower(kind), occurredAt.Unix())
	key := path.Join("punches", occurredAt.Format(time.DateOnly), name)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(compressed), key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload punch proof: %w", err)
	}
	return uploadedPath, nil
}

// UploadLeaveAttachment implements FileService.
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, workerID string, file io.Reader, filename string) (string, error) {
	return s.uploadDocument(ctx, "leave", workerID, file, filename)
}

// UploadReceipt implements FileService.
func (s *fileServiceImpl) UploadReceipt(ctx context.Context, workerID string, file io.Reader, filename string) (string, error) {
	return s.uploadDocument(ctx, "receipts", workerID, file, filename)
}

func (s *fileServiceImpl) uploadDocument(ctx context.Context, folder, workerID string, file io.Reader, filename string) (string, error) {
	ext, err := checkExt(filename, documentExts)
	if err != nil {
		return "", err
	}

	buffer, err := readLimited(file)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%d%s", uuid.New().String(), s.now().Unix(), ext)
	key := path.Join(folder, workerID, name)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), key, contentTypeFor(ext))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s file: %w", folder, err)
	}
	return uploadedPath, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	return s.storage.Delete(ctx, path)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes buffer as JPEG, lowering quality and then downscaling until the
// result fits under maxSize. Results already inside [minSize, maxSize] are returned as is
// when they are JPEG.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" && len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	encode := func(src image.Image, quality int) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, src, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return buf.Bytes(), nil
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encode(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large at the lowest quality: scale down keeping the aspect ratio
	current := img
	for attempt := 0; attempt < 4 && len(compressed) > maxSize; attempt++ {
		ratio := math.Sqrt(float64(maxSize) * 0.8 / float64(len(compressed)))
		bounds := current.Bounds()
		width := max(int(float64(bounds.Dx())*ratio), 1)
		height := max(int(float64(bounds.Dy())*ratio), 1)

		current = resizeImage(current, width, height)
		compressed, err = encode(current, 70)
		if err != nil {
			return nil, err
		}
	}
	return compressed, nil
}

// resizeImage scales src with CatmullRom interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
