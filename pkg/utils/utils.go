package utils

import (
	"bytes"
	"crypto/rand"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/image/draw"
)

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("uploaded file is not an image or PDF")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateDocumentFile(file *multipart.FileHeader) error
	ValidateFrame(data []byte) (string, error)
	ReadFile(file *multipart.FileHeader) ([]byte, error)
	OptimizeImageForOCR(imageData []byte, minWidth, maxWidth int) ([]byte, error)
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateDocumentFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/pdf" {
		return ErrInvalidFileType
	}

	return nil
}

// ValidateFrame sniffs the content type of a raw camera frame and returns it.
// Only images are accepted.
func (u *utils) ValidateFrame(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFile
	}

	if int64(len(data)) > u.maxFileSize {
		return "", ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrInvalidFileType
	}

	return contentType, nil
}

func (u *utils) ReadFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(io.LimitReader(src, u.maxFileSize+1))
}

// OptimizeImageForOCR converts the image to grayscale, upscales it when it is
// narrower than minWidth and caps it at maxWidth. The result is PNG encoded.
func (u *utils) OptimizeImageForOCR(imageData []byte, minWidth, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := scaledSize(bounds.Dx(), bounds.Dy(), minWidth, maxWidth)

	gray := image.NewGray(image.Rect(0, 0, width, height))
	if width != bounds.Dx() || height != bounds.Dy() {
		draw.CatmullRom.Scale(gray, gray.Bounds(), img, bounds, draw.Src, nil)
	} else {
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	}
	stretchContrast(gray)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func scaledSize(width, height, minWidth, maxWidth int) (int, int) {
	if width == 0 || height == 0 {
		return width, height
	}

	target := width
	switch {
	case minWidth > 0 && width < minWidth:
		target = min(width*2, minWidth*2)
		if maxWidth > 0 {
			target = min(target, maxWidth)
		}
	case maxWidth > 0 && width > maxWidth:
		target = maxWidth
	}

	if target == width {
		return width, height
	}
	return target, max(1, height*target/width)
}

// stretchContrast maps the darkest pixel to black and the lightest to white.
func stretchContrast(img *image.Gray) {
	lo, hi := uint8(255), uint8(0)
	for _, p := range img.Pix {
		lo = min(lo, p)
		hi = max(hi, p)
	}
	if hi <= lo {
		return
	}

	span := int(hi - lo)
	for i, p := range img.Pix {
		img.Pix[i] = uint8(int(p-lo) * 255 / span)
	}
}
