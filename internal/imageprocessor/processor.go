package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"fishlog_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"

	fallbackMimeType = "application/octet-stream"

	optimizeQuality  = 85
	thumbnailQuality = 80
	minDimension     = 100
)

// Config holds validation limits and the thumbnail box
type Config struct {
	MaxFileSize     int64
	AllowedTypes    []string
	ThumbnailWidth  int
	ThumbnailHeight int
}

// Result is an encoded image variant
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Size returns the encoded length in bytes
func (r *Result) Size() int64 {
	return int64(len(r.Data))
}

// Reader returns a fresh reader over the encoded bytes
func (r *Result) Reader() io.Reader {
	return bytes.NewReader(r.Data)
}

// Processor validates uploads and produces optimized and thumbnail variants
type Processor struct {
	cfg Config
}

// NewProcessor creates a new image processor
func NewProcessor(cfg Config) *Processor {
	if cfg.ThumbnailWidth <= 0 {
		cfg.ThumbnailWidth = 300
	}
	if cfg.ThumbnailHeight <= 0 {
		cfg.ThumbnailHeight = 300
	}
	return &Processor{cfg: cfg}
}

// ToReusableStream materializes an upload in memory so it can be re-read
// from the start by every processing step. At most limit+1 bytes are read
// when limit is positive, which is enough for Validate to reject oversized input.
func ToReusableStream(r io.Reader, limit int64) (*bytes.Reader, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "No se pudo leer el archivo")
	}
	return bytes.NewReader(data), nil
}

// Validate runs the checks in order: empty payload, size limit, sniffed
// MIME type, decodability and minimum dimensions. The first failing check
// determines the error.
func (p *Processor) Validate(stream io.ReadSeeker, size int64) error {
	if size <= 0 {
		return apperrors.InvalidImage("El archivo está vacío")
	}

	if p.cfg.MaxFileSize > 0 && size > p.cfg.MaxFileSize {
		return apperrors.InvalidImage(fmt.Sprintf(
			"El archivo excede el tamaño máximo permitido de %s", humanSize(p.cfg.MaxFileSize)))
	}

	if err := rewind(stream); err != nil {
		return apperrors.InvalidImageCause(err, "No se pudo leer el archivo")
	}
	mime, err := mimetype.DetectReader(stream)
	if err != nil || !p.isAllowed(mime) {
		detected := fallbackMimeType
		if mime != nil {
			detected = mime.String()
		}
		return apperrors.InvalidImage(fmt.Sprintf(
			"Tipo de archivo no permitido: %s. Tipos permitidos: %s",
			detected, strings.Join(p.cfg.AllowedTypes, ", ")))
	}

	img, err := decode(stream)
	if err != nil {
		return apperrors.InvalidImageCause(err, "El archivo no es una imagen válida")
	}

	bounds := img.Bounds()
	if bounds.Dx() < minDimension || bounds.Dy() < minDimension {
		return apperrors.InvalidImage(fmt.Sprintf(
			"La imagen debe tener al menos %dx%d píxeles", minDimension, minDimension))
	}
	return nil
}

func (p *Processor) isAllowed(mime *mimetype.MIME) bool {
	for _, allowed := range p.cfg.AllowedTypes {
		if mime.Is(allowed) {
			return true
		}
	}
	return false
}

// DetectMimeType sniffs the content; filename and declared type are ignored
func DetectMimeType(stream io.ReadSeeker) string {
	if err := rewind(stream); err != nil {
		return fallbackMimeType
	}
	mime, err := mimetype.DetectReader(stream)
	if err != nil {
		return fallbackMimeType
	}
	return mime.String()
}

// OutputFormat keeps PNG and WebP, everything else is re-encoded as JPEG
func OutputFormat(mimeType string) string {
	switch mimeType {
	case "image/png":
		return FormatPNG
	case "image/webp":
		return FormatWebP
	default:
		return FormatJPEG
	}
}

// FileExtension returns the extension matching bytes produced by encode
func FileExtension(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

// Dimensions returns (0, 0) when the stream cannot be decoded
func Dimensions(stream io.ReadSeeker) (width, height int) {
	if err := rewind(stream); err != nil {
		return 0, 0
	}
	cfg, _, err := image.DecodeConfig(stream)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// Optimize re-encodes the image, downscaling to maxWidth with the aspect
// ratio preserved when the image is wider. maxWidth <= 0 keeps the scale.
func (p *Processor) Optimize(stream io.ReadSeeker, format string, maxWidth int) (*Result, error) {
	img, err := decode(stream)
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "Error al optimizar la imagen")
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && width > maxWidth {
		height = int(float64(height) * float64(maxWidth) / float64(width))
		if height < 1 {
			height = 1
		}
		width = maxWidth
	}

	result, err := encode(scale(img, width, height, format), format, optimizeQuality)
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "Error al optimizar la imagen")
	}
	return result, nil
}

// Thumbnail scales the image into the configured fixed box
func (p *Processor) Thumbnail(stream io.ReadSeeker, format string) (*Result, error) {
	img, err := decode(stream)
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "Error al crear la miniatura")
	}

	resized := scale(img, p.cfg.ThumbnailWidth, p.cfg.ThumbnailHeight, format)
	result, err := encode(resized, format, thumbnailQuality)
	if err != nil {
		return nil, apperrors.InvalidImageCause(err, "Error al crear la miniatura")
	}
	return result, nil
}

func decode(stream io.ReadSeeker) (image.Image, error) {
	if err := rewind(stream); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func scale(img image.Image, width, height int, format string) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if format == FormatJPEG {
		// JPEG has no alpha channel
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// encode writes img in the requested format. There is no pure Go WebP
// encoder, so WebP output is written as lossless PNG.
func encode(img image.Image, format string, quality int) (*Result, error) {
	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case FormatPNG, FormatWebP:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		contentType = "image/png"
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		contentType = "image/jpeg"
	}

	bounds := img.Bounds()
	return &Result{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func rewind(stream io.Seeker) error {
	_, err := stream.Seek(0, io.SeekStart)
	return err
}

func humanSize(bytes int64) string {
	const mb = 1024 * 1024
	if bytes%mb == 0 {
		return fmt.Sprintf("%d MB", bytes/mb)
	}
	return fmt.Sprintf("%d bytes", bytes)
}
