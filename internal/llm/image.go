package llm

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// imageKind is the decoder a receipt upload needs
type imageKind int

const (
	kindPNG imageKind = iota
	kindPDF
	kindHEIC
	kindOther
)

// PrepareImage turns a receipt upload into PNG bytes the vision models accept.
// PDFs are rendered from their first page; HEIC and other raster formats are re-encoded.
func PrepareImage(data []byte, contentType string) ([]byte, error) {
	switch detectKind(data, contentType) {
	case kindPNG:
		return data, nil
	case kindPDF:
		return renderPDF(data)
	case kindHEIC:
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC image: %w", err)
		}
		return encodePNG(img)
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unsupported image format (want JPEG, PNG, GIF, HEIC or PDF): %w", err)
		}
		return encodePNG(img)
	}
}

func detectKind(data []byte, contentType string) imageKind {
	mime := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case mime == "application/pdf" || bytes.HasPrefix(data, []byte("%PDF-")):
		return kindPDF
	case isHEIC(data) || strings.Contains(mime, "heic") || strings.Contains(mime, "heif"):
		return kindHEIC
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return kindPNG
	}
	return kindOther
}

// isHEIC looks for an ftyp box with one of the HEIF brands
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// renderPDF renders the first page; receipts are single page
func renderPDF(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
