// Package imaging decodifica imagenes subidas y genera miniaturas.
package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooManyPixels     = errors.New("image dimensions too large")
)

const (
	jpegQuality = 85

	// DefaultMaxPixels se usa cuando maxPixels no es positivo.
	DefaultMaxPixels = 40_000_000
)

// Decode acepta jpeg, png y gif. Las dimensiones se validan contra
// maxPixels leyendo solo la cabecera, antes de reservar el bitmap.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedFormat
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", ErrUnsupportedFormat
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", ErrTooManyPixels
	}
	switch format {
	case "jpeg", "png", "gif":
	default:
		return nil, "", ErrUnsupportedFormat
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedFormat
	}
	return img, format, nil
}

// Thumbnail escala la imagen para que su lado mayor no supere maxEdge,
// manteniendo la proporcion. Imagenes mas chicas se devuelven intactas.
func Thumbnail(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return src
	}
	var tw, th int
	if w >= h {
		tw = maxEdge
		th = max(1, h*maxEdge/w)
	} else {
		th = maxEdge
		tw = max(1, w*maxEdge/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// Encode serializa la imagen; png y gif se guardan como png, el resto como jpeg.
func Encode(img image.Image, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case "png", "gif":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// ContentType devuelve el mime del formato original.
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
