// Package imaging recompresses image assets for production builds.
package imaging

import (
	"bytes"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	cssmin "github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/sitepipe/internal/core/domain"
	"go.trai.ch/sitepipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImageOptimizer = (*Optimizer)(nil)

const svgType = "image/svg+xml"

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 75

// Optimizer implements ports.ImageOptimizer. JPEG is re-encoded lossy, PNG
// lossless at best compression, GIF frame by frame, and SVG is minified.
// Other formats are returned unchanged.
type Optimizer struct {
	svg *minify.M
	png png.Encoder
}

// NewOptimizer creates a new Optimizer.
func NewOptimizer() *Optimizer {
	m := minify.New()
	m.Add(svgType, &svg.Minifier{})
	m.Add("text/css", &cssmin.Minifier{})
	return &Optimizer{
		svg: m,
		png: png.Encoder{CompressionLevel: png.BestCompression},
	}
}

// Optimize recompresses data according to the extension of name.
func (o *Optimizer) Optimize(name string, data []byte, quality int) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		out, err = o.jpeg(data, quality)
	case ".png":
		out, err = o.pngOptimize(data)
	case ".gif":
		out, err = o.gif(data)
	case ".svg":
		out, err = o.svg.Bytes(svgType, data)
	default:
		return data, nil
	}

	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCodec.Error()), "file", name)
	}
	return out, nil
}

func (o *Optimizer) jpeg(data []byte, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Optimizer) pngOptimize(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := o.png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Optimizer) gif(data []byte) ([]byte, error) {
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
