package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageSide  = 1600
	maxImageBytes = 20 << 20
	jpegQuality   = 90
)

// ImageSource fetches remote artwork: logos, stamps and weighment slips.
type ImageSource interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type HTTPImageSource struct {
	client *http.Client
}

func NewHTTPImageSource(timeout time.Duration) *HTTPImageSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPImageSource{client: &http.Client{Timeout: timeout}}
}

func (s *HTTPImageSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building image request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image larger than %d bytes", maxImageBytes)
	}

	return data, nil
}

// normalizeImage decodes a JPEG, PNG or WebP, flattens transparency onto white,
// shrinks it so no side exceeds maxImageSide and re-encodes it as JPEG.
func normalizeImage(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w == 0 || h == 0 {
		return nil, fmt.Errorf("decoding image: empty bounds")
	}

	if longest := max(w, h); longest > maxImageSide {
		w = w * maxImageSide / longest
		h = h * maxImageSide / longest
	}

	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	return buf.Bytes(), nil
}
