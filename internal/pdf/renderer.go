package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrRenderFailed = errors.New("PDF generation failed")

type Config struct {
	LogoURL      string
	FetchTimeout time.Duration
}

type Renderer struct {
	images  ImageSource
	logoURL string
	timeout time.Duration
	logger  *zap.Logger
}

func NewRenderer(cfg Config, images ImageSource, logger *zap.Logger) *Renderer {
	if images == nil {
		images = NewHTTPImageSource(cfg.FetchTimeout)
	}

	return &Renderer{
		images:  images,
		logoURL: cfg.LogoURL,
		timeout: cfg.FetchTimeout,
		logger:  logger.With(zap.String("component", "pdf")),
	}
}

// image fetches and normalizes url. Failures are logged and yield nil so the
// document still renders with an empty image area.
func (r *Renderer) image(ctx context.Context, kind, url string) []byte {
	if url == "" {
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)

		defer cancel()
	}

	raw, err := r.images.Fetch(ctx, url)
	if err == nil {
		var data []byte
		if data, err = normalizeImage(raw); err == nil {
			return data
		}
	}

	r.logger.Warn("image unavailable, rendering without it",
		zap.String("image", kind),
		zap.String("url", url),
		zap.Error(err))

	return nil
}

func (r *Renderer) RenderInvoice(ctx context.Context, data InvoiceData, slipURLs []string, stampURL string) ([]byte, error) {
	art := invoiceArt{
		logo:  r.image(ctx, "logo", r.logoURL),
		stamp: r.image(ctx, "stamp", stampURL),
	}

	if len(slipURLs) > 0 {
		art.slip = r.image(ctx, "weighment slip", slipURLs[0])
	}

	out, err := invoiceDocument(data, art).render()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return out, nil
}

func (r *Renderer) RenderDamageCertificate(ctx context.Context, data DamageCertificateData) ([]byte, error) {
	logo := r.image(ctx, "logo", r.logoURL)

	out, err := certificateDocument(data, logo).render()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return out, nil
}
