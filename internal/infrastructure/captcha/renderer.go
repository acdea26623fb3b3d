package captcha

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	steambap "github.com/steambap/captcha"
	"github.com/valyala/bytebufferpool"

	"github.com/rmachado/captcha-race/internal/domain/challenge"
)

const pngContentType = "image/png"

// Config fixes the visual parameters of every rendered image. Zero values
// fall back to the defaults used for the daily set.
type Config struct {
	Width       int
	Height      int
	TextLength  int
	Noise       float64
	CurveNumber int
}

func normalizeConfig(cfg Config) Config {
	if cfg.Width <= 0 {
		cfg.Width = 300
	}
	if cfg.Height <= 0 {
		cfg.Height = 120
	}
	if cfg.TextLength <= 0 {
		cfg.TextLength = 6
	}
	if cfg.Noise <= 0 {
		cfg.Noise = 2
	}
	if cfg.CurveNumber <= 0 {
		cfg.CurveNumber = 2
	}
	return cfg
}

// Renderer draws text and math captchas as PNG images.
type Renderer struct {
	cfg Config
}

func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: normalizeConfig(cfg)}
}

func (r *Renderer) RenderText(ctx context.Context) (challenge.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return challenge.Rendered{}, err
	}

	data, err := steambap.New(r.cfg.Width, r.cfg.Height, func(o *steambap.Options) {
		o.TextLength = r.cfg.TextLength
		o.Noise = r.cfg.Noise
		o.CurveNumber = r.cfg.CurveNumber
	})
	if err != nil {
		return challenge.Rendered{}, crerr.Wrap(err, "render text captcha")
	}

	return r.encode(data)
}

func (r *Renderer) RenderMath(ctx context.Context) (challenge.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return challenge.Rendered{}, err
	}

	data, err := steambap.NewMathExpr(r.cfg.Width, r.cfg.Height, func(o *steambap.Options) {
		o.Noise = r.cfg.Noise
		o.CurveNumber = r.cfg.CurveNumber
	})
	if err != nil {
		return challenge.Rendered{}, crerr.Wrap(err, "render math captcha")
	}

	return r.encode(data)
}

func (r *Renderer) encode(data *steambap.Data) (challenge.Rendered, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := data.WriteImage(buf); err != nil {
		return challenge.Rendered{}, crerr.Wrap(err, "encode captcha png")
	}

	image := make([]byte, buf.Len())
	copy(image, buf.Bytes())

	return challenge.Rendered{
		Image:       image,
		Solution:    data.Text,
		ContentType: pngContentType,
	}, nil
}
