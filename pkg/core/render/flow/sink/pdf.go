package sink

import (
	"context"

	"github.com/matzehuels/adaptiveflow/pkg/core/render"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the scene as PDF via SVG conversion. It fails with
// [render.ErrNoConverter] when rsvg-convert is not installed.
func RenderPDF(ctx context.Context, s *flow.Scene, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	return render.ToPDF(ctx, RenderSVG(s, r.svgOpts...))
}
