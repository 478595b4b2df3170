package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// RenderedFile is a printed document held in memory
type RenderedFile struct {
	Data        []byte
	ContentType string
}

// Size returns the file size in bytes
func (f *RenderedFile) Size() int64 {
	return int64(len(f.Data))
}

// Printer converts a rendered HTML document into a fixed-layout file
type Printer interface {
	RenderToFile(ctx context.Context, html string) (*RenderedFile, error)
}

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageSize     string // letter, legal, A4
	MarginTop    int    // points (72 = 1 inch)
	MarginBottom int
	MarginLeft   int
	MarginRight  int
}

// DefaultPDFOptions returns options for court filings (letter, 2cm margins)
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:     "letter",
		MarginTop:    57, // ~2cm
		MarginBottom: 57,
		MarginLeft:   57,
		MarginRight:  57,
	}
}

// ChromePrinter renders HTML to PDF using headless Chrome
type ChromePrinter struct {
	ChromePath string
	Options    PDFOptions
	Timeout    time.Duration
}

// NewChromePrinter creates a printer; chromePath may be empty to use the
// browser found on PATH.
func NewChromePrinter(chromePath string, timeout time.Duration) *ChromePrinter {
	return &ChromePrinter{
		ChromePath: chromePath,
		Options:    DefaultPDFOptions(),
		Timeout:    timeout,
	}
}

// paperSize returns width and height in inches
func paperSize(size string) (float64, float64) {
	switch size {
	case "legal":
		return 8.5, 14.0
	case "A4":
		return 8.27, 11.69
	default: // letter
		return 8.5, 11.0
	}
}

// RenderToFile prints htmlContent to PDF
func (p *ChromePrinter) RenderToFile(ctx context.Context, htmlContent string) (*RenderedFile, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Custom Chrome path (for headless-shell in Docker)
	if p.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(p.ChromePath))
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	paperWidth, paperHeight := paperSize(p.Options.PageSize)

	// Convert points to inches for margins
	marginTop := float64(p.Options.MarginTop) / 72.0
	marginBottom := float64(p.Options.MarginBottom) / 72.0
	marginLeft := float64(p.Options.MarginLeft) / 72.0
	marginRight := float64(p.Options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return &RenderedFile{Data: pdfBuf, ContentType: "application/pdf"}, nil
}
