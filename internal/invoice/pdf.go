package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer prints invoice HTML to PDF with headless Chrome.
type Renderer struct {
	// ChromePath overrides browser detection; empty means autodetect.
	ChromePath string
	// Timeout bounds one render; zero means 30s.
	Timeout time.Duration
}

// chromeCandidates are the usual install locations checked after the
// CHROME_PATH override.
var chromeCandidates = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
}

func detectChromePath(override string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	for _, p := range chromeCandidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// RenderPDF lays the HTML out in a headless browser and prints it to an
// A4 PDF, honoring the template's page breaks.
func (r *Renderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	timeout := r.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Chrome wants a URL; hand it the document through a temp file.
	tmp, err := os.CreateTemp("", "invoice-*.html")
	if err != nil {
		return nil, fmt.Errorf("create temp html: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp html: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if path := detectChromePath(r.ChromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(tmp.Name())),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// 210mm x 297mm in inches; margins live in the CSS.
			pdf, _, err = cdppage.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return pdf, nil
}

// Export renders the invoice and writes factura_<number>.pdf into dir.
// It returns the written path.
func (r *Renderer) Export(ctx context.Context, inv Invoice, dir string) (string, error) {
	html, err := inv.HTML()
	if err != nil {
		return "", err
	}
	pdf, err := r.RenderPDF(ctx, html)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, inv.FileName())
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write invoice pdf: %w", err)
	}
	return path, nil
}
