package pdf

import (
	"context"
	"encoding/base64"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// Print margins match the raster pipeline's 10mm, expressed in inches as
// the devtools protocol requires.
const (
	printMarginInches = 10.0 / 25.4
	printTimeout      = 30 * time.Second
)

// HTMLPrinter renders certificate markup to PDF through a headless Chromium
// instance. Concurrency is bounded so a large batch cannot fork an unbounded
// number of browser processes.
type HTMLPrinter struct {
	execPath string
	sem      chan struct{}
}

// NewHTMLPrinter locates a Chromium binary and sizes the worker pool.
// It returns nil with no error when no browser is installed; callers fall
// back to the raster pipeline.
func NewHTMLPrinter(maxConcurrent int) (*HTMLPrinter, error) {
	path := findBrowser()
	if path == "" {
		return nil, nil
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &HTMLPrinter{
		execPath: path,
		sem:      make(chan struct{}, maxConcurrent),
	}, nil
}

func findBrowser() string {
	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// Print renders the given HTML document as a landscape A4 PDF.
func (p *HTMLPrinter) Print(ctx context.Context, html string) ([]byte, error) {
	select {
	case p.sem <- struct{}{}:
		defer func() { <-p.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, printTimeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(p.execPath),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				WithPaperWidth(11.69).
				WithPaperHeight(8.27).
				WithMarginTop(printMarginInches).
				WithMarginBottom(printMarginInches).
				WithMarginLeft(printMarginInches).
				WithMarginRight(printMarginInches).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindConversionFailure, "printing certificate markup", err)
	}
	return pdf, nil
}
