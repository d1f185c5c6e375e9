// Package browser prints the HTML view of a resume to PDF with headless Chrome.
package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// DefaultTimeout bounds a single print.
const DefaultTimeout = 30 * time.Second

// ErrClosed is returned by an Engine after Close.
var ErrClosed = errors.New("browser engine is closed")

// Config configures an Engine.
type Config struct {
	// ExecPath is the Chrome binary; empty searches the usual locations.
	ExecPath string
	Timeout  time.Duration
	Verbose  bool
}

// Engine reuses one headless browser for every print. It is safe for concurrent use.
type Engine struct {
	cfg Config

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closed        bool
}

// NewEngine creates an Engine. The browser starts on the first print.
func NewEngine(cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) browser() (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.browserCtx != nil {
		return e.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-first-run", true),
	)
	if e.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(e.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing binary fails this call.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	if e.cfg.Verbose {
		log.Printf("[BROWSER] Started headless browser")
	}
	e.allocCancel, e.browserCtx, e.browserCancel = allocCancel, browserCtx, browserCancel
	return browserCtx, nil
}

// PrintHTML loads html into a new tab and prints it at the size of an A4 page.
func (e *Engine) PrintHTML(ctx context.Context, html []byte) ([]byte, error) {
	browserCtx, err := e.browser()
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, e.cfg.Timeout)
	defer cancelTimeout()
	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	started := time.Now()
	var out []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			out, _, err = page.PrintToPDF().
				WithPaperWidth(rendering.PageWidth / 72).
				WithPaperHeight(rendering.PageHeight / 72).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser print failed: %w", err)
	}
	if e.cfg.Verbose {
		log.Printf("[BROWSER] Printed %d bytes in %s", len(out), time.Since(started).Round(time.Millisecond))
	}
	return out, nil
}

// WritePDF prints the HTML view of doc and writes the PDF to w.
func (e *Engine) WritePDF(ctx context.Context, w io.Writer, doc *rendering.Document) error {
	var html bytes.Buffer
	if err := rendering.WriteHTML(&html, doc); err != nil {
		return err
	}
	out, err := e.PrintHTML(ctx, html.Bytes())
	if err != nil {
		return &rendering.RenderError{Message: "browser engine failed", Cause: err}
	}
	if _, err := w.Write(out); err != nil {
		return &rendering.RenderError{Message: "failed to write PDF", Cause: err}
	}
	return nil
}

// Close stops the browser. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	if e.browserCancel != nil {
		e.browserCancel()
		e.allocCancel()
	}
}
