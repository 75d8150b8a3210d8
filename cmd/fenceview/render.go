// render.go
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"

	"github.com/mordant23/fenceview"
	"github.com/mordant23/fenceview/internal/logging"
)

var errNoOpener = errors.New("no browser opener available")

// DetectOpenCmd returns the command used to open URLs.
func DetectOpenCmd(override string) string {
	return detectCmd(override, []string{
		"xdg-open",
		"open",
		"wslview",
	})
}

// NewOpener returns a func that runs cmd with the URL appended.
func NewOpener(cmd string) func(url string) error {
	return func(url string) error {
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			return errNoOpener
		}
		args := append(parts[1:], url)
		return exec.Command(parts[0], args...).Run()
	}
}

// BrowserRenderer serves the markup once on loopback and points the
// system browser at it.
type BrowserRenderer struct {
	Open    func(url string) error
	Timeout time.Duration
	Log     *slog.Logger
}

func (b *BrowserRenderer) Render(ctx context.Context, markup string) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen for preview: %w", err)
	}

	served := make(chan struct{})
	var once sync.Once
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		io.WriteString(w, markup)
		once.Do(func() { close(served) })
	})
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	url := "http://" + ln.Addr().String() + "/"

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve preview: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer shutdown(srv)

		b.logger().Debug("opening browser", slog.String("url", url))
		if err := b.Open(url); err != nil {
			return fmt.Errorf("open browser: %w", err)
		}

		timer := time.NewTimer(b.Timeout)
		defer timer.Stop()
		select {
		case <-served:
			b.logger().Debug("preview served", slog.String("url", url))
			return nil
		case <-gctx.Done():
			return gctx.Err()
		case <-timer.C:
			return fmt.Errorf("browser did not load %s within %s", url, b.Timeout)
		}
	})
	return g.Wait()
}

func (b *BrowserRenderer) logger() *slog.Logger {
	if b.Log == nil {
		return slog.Default()
	}
	return b.Log
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// ScreenshotRenderer renders the markup in headless Chrome and saves a
// full-page PNG.
type ScreenshotRenderer struct {
	Path   string
	Width  int
	Height int
	Log    *slog.Logger
}

func NewScreenshotRenderer(cfg *Config) fenceview.Renderer {
	return &ScreenshotRenderer{
		Path:   ExpandPath(cfg.ScreenshotPath),
		Width:  cfg.ScreenshotWidth,
		Height: cfg.ScreenshotHeight,
		Log:    logging.New("screenshot"),
	}
}

func (s *ScreenshotRenderer) Render(ctx context.Context, markup string) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(s.Width, s.Height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL(markup)),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return fmt.Errorf("headless chrome: %w", err)
	}

	if err := os.WriteFile(s.Path, png, 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	if s.Log != nil {
		s.Log.Debug("screenshot written", slog.String("path", s.Path), slog.Int("bytes", len(png)))
	}
	return nil
}

// dataURL inlines markup as a base64 text/html data URL.
func dataURL(markup string) string {
	return "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(markup))
}

// WriterRenderer writes the markup verbatim.
type WriterRenderer struct {
	W io.Writer
}

func (w WriterRenderer) Render(ctx context.Context, markup string) error {
	_, err := io.WriteString(w.W, markup)
	return err
}

// ClipboardRenderer copies the markup to the clipboard.
type ClipboardRenderer struct {
	Clipboard ClipboardWriter
	Out       io.Writer
}

func (c ClipboardRenderer) Render(ctx context.Context, markup string) error {
	if c.Clipboard == nil {
		return errNoClipboard
	}
	if err := c.Clipboard.Write(markup); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	fmt.Fprintln(c.Out, "✓ Copied to clipboard")
	return nil
}

// withSpinner shows a spinner on out while r runs. Off a TTY it returns r.
func withSpinner(r fenceview.Renderer, out io.Writer, message string, tty bool) fenceview.Renderer {
	if !tty {
		return r
	}
	return fenceview.RendererFunc(func(ctx context.Context, markup string) error {
		s := NewSpinner(out, message)
		s.Start()
		defer s.Wait()
		defer s.Stop()
		return r.Render(ctx, markup)
	})
}
