package extract

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"github.com/hay-kot/wishlist/internal/core/errs"
)

const (
	queryScript = `([selector, attr]) => {
  let el;
  try { el = document.querySelector(selector); } catch (e) { return ""; }
  if (!el) return "";
  const v = attr ? el.getAttribute(attr) : el.innerText;
  return (v || "").trim();
}`

	imagesScript = `() => Array.from(document.querySelectorAll("img")).map((img) => ({
  src: img.src,
  width: img.naturalWidth,
  height: img.naturalHeight,
  visible: img.offsetParent !== null,
}))`
)

// BrowserSource renders pages in headless Chromium so script-built markup
// and natural image sizes are visible to the cascade. The browser starts on
// first use and is shared until Close.
type BrowserSource struct {
	headless bool
	timeout  time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewBrowserSource creates a BrowserSource. timeout bounds each navigation.
func NewBrowserSource(headless bool, timeout time.Duration, log zerolog.Logger) *BrowserSource {
	return &BrowserSource{
		headless: headless,
		timeout:  timeout,
		log:      log.With().Str("component", "browser").Logger(),
	}
}

func (s *BrowserSource) start() error {
	if s.browser != nil {
		return nil
	}

	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &s.headless,
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("launch browser: %w", err)
	}

	s.pw = pw
	s.browser = browser
	s.log.Debug().Bool("headless", s.headless).Msg("browser started")
	return nil
}

func (s *BrowserSource) Open(ctx context.Context, pageURL string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}

	s.mu.Lock()
	err := s.start()
	browser := s.browser
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: new page: %v", errs.ErrExtractionUnavailable, err)
	}

	gotoOpts := playwright.PageGotoOptions{}
	waitUntil := playwright.WaitUntilState("load")
	gotoOpts.WaitUntil = &waitUntil
	if s.timeout > 0 {
		ms := float64(s.timeout.Milliseconds())
		gotoOpts.Timeout = &ms
	}

	if _, err := page.Goto(pageURL, gotoOpts); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: navigate: %v", errs.ErrExtractionUnavailable, err)
	}

	if err := ctx.Err(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}

	return newBrowserDocument(page, s.log)
}

// Close shuts the browser down. The source may be reopened afterwards.
func (s *BrowserSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}

	var closeErr error
	if err := s.browser.Close(); err != nil {
		closeErr = fmt.Errorf("close browser: %w", err)
	}
	if err := s.pw.Stop(); err != nil && closeErr == nil {
		closeErr = fmt.Errorf("stop playwright: %w", err)
	}

	s.browser = nil
	s.pw = nil
	return closeErr
}

var (
	_ Document  = (*browserDocument)(nil)
	_ io.Closer = (*browserDocument)(nil)
)

// browserDocument answers queries against the live page. Title and images
// are captured once after load.
type browserDocument struct {
	page   playwright.Page
	url    string
	title  string
	images []Image
	log    zerolog.Logger
}

func newBrowserDocument(page playwright.Page, log zerolog.Logger) (*browserDocument, error) {
	title, err := page.Title()
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: read title: %v", errs.ErrExtractionUnavailable, err)
	}

	raw, err := page.Evaluate(imagesScript)
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: read images: %v", errs.ErrExtractionUnavailable, err)
	}

	return &browserDocument{
		page:   page,
		url:    page.URL(),
		title:  collapse(title),
		images: decodeImages(raw),
		log:    log,
	}, nil
}

func (d *browserDocument) URL() string     { return d.url }
func (d *browserDocument) Title() string   { return d.title }
func (d *browserDocument) Images() []Image { return d.images }

func (d *browserDocument) Query(selector, attr string) string {
	v, err := d.page.Evaluate(queryScript, []any{selector, attr})
	if err != nil {
		d.log.Debug().Err(err).Str("selector", selector).Msg("query failed")
		return ""
	}
	s, _ := v.(string)
	return s
}

func (d *browserDocument) Close() error {
	return d.page.Close()
}

// decodeImages converts the evaluated image snapshot into Images. Entries
// that are not objects are skipped.
func decodeImages(raw any) []Image {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}

	out := make([]Image, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		src, _ := m["src"].(string)
		visible, _ := m["visible"].(bool)
		out = append(out, Image{
			Src:     src,
			Width:   toInt(m["width"]),
			Height:  toInt(m["height"]),
			Visible: visible,
		})
	}
	return out
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
