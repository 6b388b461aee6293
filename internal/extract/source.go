package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"

	"github.com/hay-kot/wishlist/internal/core/errs"
)

// Source loads the document at a URL. Failures wrap
// errs.ErrExtractionUnavailable.
type Source interface {
	Open(ctx context.Context, pageURL string) (Document, error)
}

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

const maxPageSize = 8 << 20

// DefaultUserAgent is sent by HTTPSource when none is configured.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// HTTPSource fetches the page and parses it as static HTML.
type HTTPSource struct {
	client    Doer
	userAgent string
	log       zerolog.Logger
}

// NewHTTPSource creates an HTTPSource. An empty userAgent uses
// DefaultUserAgent.
func NewHTTPSource(client Doer, userAgent string, log zerolog.Logger) *HTTPSource {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPSource{
		client:    client,
		userAgent: userAgent,
		log:       log.With().Str("component", "extract").Logger(),
	}
}

func (s *HTTPSource) Open(ctx context.Context, pageURL string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.log.Debug().Int("status", resp.StatusCode).Str("url", pageURL).Msg("page fetch failed")
		return nil, fmt.Errorf("%w: status %d", errs.ErrExtractionUnavailable, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}

	// Redirects change the page the rules are matched against.
	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	doc, err := ParseHTML(body, finalURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrExtractionUnavailable, err)
	}
	return doc, nil
}

// Extractor runs a Cascade against documents loaded by a Source.
type Extractor struct {
	source  Source
	cascade *Cascade
}

// NewExtractor creates an Extractor. A nil cascade uses DefaultCascade.
func NewExtractor(source Source, cascade *Cascade) *Extractor {
	if cascade == nil {
		cascade = DefaultCascade()
	}
	return &Extractor{source: source, cascade: cascade}
}

// Extract loads pageURL and runs the cascade over it.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (Result, error) {
	doc, err := e.source.Open(ctx, pageURL)
	if err != nil {
		return Result{}, err
	}
	if c, ok := doc.(io.Closer); ok {
		defer c.Close() //nolint:errcheck
	}
	return e.cascade.Extract(doc), nil
}
