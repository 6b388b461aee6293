package extract

import (
	"net/url"

	"github.com/bmatcuk/doublestar/v4"
)

// Image is an <img> element as rendered by the page.
type Image struct {
	Src     string
	Width   int
	Height  int
	Visible bool
}

// Document is a loaded page the cascade reads from.
type Document interface {
	URL() string
	Title() string
	// Query returns the trimmed value of the first element matching
	// selector, or "" when nothing matches.
	Query(selector, attr string) string
	Images() []Image
}

// Result is what would be saved as an item.
type Result struct {
	Title string `json:"title"`
	Image string `json:"image"`
	URL   string `json:"url"`
}

// Extract runs the cascade against doc. It never fails: the title falls back
// to the document title and then NoTitle, the image to the largest visible
// image and then "".
func (c *Cascade) Extract(doc Document) Result {
	var title, image string

	if site, ok := c.site(doc.URL()); ok {
		title = first(doc, site.Title)
		image = first(doc, site.Image)
	}

	if title == "" {
		title = first(doc, c.Title)
	}
	if image == "" {
		image = first(doc, c.Image)
	}
	if title == "" {
		title = doc.Title()
	}
	if title == "" {
		title = NoTitle
	}
	if image == "" {
		image = c.bestImage(doc.Images())
	}

	return Result{Title: title, Image: image, URL: doc.URL()}
}

func (c *Cascade) site(pageURL string) (Site, bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return Site{}, false
	}
	host := u.Hostname()

	for _, s := range c.Sites {
		if ok, _ := doublestar.Match(s.Host, host); ok {
			return s, true
		}
	}
	return Site{}, false
}

func first(doc Document, rules []Rule) string {
	for _, r := range rules {
		if v := doc.Query(r.Selector, r.Attr); v != "" {
			return v
		}
	}
	return ""
}

// bestImage returns the visible image of largest area whose dimensions both
// exceed MinImageSize. Ties go to the earliest image.
func (c *Cascade) bestImage(images []Image) string {
	minSize := c.MinImageSize
	if minSize <= 0 {
		minSize = DefaultMinImageSize
	}

	var (
		best     string
		bestArea int
	)
	for _, img := range images {
		if img.Src == "" || !img.Visible || img.Width <= minSize || img.Height <= minSize {
			continue
		}
		if area := img.Width * img.Height; area > bestArea {
			best, bestArea = img.Src, area
		}
	}
	return best
}
