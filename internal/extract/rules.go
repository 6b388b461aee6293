// Package extract derives an item's title and image from a product page
// through an ordered cascade of selector rules.
package extract

// Rule reads one value from a document. An empty Attr reads the element's
// visible text.
type Rule struct {
	Selector string `yaml:"selector"`
	Attr     string `yaml:"attr,omitempty"`
}

// Site holds rules tried before the generic ones on pages whose hostname
// matches the Host glob.
type Site struct {
	Host  string `yaml:"host"`
	Title []Rule `yaml:"title"`
	Image []Rule `yaml:"image"`
}

// DefaultMinImageSize is the exclusive lower bound, in pixels, on both
// dimensions of a fallback image.
const DefaultMinImageSize = 200

// NoTitle is the title used when nothing else matched.
const NoTitle = "No title found"

// Cascade is the ordered rule set. Within each list the first rule that
// yields a non-empty value wins.
type Cascade struct {
	Sites        []Site
	Title        []Rule
	Image        []Rule
	MinImageSize int
}

// DefaultSites returns the built-in site rules.
func DefaultSites() []Site {
	return []Site{
		{
			Host: "www.amazon.com",
			Title: []Rule{
				{Selector: "#productTitle"},
				{Selector: "#title"},
				{Selector: "#ebooksProductTitle"},
			},
			Image: []Rule{
				{Selector: "#imgTagWrapperId img#landingImage", Attr: "src"},
				{Selector: "#img-canvas img", Attr: "src"},
				{Selector: "#ebooks-img-canvas img#ebooksImgBlkFront", Attr: "src"},
			},
		},
	}
}

// DefaultCascade returns the built-in cascade.
func DefaultCascade() *Cascade {
	return &Cascade{
		Sites: DefaultSites(),
		Title: []Rule{
			{Selector: `meta[property="og:title"]`, Attr: "content"},
			{Selector: `meta[name="twitter:title"]`, Attr: "content"},
			{Selector: "h1"},
		},
		Image: []Rule{
			{Selector: `meta[property="og:image"]`, Attr: "content"},
			{Selector: `meta[name="twitter:image"]`, Attr: "content"},
		},
		MinImageSize: DefaultMinImageSize,
	}
}
