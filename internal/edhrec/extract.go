package edhrec

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Extractor pulls candidate card names out of a parsed HTML document. Every
// implementation is total: a document it cannot work with yields an empty
// list, never an error. The fetcher unions results in strategy order, so
// adding or removing a strategy never touches its control flow.
type Extractor interface {
	Extract(doc *html.Node) []string
}

// defaultExtractors is the fallback chain used when scraping a rendered
// commander page. Order matters: labelled card links carry the strongest
// signal, regex-matched text lines the weakest.
func defaultExtractors() []Extractor {
	return []Extractor{
		cardLinkExtractor{},
		imageAltExtractor{},
		dataAttrExtractor{},
		percentLineExtractor{},
	}
}

// cardLinkExtractor collects anchor text from links into card pages.
type cardLinkExtractor struct{}

func (cardLinkExtractor) Extract(doc *html.Node) []string {
	var names []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		class := attr(n, "class")
		if !strings.Contains(href, "/cards/") && !strings.Contains(class, "card") {
			return
		}
		if txt := strings.TrimSpace(textContent(n)); txt != "" {
			names = append(names, txt)
		}
	})
	return names
}

// imageAltExtractor collects card image captions. Long alt texts are page
// furniture, not card names.
type imageAltExtractor struct{}

func (imageAltExtractor) Extract(doc *html.Node) []string {
	var names []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "img" {
			return
		}
		alt := strings.TrimSpace(attr(n, "alt"))
		if alt != "" && len(alt) < 80 {
			names = append(names, alt)
		}
	})
	return names
}

// dataAttrExtractor collects elements tagged with an explicit card name.
type dataAttrExtractor struct{}

func (dataAttrExtractor) Extract(doc *html.Node) []string {
	var names []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if v := strings.TrimSpace(attr(n, "data-card-name")); v != "" {
			names = append(names, v)
		}
	})
	return names
}

// percentLineExtractor scans visible text for "Name N% of M decks" lines,
// the inclusion-statistics rows on commander pages.
type percentLineExtractor struct{}

var (
	percentLine = regexp.MustCompile(`\d+% of \d+ decks`)
	percentName = regexp.MustCompile(`^([A-Za-z0-9'\x{2018}\x{2019}\-\.\s:]+?)\s+\d+% of \d+ decks`)
)

func (percentLineExtractor) Extract(doc *html.Node) []string {
	var names []string
	for _, line := range strings.Split(textContent(doc), "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 4 || !percentLine.MatchString(line) {
			continue
		}
		if m := percentName.FindStringSubmatch(line); m != nil {
			names = append(names, strings.TrimSpace(m[1]))
		}
	}
	return names
}

// walk applies fn to every node in depth-first document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent renders the concatenated text of a subtree, one block element
// per line.
func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4":
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}
