package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLReader reads a reservation page from a saved or fetched HTML document.
type HTMLReader struct {
	url string
	doc *html.Node
}

// NewHTMLReader parses the document in r. url is recorded on the returned Page.
func NewHTMLReader(url string, r io.Reader) (*HTMLReader, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &HTMLReader{url: url, doc: doc}, nil
}

// ReadPage implements PageReader.
func (r *HTMLReader) ReadPage(_ context.Context) (*Page, error) {
	page := &Page{URL: r.url}

	if n := findFirst(r.doc, hasClass("facname")); n != nil {
		page.FacilityName = strings.TrimSpace(textContent(n))
	}

	if list := findFirst(r.doc, hasClass("rsv_body_list")); list != nil {
		page.ListFound = true
		page.NoData = findFirst(list, all(isElement("p"), hasClass("nodata"))) != nil

		for _, dl := range findAll(list, all(isElement("dl"), hasClass("rsv_list"))) {
			for _, dt := range findAll(dl, isElement("dt")) {
				page.Labels = append(page.Labels, strings.TrimSpace(textContent(dt)))
			}
			for _, dd := range findAll(dl, isElement("dd")) {
				page.Values = append(page.Values, strings.TrimSpace(textContent(dd)))
			}
		}
	}

	page.Image = readScheduleImage(r.doc)
	return page, nil
}

// readScheduleImage finds the first <img> in the availability table body.
func readScheduleImage(doc *html.Node) ScheduleImage {
	section := findFirst(doc, hasID("sec_availability"))
	if section == nil {
		return ScheduleImage{}
	}
	for _, table := range findAll(section, all(isElement("table"), hasClass("rsv_graph"))) {
		for _, tbody := range findAll(table, isElement("tbody")) {
			img := findFirst(tbody, isElement("img"))
			if img == nil {
				continue
			}
			alt, hasAlt := attr(img, "alt")
			return ScheduleImage{
				Found:  true,
				Blank:  hasClass(BlankImageClass)(img),
				HasAlt: hasAlt && alt != "",
				Alt:    alt,
			}
		}
	}
	return ScheduleImage{}
}

type matcher func(*html.Node) bool

func isElement(tag string) matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func hasClass(class string) matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		value, ok := attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(value) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func hasID(id string) matcher {
	return func(n *html.Node) bool {
		value, ok := attr(n, "id")
		return n.Type == html.ElementNode && ok && value == id
	}
}

func all(ms ...matcher) matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// findFirst returns the first descendant of n, in document order, matching m.
func findFirst(n *html.Node, m matcher) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := findFirst(c, m); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of n matching m, in document order.
func findAll(n *html.Node, m matcher) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			out = append(out, c)
		}
		out = append(out, findAll(c, m)...)
	}
	return out
}

// textContent concatenates all text beneath n, like the DOM property.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
