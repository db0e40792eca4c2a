// Package pageview provides an immutable, queryable snapshot of one fetched
// document.
//
// A View exposes the page's visible text with line breaks at block
// boundaries (the shape the extraction heuristics expect), CSS-selector
// element queries, and any JSON-LD structured-data blocks. Views are
// read-only; extraction strategies can share one View freely.
package pageview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// View is a read-only snapshot of a fetched document.
type View struct {
	doc        *goquery.Document
	text       string
	structured []map[string]interface{}
}

// Element is one matched element within a View.
type Element struct {
	sel *goquery.Selection
}

// New builds a View from raw HTML, decoding to UTF-8 based on the response
// content type and the document bytes.
func New(r io.Reader, contentType string) (*View, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		decoded = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	// Collect JSON-LD before scripts are dropped from the tree.
	structured := collectStructuredData(doc)

	doc.Find("script,noscript,style").Remove()

	v := &View{
		doc:        doc,
		structured: structured,
	}
	v.text = renderText(doc.Selection)
	return v, nil
}

// FromHTML builds a View from an in-memory UTF-8 HTML string.
func FromHTML(src string) (*View, error) {
	return New(strings.NewReader(src), "text/html; charset=utf-8")
}

// Text returns the page's visible text. Block-level elements contribute a
// line break, so line-oriented heuristics see roughly what a browser's
// innerText would give them.
func (v *View) Text() string {
	return v.text
}

// Query returns all elements matching a CSS selector.
func (v *View) Query(selector string) []Element {
	var elements []Element
	v.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, Element{sel: s})
	})
	return elements
}

// First returns the first element matching a CSS selector.
func (v *View) First(selector string) (Element, bool) {
	sel := v.doc.Find(selector).First()
	if sel.Length() == 0 {
		return Element{}, false
	}
	return Element{sel: sel}, true
}

// StructuredData returns the page's JSON-LD blocks as key-value maps.
// Top-level arrays are flattened into their object entries.
func (v *View) StructuredData() []map[string]interface{} {
	return v.structured
}

// Text returns the element's visible text with block line breaks, trimmed.
func (e Element) Text() string {
	if e.sel == nil {
		return ""
	}
	return strings.TrimSpace(renderText(e.sel))
}

// Attr returns the named attribute value, or "" when absent.
func (e Element) Attr(name string) string {
	if e.sel == nil {
		return ""
	}
	val, _ := e.sel.Attr(name)
	return val
}

// Query returns elements matching the selector within this element.
func (e Element) Query(selector string) []Element {
	var elements []Element
	if e.sel == nil {
		return elements
	}
	e.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, Element{sel: s})
	})
	return elements
}

func collectStructuredData(doc *goquery.Document) []map[string]interface{} {
	var blocks []map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var any interface{}
		if err := json.Unmarshal([]byte(raw), &any); err != nil {
			return
		}
		switch val := any.(type) {
		case map[string]interface{}:
			blocks = append(blocks, val)
		case []interface{}:
			for _, item := range val {
				if m, ok := item.(map[string]interface{}); ok {
					blocks = append(blocks, m)
				}
			}
		}
	})
	return blocks
}

// blockTags are elements that terminate a visual line of text.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "div": true, "dl": true, "dt": true, "dd": true,
	"fieldset": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true,
}

func renderText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, node := range sel.Nodes {
		renderNode(&sb, node)
	}
	// Collapse runs of blank lines left by nested blocks.
	lines := strings.Split(sb.String(), "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if blockTags[n.Data] {
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c)
	}
	if n.Type == html.ElementNode && blockTags[n.Data] {
		sb.WriteString("\n")
	}
}
