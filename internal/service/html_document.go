package service

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Lab information systems often export reports as HTML tables. Each table
// row becomes one line with its cells joined by spaces, which is the shape
// the line parser expects.
var (
	htmlLineTags = map[string]bool{
		"p": true, "div": true, "section": true, "article": true, "tr": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "ul": true, "ol": true, "table": true, "thead": true, "tbody": true,
	}
	htmlSkipTags = map[string]bool{
		"script": true, "style": true, "head": true, "nav": true,
	}
)

func decodeHTML(data []byte) (pagedDocument, error) {
	root, err := html.Parse(bytes.NewReader(bytes.ToValidUTF8(data, []byte{})))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc := &textDocument{
		text:     normalizeHTMLText(htmlToText(root)),
		metadata: map[string]string{},
	}
	if title := findHTMLTitle(root); title != "" {
		doc.metadata["title"] = title
	}
	for name, value := range htmlMetaTags(root) {
		switch name {
		case "author", "subject":
			doc.metadata[name] = value
		case "generator":
			doc.metadata["creator"] = value
		case "description":
			if _, ok := doc.metadata["subject"]; !ok {
				doc.metadata["subject"] = value
			}
		}
	}
	return doc, nil
}

func htmlToText(root *html.Node) string {
	var sb strings.Builder
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteString("\n")
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			tag := strings.ToLower(n.Data)
			if htmlSkipTags[tag] {
				return
			}
			if tag == "br" {
				newline()
			}
			if htmlLineTags[tag] {
				newline()
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteString(" ")
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && htmlLineTags[strings.ToLower(n.Data)] {
			newline()
		}
	}
	walk(root)

	return sb.String()
}

func findHTMLTitle(n *html.Node) string {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, "title") {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(sb.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findHTMLTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// htmlMetaTags collects <meta name=... content=...> pairs, lowercasing names
func htmlMetaTags(root *html.Node) map[string]string {
	out := map[string]string{}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "meta") {
			var name, content string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "name":
					name = strings.ToLower(strings.TrimSpace(a.Val))
				case "content":
					content = strings.TrimSpace(a.Val)
				}
			}
			if name != "" && content != "" {
				out[name] = content
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func normalizeHTMLText(s string) string {
	// Replace non-breaking spaces.
	s = strings.ReplaceAll(s, "\u00a0", " ")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}
